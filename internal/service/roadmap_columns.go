package service

import (
	"context"
	"time"

	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/domain"
)

func (s *roadmapService) AddColumn(ctx context.Context, c domain.ColumnConfig) (err error) {
	defer s.observe(ctx, "add-column", time.Now(), &err, map[string]any{"column": c.Key, "type": string(c.Type)})

	if c.Label == "" {
		c.Label = c.Key
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.settings.Columns.WithColumn(c)
	if err != nil {
		return err
	}
	if err = s.updateSettingsLocked(ctx, func(cfg *config.Settings) { cfg.Columns = next }); err != nil {
		return err
	}
	s.markDirtyLocked()
	return nil
}

// RemoveColumn drops the column and its values from every item.
func (s *roadmapService) RemoveColumn(ctx context.Context, key string) (err error) {
	defer s.observe(ctx, "remove-column", time.Now(), &err, map[string]any{"column": key})

	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.settings.Columns.WithoutColumn(key)
	if err != nil {
		return err
	}
	if err = s.updateSettingsLocked(ctx, func(cfg *config.Settings) { cfg.Columns = next }); err != nil {
		return err
	}
	s.eachItemLocked(func(it *domain.Item) { delete(it.Fields, key) })
	s.markDirtyLocked()
	return nil
}

// RetypeColumn changes the column type and converts existing values.
// Values the new type cannot represent are reset.
func (s *roadmapService) RetypeColumn(ctx context.Context, key string, t domain.ColumnType) (err error) {
	defer s.observe(ctx, "retype-column", time.Now(), &err, map[string]any{"column": key, "type": string(t)})

	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.settings.Columns.WithColumnType(key, t)
	if err != nil {
		return err
	}
	if err = s.updateSettingsLocked(ctx, func(cfg *config.Settings) { cfg.Columns = next }); err != nil {
		return err
	}
	s.eachItemLocked(func(it *domain.Item) {
		v, convErr := next.NormalizeValue(key, it.Get(key))
		if convErr != nil {
			v = ""
			if t == domain.ColumnStatus {
				v = domain.StatusNone
			}
		}
		it.Set(key, v)
	})
	s.markDirtyLocked()
	return nil
}

func (s *roadmapService) RelabelColumn(ctx context.Context, key, label string) (err error) {
	defer s.observe(ctx, "relabel-column", time.Now(), &err, map[string]any{"column": key})

	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.settings.Columns.WithColumnLabel(key, label)
	if err != nil {
		return err
	}
	if err = s.updateSettingsLocked(ctx, func(cfg *config.Settings) { cfg.Columns = next }); err != nil {
		return err
	}
	s.markDirtyLocked()
	return nil
}

func (s *roadmapService) eachItemLocked(fn func(it *domain.Item)) {
	for _, items := range s.doc.Phases {
		domain.Walk(items, func(it *domain.Item, _ int) bool {
			fn(it)
			return true
		})
	}
}
