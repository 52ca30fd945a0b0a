package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roadmap/internal/db"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/repository"
)

type preferenceService struct {
	prefs    repository.PreferenceRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPreferenceService(prefs repository.PreferenceRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PreferenceService {
	return &preferenceService{prefs: prefs, uow: uow, observer: combineObservers(observers...)}
}

// ItemKey identifies an item across reloads. Item ids are regenerated on
// every parse, so the key is the phase plus the title path.
func ItemKey(doc *domain.Roadmap, schema domain.Schema, id string) (string, bool) {
	loc, ok := doc.Locate(id)
	if !ok {
		return "", false
	}
	return loc.Phase + ":" + strings.Join(loc.TitlePath(schema), "/"), true
}

func (s *preferenceService) Expanded(ctx context.Context, document string) (map[string]bool, error) {
	prefs, err := s.prefs.List(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	return prefs, nil
}

func (s *preferenceService) SetExpanded(ctx context.Context, document, itemKey string, expanded bool) error {
	return s.prefs.Set(ctx, document, itemKey, expanded)
}

// SetMany stores all prefs in one transaction.
func (s *preferenceService) SetMany(ctx context.Context, document string, prefs map[string]bool) (err error) {
	defer observe(ctx, s.observer, "set-preferences", time.Now(), &err, map[string]any{"document": document, "count": len(prefs)})

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePreferenceRepo(tx)
		for key, expanded := range prefs {
			if err := repo.Set(ctx, document, key, expanded); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *preferenceService) Reset(ctx context.Context, document string) (err error) {
	defer observe(ctx, s.observer, "reset-preferences", time.Now(), &err, map[string]any{"document": document})
	return s.prefs.DeleteDocument(ctx, document)
}

// RenamePhases rewrites the document's keys in one transaction. A key left on
// a phase key that another phase moved onto is dropped.
func (s *preferenceService) RenamePhases(ctx context.Context, document string, renames map[string]string) (err error) {
	defer observe(ctx, s.observer, "rename-phase-preferences", time.Now(), &err, map[string]any{"document": document, "phases": len(renames)})

	if len(renames) == 0 {
		return nil
	}
	targets := make(map[string]bool, len(renames))
	for _, to := range renames {
		targets[to] = true
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePreferenceRepo(tx)
		prefs, err := repo.List(ctx, document)
		if err != nil {
			return err
		}
		if err := repo.DeleteDocument(ctx, document); err != nil {
			return err
		}
		for key, expanded := range prefs {
			if phase, rest, ok := strings.Cut(key, ":"); ok {
				if to, moved := renames[phase]; moved {
					key = to + ":" + rest
				} else if targets[phase] {
					continue
				}
			}
			if err := repo.Set(ctx, document, key, expanded); err != nil {
				return err
			}
		}
		return nil
	})
}
