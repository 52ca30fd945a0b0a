package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/roadmap/internal/codec"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/repository"
)

// PhaseStatus is the completion of one phase, counted over root items.
type PhaseStatus struct {
	Key      string
	Name     string
	Color    string
	Tally    domain.Tally
	Subtasks int
}

// StatusReport summarizes the document for the status view.
type StatusReport struct {
	Title    string
	Document string
	Phases   []PhaseStatus
	Columns  []domain.ColumnTally
	Overall  domain.Tally
	Pending  bool
	LastSave *domain.SaveRecord
}

func (s *roadmapService) Status(ctx context.Context) (*StatusReport, error) {
	s.mu.Lock()
	schema := s.settings.Columns
	report := &StatusReport{
		Title:    s.doc.Title,
		Document: s.docs.Path(),
		Columns:  domain.SummaryTally(s.doc, schema),
		Pending:  s.dirty,
	}
	if s.settings.Title != "" {
		report.Title = s.settings.Title
	}
	if report.Title == "" {
		report.Title = codec.DefaultTitle
	}
	for _, key := range s.doc.OrderedPhaseKeys() {
		items := s.doc.Phases[key]
		ps := PhaseStatus{
			Key:   key,
			Name:  codec.PhaseName(key, s.settings.Phases, s.doc),
			Color: s.settings.Phases[key].Color,
			Tally: domain.PhaseTally(items, schema),
		}
		domain.Walk(items, func(_ *domain.Item, depth int) bool {
			if depth > 0 {
				ps.Subtasks++
			}
			return true
		})
		report.Overall.Done += ps.Tally.Done
		report.Overall.Total += ps.Tally.Total
		report.Phases = append(report.Phases, ps)
	}
	s.mu.Unlock()

	if s.saves != nil {
		last, err := s.saves.Latest(ctx, s.docs.Path())
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("loading last save: %w", err)
		default:
			report.LastSave = last
		}
	}
	return report, nil
}
