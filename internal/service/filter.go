package service

import (
	"strings"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/sahilm/fuzzy"
)

// FilterMatch is one item whose title matched the board filter.
type FilterMatch struct {
	Phase   string
	ItemID  string
	Title   string
	Depth   int
	Indexes []int
	Score   int
}

type filterEntry struct {
	phase string
	item  *domain.Item
	title string
	depth int
}

type filterEntries []filterEntry

func (f filterEntries) String(i int) string { return f[i].title }
func (f filterEntries) Len() int            { return len(f) }

// SetFilter fuzzy-matches item titles. Reordering stays locked while the
// query is non-empty because the visible rows no longer map onto the
// underlying lists.
func (s *roadmapService) SetFilter(query string) []FilterMatch {
	query = strings.TrimSpace(query)
	s.engineMu.Lock()
	s.engine.SetFilterActive(query != "")
	s.engineMu.Unlock()
	if query == "" {
		return nil
	}

	s.mu.Lock()
	var entries filterEntries
	schema := s.settings.Columns
	for _, phase := range s.doc.OrderedPhaseKeys() {
		domain.Walk(s.doc.Phases[phase], func(it *domain.Item, depth int) bool {
			entries = append(entries, filterEntry{phase: phase, item: it, title: it.Title(schema), depth: depth})
			return true
		})
	}
	s.mu.Unlock()

	matches := fuzzy.FindFrom(query, entries)
	out := make([]FilterMatch, 0, len(matches))
	for _, m := range matches {
		e := entries[m.Index]
		out = append(out, FilterMatch{
			Phase:   e.phase,
			ItemID:  e.item.ID,
			Title:   e.title,
			Depth:   e.depth,
			Indexes: m.MatchedIndexes,
			Score:   m.Score,
		})
	}
	return out
}
