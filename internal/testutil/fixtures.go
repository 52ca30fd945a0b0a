package testutil

import (
	"github.com/alexanderramin/roadmap/internal/domain"
)

// ItemOption customizes a test item.
type ItemOption func(*domain.Item)

func WithID(id string) ItemOption {
	return func(it *domain.Item) { it.ID = id }
}

func WithField(key, value string) ItemOption {
	return func(it *domain.Item) { it.Set(key, value) }
}

// WithStatus sets every status column of the default schema to s.
func WithStatus(s string) ItemOption {
	return func(it *domain.Item) {
		for _, c := range domain.DefaultSchema().StatusColumns() {
			it.Set(c.Key, s)
		}
	}
}

func WithChildren(children ...*domain.Item) ItemOption {
	return func(it *domain.Item) { it.Children = children }
}

// NewTestItem builds an item titled title with every default status column
// set to "-".
func NewTestItem(title string, opts ...ItemOption) *domain.Item {
	it := domain.NewItem(map[string]string{domain.TitleColumnKey: title, domain.ReferenceColumnKey: ""})
	for _, c := range domain.DefaultSchema().StatusColumns() {
		it.Set(c.Key, domain.StatusNone)
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// RoadmapOption customizes a test roadmap.
type RoadmapOption func(*domain.Roadmap)

// WithPhase appends a phase with the given items.
func WithPhase(key, name string, items ...*domain.Item) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.SetItems(key, items)
		if name != "" {
			r.Names[key] = name
		}
	}
}

func WithTitle(title string) RoadmapOption {
	return func(r *domain.Roadmap) { r.Title = title }
}

func WithChange(date, change string) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Aux.Changelog = append(r.Aux.Changelog, domain.ChangeEntry{Date: date, Change: change})
	}
}

func NewTestRoadmap(opts ...RoadmapOption) *domain.Roadmap {
	r := domain.NewRoadmap()
	for _, opt := range opts {
		opt(r)
	}
	return r
}
