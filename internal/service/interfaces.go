package service

import (
	"context"

	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/reorder"
)

// NoteTable selects one of the auxiliary note tables.
type NoteTable string

const (
	NoteErrors       NoteTable = "errors"
	NoteOtherChanges NoteTable = "other"
)

// RoadmapService owns the in-memory document, applies edits and reorder
// callbacks, and persists through a debounced writer. It is the host of the
// drag engine.
type RoadmapService interface {
	reorder.Host

	Load(ctx context.Context) error
	Document() *domain.Roadmap
	Schema() domain.Schema
	Settings() *config.Settings
	DocumentPath() string
	Markdown() string
	Status(ctx context.Context) (*StatusReport, error)

	AddItem(ctx context.Context, phase string, fields map[string]string) (*domain.Item, error)
	InsertBelow(ctx context.Context, siblingID string, fields map[string]string) (*domain.Item, error)
	AddSubtask(ctx context.Context, parentID string, fields map[string]string) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) (*domain.Item, error)
	SetField(ctx context.Context, id, key, value string) error

	AddPhase(ctx context.Context, name string) (string, error)
	RenamePhase(ctx context.Context, key, name string) error
	SetPhaseColor(ctx context.Context, key, color string) error
	RemovePhase(ctx context.Context, key string) error

	AddColumn(ctx context.Context, c domain.ColumnConfig) error
	RemoveColumn(ctx context.Context, key string) error
	RetypeColumn(ctx context.Context, key string, t domain.ColumnType) error
	RelabelColumn(ctx context.Context, key, label string) error

	AddChangelogEntry(ctx context.Context, change string) error
	AddNote(ctx context.Context, table NoteTable, title, description string) error

	// Reorder runs fn against the drag engine under the engine lock.
	Reorder(fn func(e *reorder.Engine))
	// SetFilter applies a text filter; a non-empty query locks reordering.
	SetFilter(query string) []FilterMatch

	// Save writes the document now; Flush writes it only if an edit is pending.
	Save(ctx context.Context) error
	Flush(ctx context.Context) error
	Close() error
}

// PreferenceService persists the board's expand/collapse state per document.
type PreferenceService interface {
	Expanded(ctx context.Context, document string) (map[string]bool, error)
	SetExpanded(ctx context.Context, document, itemKey string, expanded bool) error
	SetMany(ctx context.Context, document string, prefs map[string]bool) error
	Reset(ctx context.Context, document string) error
	// RenamePhases moves stored keys from one phase key to another.
	RenamePhases(ctx context.Context, document string, renames map[string]string) error
}
