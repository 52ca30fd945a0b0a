package repository

import (
	"context"

	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/domain"
)

// DocumentRepo stores the markdown document.
type DocumentRepo interface {
	// Load returns ErrNotFound when the document does not exist yet.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, content string) error
	Path() string
}

// PreferenceRepo stores per-item view state (expanded/collapsed) per document.
type PreferenceRepo interface {
	Get(ctx context.Context, document, itemKey string) (bool, error)
	Set(ctx context.Context, document, itemKey string, expanded bool) error
	List(ctx context.Context, document string) (map[string]bool, error)
	DeleteDocument(ctx context.Context, document string) error
}

// SaveLogRepo records document writes.
type SaveLogRepo interface {
	Append(ctx context.Context, rec *domain.SaveRecord) error
	Latest(ctx context.Context, document string) (*domain.SaveRecord, error)
	ListRecent(ctx context.Context, document string, limit int) ([]*domain.SaveRecord, error)
}

// SettingsRepo stores the per-project settings (schema, phase display).
type SettingsRepo interface {
	Load(ctx context.Context) (*config.Settings, error)
	Save(ctx context.Context, s *config.Settings) error
}
