package repository

import (
	"context"

	"github.com/alexanderramin/roadmap/internal/config"
)

// YAMLSettingsRepo keeps settings in a .roadmap.yaml file.
type YAMLSettingsRepo struct {
	path string
}

func NewYAMLSettingsRepo(path string) *YAMLSettingsRepo {
	return &YAMLSettingsRepo{path: path}
}

// Load returns defaults when the file does not exist.
func (r *YAMLSettingsRepo) Load(ctx context.Context) (*config.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return config.Load(r.path)
}

func (r *YAMLSettingsRepo) Save(ctx context.Context, s *config.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Save(r.path)
}

// MemorySettingsRepo holds settings in memory; used when no file should be written.
type MemorySettingsRepo struct {
	settings *config.Settings
}

func NewMemorySettingsRepo(s *config.Settings) *MemorySettingsRepo {
	if s == nil {
		s = config.Default()
	}
	return &MemorySettingsRepo{settings: s}
}

func (r *MemorySettingsRepo) Load(context.Context) (*config.Settings, error) {
	cp := *r.settings
	return &cp, nil
}

func (r *MemorySettingsRepo) Save(_ context.Context, s *config.Settings) error {
	cp := *s
	r.settings = &cp
	return nil
}
