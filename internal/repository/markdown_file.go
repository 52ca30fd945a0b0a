package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// MarkdownFileRepo keeps the document in a single file on disk.
type MarkdownFileRepo struct {
	path string
}

func NewMarkdownFileRepo(path string) *MarkdownFileRepo {
	return &MarkdownFileRepo{path: path}
}

func (r *MarkdownFileRepo) Path() string { return r.path }

func (r *MarkdownFileRepo) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("document %s: %w", r.path, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}

// Save replaces the file atomically so readers never see a partial write.
func (r *MarkdownFileRepo) Save(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating document directory: %w", err)
		}
	}
	if err := atomic.WriteFile(r.path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}
