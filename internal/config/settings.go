// Package config loads the per-project roadmap settings file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// DefaultSaveDebounce is the coalescing window for document writes.
const DefaultSaveDebounce = 500 * time.Millisecond

// Settings is the contents of .roadmap.yaml. Phases are keyed like the
// document's ordinal headings (faz1 is the first phase); the roadmap service
// re-keys them whenever phases are reordered or removed.
type Settings struct {
	Title        string              `yaml:"title,omitempty"`
	Columns      domain.Schema       `yaml:"columns"`
	Phases       domain.PhaseConfigs `yaml:"phases,omitempty"`
	SaveDebounce time.Duration       `yaml:"save_debounce,omitempty"`
}

// Default returns the settings used when no file exists.
func Default() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into validated settings.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save validates the settings and writes them to path atomically.
func (s *Settings) Save(path string) error {
	if err := s.validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	if len(s.Columns) == 0 {
		s.Columns = domain.DefaultSchema()
	}
	for i := range s.Columns {
		if s.Columns[i].Type == "" {
			s.Columns[i].Type = domain.ColumnText
		}
		if s.Columns[i].Label == "" {
			s.Columns[i].Label = s.Columns[i].Key
		}
	}
	if s.Phases == nil {
		s.Phases = domain.PhaseConfigs{}
	}
	if s.SaveDebounce <= 0 {
		s.SaveDebounce = DefaultSaveDebounce
	}
}

func (s *Settings) validate() error {
	var errs []string
	for _, err := range s.Columns.Validate() {
		errs = append(errs, err.Error())
	}
	for key := range s.Phases {
		if !domain.IsPhaseKey(key) {
			errs = append(errs, fmt.Sprintf("phases.%s: key must start with %q", key, domain.PhaseKeyPrefix))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
