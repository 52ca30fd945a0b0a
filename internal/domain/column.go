package domain

import (
	"fmt"
	"strings"
	"time"
)

type ColumnType string

const (
	ColumnStatus ColumnType = "status"
	ColumnText   ColumnType = "text"
	ColumnDate   ColumnType = "date"
)

// ValidColumnTypes is the canonical set of accepted column type strings.
var ValidColumnTypes = map[ColumnType]bool{
	ColumnStatus: true, ColumnText: true, ColumnDate: true,
}

// Reserved column keys. They can be relabelled but never removed or retyped.
const (
	TitleColumnKey     = "ozellik"
	ReferenceColumnKey = "prd"
)

const dateLayout = "2006-01-02"

// ColumnConfig defines one field that exists on every item.
type ColumnConfig struct {
	Key   string     `yaml:"key" json:"key"`
	Label string     `yaml:"label" json:"label"`
	Type  ColumnType `yaml:"type" json:"type"`
}

// IsLockedColumn reports whether key is one of the reserved columns.
func IsLockedColumn(key string) bool {
	return key == TitleColumnKey || key == ReferenceColumnKey
}

// Schema is the ordered column list shared by the codec and the board.
type Schema []ColumnConfig

// DefaultSchema returns the column set used when no settings file exists.
func DefaultSchema() Schema {
	return Schema{
		{Key: TitleColumnKey, Label: "Özellik", Type: ColumnText},
		{Key: ReferenceColumnKey, Label: "PRD", Type: ColumnText},
		{Key: "backend", Label: "Backend", Type: ColumnStatus},
		{Key: "frontend", Label: "Frontend", Type: ColumnStatus},
		{Key: "test", Label: "Test", Type: ColumnStatus},
	}
}

// Index returns the position of key in the schema, or -1.
func (s Schema) Index(key string) int {
	for i, c := range s {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Column returns the column with the given key.
func (s Schema) Column(key string) (ColumnConfig, bool) {
	if i := s.Index(key); i >= 0 {
		return s[i], true
	}
	return ColumnConfig{}, false
}

// TitleColumn returns the first text column. Legacy table rows are mapped
// positionally, so the first text column doubles as the item title.
func (s Schema) TitleColumn() (ColumnConfig, bool) {
	for _, c := range s {
		if c.Type == ColumnText {
			return c, true
		}
	}
	return ColumnConfig{}, false
}

// StatusColumns returns the status-typed columns in schema order.
func (s Schema) StatusColumns() []ColumnConfig {
	var out []ColumnConfig
	for _, c := range s {
		if c.Type == ColumnStatus {
			out = append(out, c)
		}
	}
	return out
}

// Labels returns the column labels in order.
func (s Schema) Labels() []string {
	labels := make([]string, len(s))
	for i, c := range s {
		labels[i] = c.Label
	}
	return labels
}

// Validate returns every problem found in the schema.
func (s Schema) Validate() []error {
	var errs []error
	if len(s) == 0 {
		return []error{fmt.Errorf("schema has no columns")}
	}
	seen := make(map[string]bool, len(s))
	for i, c := range s {
		if strings.TrimSpace(c.Key) == "" {
			errs = append(errs, fmt.Errorf("columns[%d]: key is required", i))
			continue
		}
		if seen[c.Key] {
			errs = append(errs, fmt.Errorf("columns[%d]: %w: %q", i, ErrDuplicateColumn, c.Key))
		}
		seen[c.Key] = true
		if !ValidColumnTypes[c.Type] {
			errs = append(errs, fmt.Errorf("columns[%d]: %w: %q", i, ErrInvalidColumnType, c.Type))
		}
		if strings.TrimSpace(c.Label) == "" {
			errs = append(errs, fmt.Errorf("columns[%d]: label is required", i))
		}
	}
	if _, ok := s.TitleColumn(); !ok {
		errs = append(errs, fmt.Errorf("schema needs at least one text column for the title"))
	}
	return errs
}

// WithColumn returns a copy of the schema with c appended.
func (s Schema) WithColumn(c ColumnConfig) (Schema, error) {
	if s.Index(c.Key) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Key)
	}
	if !ValidColumnTypes[c.Type] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColumnType, c.Type)
	}
	out := append(s.clone(), c)
	return out, nil
}

// WithoutColumn returns a copy of the schema with key removed.
func (s Schema) WithoutColumn(key string) (Schema, error) {
	if IsLockedColumn(key) {
		return nil, fmt.Errorf("%w: %q", ErrLockedColumn, key)
	}
	i := s.Index(key)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	out := s.clone()
	return append(out[:i], out[i+1:]...), nil
}

// WithColumnType returns a copy of the schema with key retyped.
func (s Schema) WithColumnType(key string, t ColumnType) (Schema, error) {
	if IsLockedColumn(key) {
		return nil, fmt.Errorf("%w: %q", ErrLockedColumn, key)
	}
	if !ValidColumnTypes[t] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColumnType, t)
	}
	i := s.Index(key)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	out := s.clone()
	out[i].Type = t
	return out, nil
}

// WithColumnLabel returns a copy of the schema with key relabelled.
func (s Schema) WithColumnLabel(key, label string) (Schema, error) {
	i := s.Index(key)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	out := s.clone()
	out[i].Label = label
	return out, nil
}

// NormalizeValue validates raw input for column key and returns the stored form.
// Status columns accept the glyphs plus the aliases understood by ParseStatus.
func (s Schema) NormalizeValue(key, raw string) (string, error) {
	c, ok := s.Column(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	raw = strings.TrimSpace(raw)
	switch c.Type {
	case ColumnStatus:
		return ParseStatus(raw)
	case ColumnDate:
		if raw == "" {
			return "", nil
		}
		if _, err := time.Parse(dateLayout, raw); err != nil {
			return "", fmt.Errorf("%s: expected YYYY-MM-DD, got %q", c.Label, raw)
		}
	}
	return raw, nil
}

func (s Schema) clone() Schema {
	out := make(Schema, len(s))
	copy(out, s)
	return out
}
