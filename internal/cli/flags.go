package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

// fieldValues collects repeated --set key=value flags.
type fieldValues map[string]string

var _ pflag.Value = (*fieldValues)(nil)

func (f *fieldValues) String() string {
	if f == nil || len(*f) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(*f))
	for k, v := range *f {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (f *fieldValues) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if *f == nil {
		*f = make(fieldValues)
	}
	(*f)[key] = value
	return nil
}

func (f *fieldValues) Type() string { return "key=value" }

// noteTableValue restricts --table to the auxiliary note tables.
type noteTableValue string

var _ pflag.Value = (*noteTableValue)(nil)

func (n *noteTableValue) String() string { return string(*n) }

func (n *noteTableValue) Set(s string) error {
	switch s {
	case "errors", "other":
		*n = noteTableValue(s)
		return nil
	}
	return fmt.Errorf("must be errors or other")
}

func (n *noteTableValue) Type() string { return "table" }
