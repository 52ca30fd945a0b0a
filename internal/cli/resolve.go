package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/roadmap/internal/domain"
)

var rowNumberRe = regexp.MustCompile(`^\d+(\.\d+){0,2}$`)

// resolveItem finds an item by reference. Item ids change on every load, so
// the usual reference is positional: "faz1:2.1" is the first subtask of the
// second item in faz1, exactly as `show` numbers it. "faz1:Auth/Login"
// resolves by title path, and a raw id is accepted as well.
func resolveItem(doc *domain.Roadmap, schema domain.Schema, ref string) (*domain.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("item reference is required")
	}
	if loc, ok := doc.Locate(ref); ok {
		return loc.Item, nil
	}

	phase, path, ok := strings.Cut(ref, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q (use PHASE:NUMBER, e.g. faz1:2.1)", domain.ErrItemNotFound, ref)
	}
	phase = normalizePhaseKey(phase)
	if !doc.HasPhase(phase) {
		return nil, fmt.Errorf("%w: %q", domain.ErrPhaseNotFound, phase)
	}

	var it *domain.Item
	if rowNumberRe.MatchString(path) {
		it = itemByNumber(doc.Phases[phase], path)
	} else {
		it = itemByTitlePath(doc.Phases[phase], schema, strings.Split(path, "/"))
	}
	if it == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrItemNotFound, ref)
	}
	return it, nil
}

func itemByNumber(items []*domain.Item, number string) *domain.Item {
	var it *domain.Item
	for _, part := range strings.Split(number, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > len(items) {
			return nil
		}
		it = items[n-1]
		items = it.Children
	}
	return it
}

func itemByTitlePath(items []*domain.Item, schema domain.Schema, path []string) *domain.Item {
	var found *domain.Item
	for _, title := range path {
		found = nil
		for _, it := range items {
			if strings.EqualFold(it.Title(schema), strings.TrimSpace(title)) {
				found = it
				break
			}
		}
		if found == nil {
			return nil
		}
		items = found.Children
	}
	return found
}

// normalizePhaseKey accepts "faz2", "FAZ2" or a bare "2".
func normalizePhaseKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return domain.PhaseKey(n)
	}
	return s
}
