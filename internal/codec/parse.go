// Package codec converts between the roadmap Markdown dialect and the
// in-memory phase/item tree. Both directions are pure functions.
package codec

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/alexanderramin/roadmap/internal/domain"
)

type sectionMode int

const (
	modeNone sectionMode = iota
	modePhase
	modeChangelog
	modeErrors
	modeOtherChanges
)

// Section headings, compared after Turkish-aware upper casing.
const (
	HeadingSummary      = "GENEL ÖZET"
	HeadingChangelog    = "DEĞİŞİKLİK GEÇMİŞİ"
	HeadingErrors       = "HATALAR"
	HeadingOtherChanges = "DİĞER DEĞİŞİKLİKLER"
)

// phaseHeading is the result of a recognized phase heading.
type phaseHeading struct {
	number int
	name   string
}

// headingRecognizer matches one heading dialect.
type headingRecognizer func(line string) (phaseHeading, bool)

var (
	ordinalHeadingRe = regexp.MustCompile(`^##\s+(\d+)\s+[—–-]\s*(.*?)\s*$`)
	legacyHeadingRe  = regexp.MustCompile(`(?i)^##\s+FAZ\s*(\d+)\b\s*[—–:\-.]?\s*(.*?)\s*$`)
	titleRe          = regexp.MustCompile(`^#\s+(.+?)\s*$`)
)

// phaseRecognizers are tried in order; the generator only ever writes the first form.
var phaseRecognizers = []headingRecognizer{
	regexpRecognizer(ordinalHeadingRe),
	regexpRecognizer(legacyHeadingRe),
}

func regexpRecognizer(re *regexp.Regexp) headingRecognizer {
	return func(line string) (phaseHeading, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return phaseHeading{}, false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return phaseHeading{}, false
		}
		return phaseHeading{number: n, name: m[2]}, true
	}
}

// parser holds the scan state of a single Parse call.
type parser struct {
	schema     domain.Schema
	titleLabel string
	titleIndex int
	doc        *domain.Roadmap
	mode       sectionMode
	phase      string
	// numbered maps row numbers of the current heading block to their items.
	numbered map[string]numberedRow
}

type numberedRow struct {
	item  *domain.Item
	depth int
}

// Parse recovers the roadmap from Markdown text. It never fails: lines it
// does not understand are skipped and unreadable input yields an empty tree.
// Items get fresh ids on every parse.
func Parse(text string, schema domain.Schema) *domain.Roadmap {
	p := &parser{
		schema: schema,
		doc:    domain.NewRoadmap(),
	}
	if c, ok := schema.TitleColumn(); ok {
		p.titleLabel = c.Label
		p.titleIndex = schema.Index(c.Key)
	}

	for _, line := range strings.Split(text, "\n") {
		p.line(strings.TrimSpace(line))
	}
	return p.doc
}

func (p *parser) line(line string) {
	switch {
	case line == "":
		return
	case strings.HasPrefix(line, "##"):
		p.heading(line)
	case titleRe.MatchString(line):
		if p.doc.Title == "" {
			p.doc.Title = titleRe.FindStringSubmatch(line)[1]
		}
	case ruleLineRe.MatchString(line):
		if p.mode == modePhase && len(p.doc.Phases[p.phase]) > 0 {
			p.mode = modeNone
		}
	case strings.HasPrefix(line, "|"):
		p.row(line)
	}
}

func (p *parser) heading(line string) {
	for _, recognize := range phaseRecognizers {
		if h, ok := recognize(line); ok {
			p.enterPhase(h)
			return
		}
	}

	upper := strings.ToUpperSpecial(unicode.TurkishCase, line)
	switch {
	case strings.Contains(upper, HeadingSummary):
		p.mode = modeNone
	case strings.Contains(upper, HeadingChangelog):
		p.mode = modeChangelog
	case strings.Contains(upper, HeadingOtherChanges):
		p.mode = modeOtherChanges
	case strings.Contains(upper, HeadingErrors):
		p.mode = modeErrors
	default:
		p.mode = modeNone
	}
}

func (p *parser) enterPhase(h phaseHeading) {
	key := domain.PhaseKey(h.number)
	p.mode = modePhase
	p.phase = key
	p.numbered = make(map[string]numberedRow)

	if _, ok := p.doc.Phases[key]; !ok {
		p.doc.Phases[key] = []*domain.Item{}
		p.doc.Order = append(p.doc.Order, key)
	}
	if _, ok := p.doc.Names[key]; !ok && h.name != "" {
		p.doc.Names[key] = h.name
	}
}

func (p *parser) row(line string) {
	cells := splitRow(line)
	if isSeparatorRow(cells) {
		return
	}
	switch p.mode {
	case modePhase:
		p.phaseRow(cells)
	case modeChangelog:
		if len(cells) < 2 || isAuxHeader(cells, changelogHeaders) {
			return
		}
		p.doc.Aux.Changelog = append(p.doc.Aux.Changelog, domain.ChangeEntry{Date: cells[0], Change: cells[1]})
	case modeErrors, modeOtherChanges:
		if len(cells) < 2 || isAuxHeader(cells, noteHeaders) {
			return
		}
		entry := domain.NoteEntry{Title: cells[0], Description: cells[1]}
		if p.mode == modeErrors {
			p.doc.Aux.Errors = append(p.doc.Aux.Errors, entry)
		} else {
			p.doc.Aux.OtherChanges = append(p.doc.Aux.OtherChanges, entry)
		}
	}
}

func (p *parser) phaseRow(cells []string) {
	if len(cells) < 3 || p.isHeaderRow(cells) {
		return
	}

	offset := 0
	number := ""
	if len(cells) > len(p.schema) && rowNumberRe.MatchString(cells[0]) {
		offset = 1
		number = cells[0]
	}

	fields := make(map[string]string, len(p.schema))
	for i, col := range p.schema {
		v := ""
		if idx := i + offset; idx < len(cells) {
			v = cells[idx]
		}
		if col.Type == domain.ColumnStatus {
			v = domain.NormalizeStatus(v)
		}
		fields[col.Key] = v
	}
	item := domain.NewItem(fields)
	p.attach(item, number)
}

// attach places a row under the row named by its dotted number prefix, or at
// the root when it has no resolvable parent.
func (p *parser) attach(item *domain.Item, number string) {
	depth := 0
	if parent, ok := p.parentOf(number); ok {
		if parent.depth >= domain.MaxDepth {
			parent, ok = p.parentOf(parentNumber(number))
		}
		if ok {
			parent.item.Children = append(parent.item.Children, item)
			depth = parent.depth + 1
		}
	}
	if depth == 0 {
		p.doc.Phases[p.phase] = append(p.doc.Phases[p.phase], item)
	}
	if number != "" {
		p.numbered[number] = numberedRow{item: item, depth: depth}
	}
}

func (p *parser) parentOf(number string) (numberedRow, bool) {
	parent := parentNumber(number)
	if parent == "" {
		return numberedRow{}, false
	}
	row, ok := p.numbered[parent]
	return row, ok
}

func parentNumber(number string) string {
	i := strings.LastIndex(number, ".")
	if i < 0 {
		return ""
	}
	return number[:i]
}

// isHeaderRow recognizes the column header line of a phase table. Data rows
// lead with a row number and are never headers, so values equal to a column
// label survive.
func (p *parser) isHeaderRow(cells []string) bool {
	if rowNumberRe.MatchString(cells[0]) {
		return false
	}
	if strings.EqualFold(cells[0], "No") {
		return true
	}
	if p.titleLabel == "" || p.titleIndex < 0 || p.titleIndex >= len(cells) {
		return false
	}
	return cells[p.titleIndex] == p.titleLabel
}

// Header pairs written above the aux tables; older files used Hata for errors.
var (
	changelogHeaders = [][2]string{{"Tarih", "Değişiklik"}}
	noteHeaders      = [][2]string{{"Başlık", "Açıklama"}, {"Hata", "Açıklama"}}
)

func isAuxHeader(cells []string, headers [][2]string) bool {
	for _, h := range headers {
		if cells[0] == h[0] && cells[1] == h[1] {
			return true
		}
	}
	return false
}
