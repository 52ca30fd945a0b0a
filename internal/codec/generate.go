package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// DefaultTitle is written when the document has no title of its own.
const DefaultTitle = "PROJE YOL HARİTASI"

// defaultPhaseNames covers the conventional first four phases.
var defaultPhaseNames = map[string]string{
	"faz1": "TEMEL ALTYAPI",
	"faz2": "ÇEKİRDEK ÖZELLİKLER",
	"faz3": "GELİŞMİŞ ÖZELLİKLER",
	"faz4": "YAYIN VE İYİLEŞTİRME",
}

// Generator serializes a roadmap. Now supplies the "last updated" stamp.
type Generator struct {
	Now func() time.Time
}

// Generate serializes doc using the current time for the date stamp.
func Generate(doc *domain.Roadmap, phases domain.PhaseConfigs, schema domain.Schema) string {
	return Generator{}.Generate(doc, phases, schema)
}

// PhaseName resolves the display name of a phase: configured name, then the
// name recorded in the document, then the built-in default, then "Faz N".
func PhaseName(key string, phases domain.PhaseConfigs, doc *domain.Roadmap) string {
	if c, ok := phases[key]; ok && strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	if doc != nil {
		if n := doc.Names[key]; n != "" {
			return n
		}
	}
	if n, ok := defaultPhaseNames[key]; ok {
		return n
	}
	if n, ok := domain.PhaseNumber(key); ok {
		return fmt.Sprintf("Faz %d", n)
	}
	return key
}

// Generate never fails; a nil document renders as an empty roadmap.
func (g Generator) Generate(doc *domain.Roadmap, phases domain.PhaseConfigs, schema domain.Schema) string {
	if doc == nil {
		doc = domain.NewRoadmap()
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	today := now().Format("2006-01-02")

	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = DefaultTitle
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "> Son güncelleme: %s\n\n", today)
	b.WriteString("---\n\n")

	headers := append([]string{"No"}, schema.Labels()...)
	for i, key := range doc.OrderedPhaseKeys() {
		items := doc.Phases[key]
		fmt.Fprintf(&b, "## %02d — %s\n\n", i+1, PhaseName(key, phases, doc))
		b.WriteString(renderRow(escapeAll(headers)) + "\n")
		b.WriteString(renderSeparator(headers) + "\n")
		writeItemRows(&b, items, schema, "")
		t := domain.PhaseTally(items, schema)
		fmt.Fprintf(&b, "\n**FAZ Durumu: %d/%d tamamlandı**\n\n", t.Done, t.Total)
		b.WriteString("---\n\n")
	}

	writeSummary(&b, doc, schema)
	writeNotes(&b, HeadingErrors, doc.Aux.Errors)
	writeNotes(&b, HeadingOtherChanges, doc.Aux.OtherChanges)
	writeChangelog(&b, doc.Aux.Changelog, today)

	return b.String()
}

// writeItemRows emits one row per item, numbering subtasks i.j and i.j.k
// directly below their parent.
func writeItemRows(b *strings.Builder, items []*domain.Item, schema domain.Schema, prefix string) {
	for i, it := range items {
		number := strconv.Itoa(i + 1)
		if prefix != "" {
			number = prefix + "." + number
		}
		cells := make([]string, 0, len(schema)+1)
		cells = append(cells, number)
		for _, col := range schema {
			v := it.Get(col.Key)
			if col.Type == domain.ColumnStatus {
				v = domain.NormalizeStatus(v)
			}
			cells = append(cells, escapeCell(v))
		}
		b.WriteString(renderRow(cells) + "\n")
		writeItemRows(b, it.Children, schema, number)
	}
}

func writeSummary(b *strings.Builder, doc *domain.Roadmap, schema domain.Schema) {
	headers := []string{"Alan", "Tamamlanan", "Toplam", "Oran"}
	fmt.Fprintf(b, "## %s\n\n", HeadingSummary)
	b.WriteString(renderRow(headers) + "\n")
	b.WriteString(renderSeparator(headers) + "\n")
	for _, ct := range domain.SummaryTally(doc, schema) {
		pct := int(ct.Ratio()*100 + 0.5)
		b.WriteString(renderRow([]string{
			escapeCell(ct.Column.Label),
			strconv.Itoa(ct.Done),
			strconv.Itoa(ct.Total),
			fmt.Sprintf("%%%d", pct),
		}) + "\n")
	}
	b.WriteString("\n---\n\n")
}

func writeNotes(b *strings.Builder, heading string, notes []domain.NoteEntry) {
	if len(notes) == 0 {
		return
	}
	headers := []string{"Başlık", "Açıklama"}
	fmt.Fprintf(b, "## %s\n\n", heading)
	b.WriteString(renderRow(headers) + "\n")
	b.WriteString(renderSeparator(headers) + "\n")
	for _, n := range notes {
		b.WriteString(renderRow([]string{escapeCell(n.Title), escapeCell(n.Description)}) + "\n")
	}
	b.WriteString("\n---\n\n")
}

func writeChangelog(b *strings.Builder, entries []domain.ChangeEntry, today string) {
	headers := []string{"Tarih", "Değişiklik"}
	fmt.Fprintf(b, "## %s\n\n", HeadingChangelog)
	b.WriteString(renderRow(headers) + "\n")
	b.WriteString(renderSeparator(headers) + "\n")
	if len(entries) == 0 {
		entries = []domain.ChangeEntry{{Date: today, Change: "Plan oluşturuldu"}}
	}
	for _, e := range entries {
		b.WriteString(renderRow([]string{escapeCell(e.Date), escapeCell(e.Change)}) + "\n")
	}
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escapeCell(c)
	}
	return out
}
