package codec

import (
	"regexp"
	"strings"
)

const (
	lineBreakTag     = "<br>"
	escapedLineBreak = "&lt;br>"
)

var (
	separatorCellRe = regexp.MustCompile(`^:?-{3,}:?$`)
	rowNumberRe     = regexp.MustCompile(`^\d+(\.\d+)*$`)
	ruleLineRe      = regexp.MustCompile(`^-{3,}$`)
	lineBreakRe     = regexp.MustCompile(`<br>|&(?:amp;)*lt;br>`)
)

// splitRow splits a table line on unescaped pipes, trims every cell and
// drops the single empty cell produced by each outer pipe.
func splitRow(line string) []string {
	var cells []string
	var b strings.Builder
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) && runes[i+1] == '|' {
			b.WriteRune('|')
			i++
			continue
		}
		if r == '|' {
			cells = append(cells, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	cells = append(cells, b.String())

	for i := range cells {
		cells[i] = unescapeCell(strings.TrimSpace(cells[i]))
	}
	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// isSeparatorRow reports whether every cell is a dash run like --- or :--:.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !separatorCellRe.MatchString(c) {
			return false
		}
	}
	return true
}

// escapeCell prepares a value for a table cell. A literal <br> in the value
// is written as &lt;br> (and an already escaped one gains another amp;) so
// that only line breaks come back as newlines.
func escapeCell(v string) string {
	v = strings.ReplaceAll(v, "|", `\|`)
	v = lineBreakRe.ReplaceAllStringFunc(v, func(m string) string {
		if m == lineBreakTag {
			return escapedLineBreak
		}
		return "&amp;" + m[1:]
	})
	v = strings.ReplaceAll(v, "\r\n", "\n")
	return strings.ReplaceAll(v, "\n", lineBreakTag)
}

func unescapeCell(v string) string {
	return lineBreakRe.ReplaceAllStringFunc(v, func(m string) string {
		switch m {
		case lineBreakTag:
			return "\n"
		case escapedLineBreak:
			return lineBreakTag
		}
		return "&" + strings.TrimPrefix(m, "&amp;")
	})
}

// renderRow joins already-escaped cells into a table line.
func renderRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// renderSeparator builds the |---|---| line, each run at least as wide as its header.
func renderSeparator(headers []string) string {
	var b strings.Builder
	b.WriteString("|")
	for _, h := range headers {
		n := len([]rune(h)) + 2
		if n < 4 {
			n = 4
		}
		b.WriteString(strings.Repeat("-", n))
		b.WriteString("|")
	}
	return b.String()
}
