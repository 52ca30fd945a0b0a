package formatter

import (
	"fmt"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// FormatColumns lists the schema with each column's type and lock state.
func FormatColumns(schema domain.Schema) string {
	rows := make([][]string, 0, len(schema))
	for i, c := range schema {
		lock := ""
		if domain.IsLockedColumn(c.Key) {
			lock = Dim("locked")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			StyleBlue.Render(c.Key),
			Bold(c.Label),
			string(c.Type),
			lock,
		})
	}
	return RenderTable([]string{"#", "KEY", "LABEL", "TYPE", ""}, rows)
}
