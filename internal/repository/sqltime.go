package repository

import "time"

// sqlTimeLayout stores timestamps as fixed-width UTC text so that string
// order matches time order.
const sqlTimeLayout = "2006-01-02T15:04:05.000Z"

func formatSQLTime(t time.Time) string {
	return t.UTC().Format(sqlTimeLayout)
}

// parseSQLTime also accepts plain RFC3339 rows written by older builds and
// yields the zero time for anything else.
func parseSQLTime(s string) time.Time {
	for _, layout := range []string{sqlTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
