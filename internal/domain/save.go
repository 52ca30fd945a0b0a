package domain

import "time"

// SaveRecord is one persisted write of the document.
type SaveRecord struct {
	ID       int64
	Document string
	SavedAt  time.Time
	Bytes    int
	Phases   int
	Items    int
}

// CountItems returns the number of items in the document, subtasks included.
func (r *Roadmap) CountItems() int {
	n := 0
	for _, items := range r.Phases {
		Walk(items, func(*Item, int) bool {
			n++
			return true
		})
	}
	return n
}
