package diagram

import uuid "github.com/satori/go.uuid"

// NewID returns a random element identifier.
func NewID() string {
	return uuid.NewV4().String()
}

// EnsureIDs assigns fresh IDs to elements that have none or that share an ID
// with an earlier element. It reports how many IDs were assigned.
func EnsureIDs(d *Design) int {
	if d == nil {
		return 0
	}
	if d.ID == "" {
		d.ID = NewID()
	}

	assigned := 0
	seen := map[string]bool{}
	fix := func(id *string) {
		if *id == "" || seen[*id] {
			*id = NewID()
			assigned++
		}
		seen[*id] = true
	}
	for _, t := range d.Tables {
		fix(&t.ID)
	}
	for _, r := range d.References {
		fix(&r.ID)
	}
	return assigned
}
