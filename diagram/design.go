package diagram

import (
	"github.com/pkg/errors"

	"ormd/geometry"
)

// EventKind says what changed in a design.
type EventKind int

const (
	ElementAdded EventKind = iota
	ShapeMoved
	LineRouted
)

func (k EventKind) String() string {
	switch k {
	case ElementAdded:
		return "added"
	case ShapeMoved:
		return "moved"
	case LineRouted:
		return "routed"
	default:
		return "unknown"
	}
}

// Event describes one change.
type Event struct {
	Kind      EventKind
	DesignID  string
	ElementID string
}

// Observer is notified synchronously after every change.
type Observer interface {
	DesignChanged(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// DesignChanged implements Observer.
func (f ObserverFunc) DesignChanged(e Event) { f(e) }

type subscription struct {
	id       int
	observer Observer
}

// Design is a canvas of tables and the references between them.
// It is not safe for concurrent use.
type Design struct {
	ID         string
	Name       string
	Bounds     geometry.Rect
	Tables     []*Table
	References []*Reference

	observers []subscription
	nextSub   int
}

// NewDesign creates an empty design with a fresh ID.
func NewDesign(name string, bounds geometry.Rect) *Design {
	return &Design{ID: NewID(), Name: name, Bounds: bounds}
}

// AddTable adds t, assigning an ID when it has none.
func (d *Design) AddTable(t *Table) error {
	if t == nil {
		return errors.New("nil table")
	}
	if t.ID == "" {
		t.ID = NewID()
	}
	if d.hasID(t.ID) {
		return errors.Errorf("duplicate element id %q", t.ID)
	}
	d.Tables = append(d.Tables, t)
	d.notify(ElementAdded, t.ID)
	return nil
}

// AddReference adds r, assigning an ID when it has none. The source and target
// are not checked; unresolved references are skipped when routing.
func (d *Design) AddReference(r *Reference) error {
	if r == nil {
		return errors.New("nil reference")
	}
	if r.ID == "" {
		r.ID = NewID()
	}
	if d.hasID(r.ID) {
		return errors.Errorf("duplicate element id %q", r.ID)
	}
	d.References = append(d.References, r)
	d.notify(ElementAdded, r.ID)
	return nil
}

// Shape returns the table with the given ID.
func (d *Design) Shape(id string) (*Table, bool) {
	for _, t := range d.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Line returns the reference with the given ID.
func (d *Design) Line(id string) (*Reference, bool) {
	for _, r := range d.References {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Shapes returns the tables in insertion order.
func (d *Design) Shapes() []*Table {
	return append([]*Table(nil), d.Tables...)
}

// Lines returns the references in insertion order.
func (d *Design) Lines() []*Reference {
	return append([]*Reference(nil), d.References...)
}

// MoveShape sets the bounds of a table. It reports whether the table exists.
func (d *Design) MoveShape(id string, bounds geometry.Rect) bool {
	t, ok := d.Shape(id)
	if !ok {
		return false
	}
	t.Bounds = bounds
	d.notify(ShapeMoved, id)
	return true
}

// SetLinePoints replaces the points of a reference with a copy of points.
// It reports whether the reference exists.
func (d *Design) SetLinePoints(id string, points []geometry.Point) bool {
	r, ok := d.Line(id)
	if !ok {
		return false
	}
	r.Points = append([]geometry.Point(nil), points...)
	d.notify(LineRouted, id)
	return true
}

// Subscribe registers an observer and returns a function removing it.
func (d *Design) Subscribe(o Observer) (unsubscribe func()) {
	id := d.nextSub
	d.nextSub++
	d.observers = append(d.observers, subscription{id: id, observer: o})

	return func() {
		for i, s := range d.observers {
			if s.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Design) notify(kind EventKind, elementID string) {
	if len(d.observers) == 0 {
		return
	}
	e := Event{Kind: kind, DesignID: d.ID, ElementID: elementID}
	for _, s := range append([]subscription(nil), d.observers...) {
		s.observer.DesignChanged(e)
	}
}

func (d *Design) hasID(id string) bool {
	if _, ok := d.Shape(id); ok {
		return true
	}
	_, ok := d.Line(id)
	return ok
}
