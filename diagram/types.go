// Package diagram holds the design model the router reads shapes from and
// writes routed points back to.
package diagram

import (
	"ormd/core"
	"ormd/geometry"
)

// Field is a column of a table.
type Field struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	PrimaryKey bool   `json:"primaryKey,omitempty"`
	Nullable   bool   `json:"nullable,omitempty"`
}

// Table is a rectangle shape on the canvas.
type Table struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Bounds geometry.Rect `json:"bounds"`
	Fields []Field       `json:"fields,omitempty"`
}

// Reference is a foreign key drawn as a line from Source to Target.
// SourceSide and TargetSide optionally pin the sides the line uses.
type Reference struct {
	ID          string           `json:"id"`
	Name        string           `json:"name,omitempty"`
	Source      string           `json:"source"`
	Target      string           `json:"target"`
	SourceField string           `json:"sourceField,omitempty"`
	SourceSide  *core.Direction  `json:"sourceSide,omitempty"`
	TargetSide  *core.Direction  `json:"targetSide,omitempty"`
	Points      []geometry.Point `json:"points,omitempty"`
}

const (
	KindTable     = "table"
	KindReference = "reference"
)

// Element is anything that can be decoded into a design.
type Element interface {
	ElementID() string
	Kind() string
	// AddTo inserts the element into d.
	AddTo(d *Design) error
}

func (t *Table) ElementID() string { return t.ID }
func (t *Table) Kind() string      { return KindTable }

// AddTo implements Element.
func (t *Table) AddTo(d *Design) error { return d.AddTable(t) }

func (r *Reference) ElementID() string { return r.ID }
func (r *Reference) Kind() string      { return KindReference }

// AddTo implements Element.
func (r *Reference) AddTo(d *Design) error { return d.AddReference(r) }

// NewTable creates a table with a fresh ID.
func NewTable(name string, bounds geometry.Rect, fields ...Field) *Table {
	return &Table{ID: NewID(), Name: name, Bounds: bounds, Fields: fields}
}

// NewReference creates a reference with a fresh ID.
func NewReference(source, target string) *Reference {
	return &Reference{ID: NewID(), Source: source, Target: target}
}
