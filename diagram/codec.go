package diagram

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"ormd/geometry"
)

type envelope struct {
	ID       string            `json:"id,omitempty"`
	Name     string            `json:"name,omitempty"`
	Bounds   geometry.Rect     `json:"bounds"`
	Elements []json.RawMessage `json:"elements"`
}

type elementHead struct {
	Kind string `json:"kind"`
}

// Decode reads a design from JSON. Every element carries a "kind" that is
// looked up in reg.
func Decode(r io.Reader, reg *Registry) (*Design, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "decode design")
	}

	d := &Design{ID: env.ID, Name: env.Name, Bounds: env.Bounds}
	if d.ID == "" {
		d.ID = NewID()
	}

	for i, raw := range env.Elements {
		var head elementHead
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		el, err := reg.New(head.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		if err := json.Unmarshal(raw, el); err != nil {
			return nil, errors.Wrapf(err, "element %d (%s)", i, head.Kind)
		}
		if err := el.AddTo(d); err != nil {
			return nil, errors.Wrapf(err, "element %d (%s)", i, head.Kind)
		}
	}
	return d, nil
}

// Encode writes d as indented JSON readable by Decode.
func Encode(w io.Writer, d *Design) error {
	env := struct {
		ID       string        `json:"id"`
		Name     string        `json:"name,omitempty"`
		Bounds   geometry.Rect `json:"bounds"`
		Elements []interface{} `json:"elements"`
	}{ID: d.ID, Name: d.Name, Bounds: d.Bounds, Elements: []interface{}{}}

	for _, t := range d.Tables {
		env.Elements = append(env.Elements, struct {
			Kind string `json:"kind"`
			*Table
		}{KindTable, t})
	}
	for _, r := range d.References {
		env.Elements = append(env.Elements, struct {
			Kind string `json:"kind"`
			*Reference
		}{KindReference, r})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(env), "encode design")
}
