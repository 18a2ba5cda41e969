package diagram

import "github.com/pkg/errors"

// Constructor returns a new zero element of one kind.
type Constructor func() Element

// Registry maps element kinds to constructors. Build one with NewRegistry at
// startup and pass it to Decode.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns a registry knowing tables and references.
func NewRegistry() *Registry {
	r := &Registry{constructors: map[string]Constructor{}}
	r.Register(KindTable, func() Element { return &Table{} })
	r.Register(KindReference, func() Element { return &Reference{} })
	return r
}

// Register adds or replaces the constructor for kind.
func (r *Registry) Register(kind string, c Constructor) {
	r.constructors[kind] = c
}

// New creates an element of the given kind.
func (r *Registry) New(kind string) (Element, error) {
	c, ok := r.constructors[kind]
	if !ok {
		return nil, errors.Errorf("unknown element kind %q", kind)
	}
	return c(), nil
}

// Kinds returns the number of registered kinds.
func (r *Registry) Kinds() int {
	return len(r.constructors)
}
