package validator

// Registry holds field comparators in evaluation order.
type Registry struct {
	comparators []Comparator
	index       map[string]int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a comparator. A comparator for an already registered field
// replaces it in place.
func (r *Registry) Register(c Comparator) {
	if i, ok := r.index[c.Field()]; ok {
		r.comparators[i] = c
		return
	}
	r.index[c.Field()] = len(r.comparators)
	r.comparators = append(r.comparators, c)
}

// Get returns the comparator for a field, or nil if not found.
func (r *Registry) Get(field string) Comparator {
	i, ok := r.index[field]
	if !ok {
		return nil
	}
	return r.comparators[i]
}

// All returns the registered comparators in registration order.
func (r *Registry) All() []Comparator {
	out := make([]Comparator, len(r.comparators))
	copy(out, r.comparators)
	return out
}

// NewDefaultRegistry returns a Registry holding BuiltinComparators.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range BuiltinComparators() {
		r.Register(c)
	}
	return r
}
