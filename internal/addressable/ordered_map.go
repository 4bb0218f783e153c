package addressable

// OrderedMap is a string-keyed numeric map that remembers insertion order.
type OrderedMap struct {
	keys   []string
	values map[string]float64
}

// NewOrderedMap creates an empty map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]float64)}
}

// Set inserts or updates key. New keys are appended to the order.
func (m *OrderedMap) Set(key string, value float64) {
	if m.values == nil {
		m.values = make(map[string]float64)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get returns the value for key.
func (m *OrderedMap) Get(key string) (float64, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *OrderedMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}
