package addressable

import (
	"fmt"
	"sort"
	"strings"
)

// Object is anything in the model graph that exposes addressables.
type Object interface {
	// Type is the lower-case block type, e.g. "process".
	Type() string
	Label() string
	Addressables() *Catalog
}

// Field is a single registered addressable.
type Field struct {
	Name   string
	Shape  Shape
	Usages UsageSet

	scalar   *float64
	vector   *[]float64
	umap     map[uint]float64
	smap     *OrderedMap
	pointers []*float64
}

// Size returns the number of cells currently held by the field.
func (f *Field) Size() int {
	switch f.Shape {
	case ShapeScalar:
		return 1
	case ShapeVector:
		return len(*f.vector)
	case ShapeUnsignedMap:
		return len(f.umap)
	case ShapeStringMap:
		return f.smap.Len()
	case ShapePointerSet:
		return len(f.pointers)
	default:
		return 0
	}
}

// Values returns a copy of every cell of the field in key order.
func (f *Field) Values() []float64 {
	h, err := newHandle(Path{Parameter: f.Name}, f)
	if err != nil {
		return nil
	}

	return h.Values()
}

// Permits reports whether the field may be resolved for u.
func (f *Field) Permits(u Usage) bool {
	return f.Usages.Has(u)
}

// Catalog is the capability table of one object.
type Catalog struct {
	fields map[string]*Field
	order  []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{fields: make(map[string]*Field)}
}

// RegisterScalar registers a single cell.
func (c *Catalog) RegisterScalar(name string, v *float64, usages ...Usage) {
	c.add(&Field{Name: name, Shape: ShapeScalar, scalar: v}, usages)
}

// RegisterVector registers a 1-based vector. The slice is held by pointer so the
// owner may resize it after registration.
func (c *Catalog) RegisterVector(name string, v *[]float64, usages ...Usage) {
	c.add(&Field{Name: name, Shape: ShapeVector, vector: v}, usages)
}

// RegisterUnsignedMap registers a map keyed by small integers (usually years).
func (c *Catalog) RegisterUnsignedMap(name string, m map[uint]float64, usages ...Usage) {
	c.add(&Field{Name: name, Shape: ShapeUnsignedMap, umap: m}, usages)
}

// RegisterStringMap registers an ordered string map.
func (c *Catalog) RegisterStringMap(name string, m *OrderedMap, usages ...Usage) {
	c.add(&Field{Name: name, Shape: ShapeStringMap, smap: m}, usages)
}

// RegisterPointers registers independently owned cells under one name.
func (c *Catalog) RegisterPointers(name string, cells []*float64, usages ...Usage) {
	c.add(&Field{Name: name, Shape: ShapePointerSet, pointers: cells}, usages)
}

func (c *Catalog) add(f *Field, usages []Usage) {
	f.Name = strings.ToLower(f.Name)
	if _, ok := c.fields[f.Name]; ok {
		panic(fmt.Sprintf("addressable %q registered twice", f.Name))
	}

	f.Usages = AllUsages
	if len(usages) > 0 {
		f.Usages = UsagesOf(usages...)
	}

	c.fields[f.Name] = f
	c.order = append(c.order, f.Name)
}

// Field looks up a field by (case-insensitive) name.
func (c *Catalog) Field(name string) (*Field, bool) {
	f, ok := c.fields[strings.ToLower(name)]
	return f, ok
}

// Has returns true if name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Field(name)
	return ok
}

// Names returns the registered names in registration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of registered fields.
func (c *Catalog) Len() int {
	return len(c.order)
}

func sortedUintKeys(m map[uint]float64) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
