package model

import (
	"fmt"
	"slices"
	"strings"

	"param-transform/internal/addressable"
	"param-transform/internal/diagnostic"
)

// Scalar is a named single value.
type Scalar struct {
	Name  string
	Value float64
}

// Series is a named list of values.
type Series struct {
	Name   string
	Values []float64
}

// UnsignedSeries is a named map keyed by small integers such as years.
type UnsignedSeries struct {
	Name   string
	Values map[uint]float64
}

// KeyedSeries is a named string map; Keys and Values are parallel.
type KeyedSeries struct {
	Name   string
	Keys   []string
	Values []float64
}

// ObjectDefinition describes a stand-in simulation object.
type ObjectDefinition struct {
	Type  string
	Label string

	Scalars      []Scalar
	Vectors      []Series
	UnsignedMaps []UnsignedSeries
	StringMaps   []KeyedSeries
	// PointerSets are registered as independently owned cells.
	PointerSets []Series
	// LookupOnly names addressables that may only be read.
	LookupOnly []string

	Source string
}

func (d *ObjectDefinition) block() string {
	return strings.ToLower(d.Type) + "[" + d.Label + "]"
}

// Object is a generic model object whose addressables are declared by its
// definition rather than by code.
type Object struct {
	typ, label string
	source     string
	catalog    *addressable.Catalog
}

// NewObject builds an object and registers its addressables.
func NewObject(def ObjectDefinition) (*Object, error) {
	if def.Type == "" || def.Label == "" {
		return nil, configErr(def, "label", "objects need both a type and a label")
	}

	if def.Type == "parameter_transformation" {
		return nil, configErr(def, "type", "%s is reserved for transformation blocks", def.Type)
	}

	if err := checkNames(def); err != nil {
		return nil, err
	}

	o := &Object{
		typ:     strings.ToLower(def.Type),
		label:   def.Label,
		source:  def.Source,
		catalog: addressable.NewCatalog(),
	}

	usages := func(name string) []addressable.Usage {
		if slices.ContainsFunc(def.LookupOnly, func(s string) bool { return strings.EqualFold(s, name) }) {
			return []addressable.Usage{addressable.UsageLookup}
		}

		return nil
	}

	for _, s := range def.Scalars {
		v := s.Value
		o.catalog.RegisterScalar(s.Name, &v, usages(s.Name)...)
	}

	for _, s := range def.Vectors {
		v := append([]float64(nil), s.Values...)
		o.catalog.RegisterVector(s.Name, &v, usages(s.Name)...)
	}

	for _, s := range def.UnsignedMaps {
		m := make(map[uint]float64, len(s.Values))
		for k, v := range s.Values {
			m[k] = v
		}

		o.catalog.RegisterUnsignedMap(s.Name, m, usages(s.Name)...)
	}

	for _, s := range def.StringMaps {
		if len(s.Keys) != len(s.Values) {
			return nil, configErr(def, s.Name, "%d keys but %d values", len(s.Keys), len(s.Values))
		}

		m := addressable.NewOrderedMap()
		for i, k := range s.Keys {
			m.Set(k, s.Values[i])
		}

		o.catalog.RegisterStringMap(s.Name, m, usages(s.Name)...)
	}

	for _, s := range def.PointerSets {
		cells := make([]*float64, len(s.Values))
		for i, v := range s.Values {
			cells[i] = &v
		}

		o.catalog.RegisterPointers(s.Name, cells, usages(s.Name)...)
	}

	for _, name := range def.LookupOnly {
		if !o.catalog.Has(name) {
			return nil, configErr(def, "lookup_only", "%s is not an addressable of this object", name)
		}
	}

	return o, nil
}

func checkNames(def ObjectDefinition) error {
	seen := make(map[string]bool)

	var names []string
	for _, s := range def.Scalars {
		names = append(names, s.Name)
	}

	for _, s := range def.Vectors {
		names = append(names, s.Name)
	}

	for _, s := range def.UnsignedMaps {
		names = append(names, s.Name)
	}

	for _, s := range def.StringMaps {
		names = append(names, s.Name)
	}

	for _, s := range def.PointerSets {
		names = append(names, s.Name)
	}

	for _, n := range names {
		key := strings.ToLower(n)
		if key == "" {
			return configErr(def, "", "addressable names cannot be empty")
		}

		if seen[key] {
			return configErr(def, n, "addressable %s is declared more than once", n)
		}

		seen[key] = true
	}

	return nil
}

func configErr(def ObjectDefinition, param, format string, args ...any) error {
	err := diagnostic.Configf(def.block(), param, format, args...)
	err.Source = def.Source

	return err
}

func (o *Object) Type() string { return o.typ }
func (o *Object) Label() string { return o.label }
func (o *Object) Addressables() *addressable.Catalog { return o.catalog }

// Source returns "file:line" of the defining block, if known.
func (o *Object) Source() string { return o.source }

// Path returns the absolute path of one of the object's addressables.
func (o *Object) Path(name string, index ...string) string {
	return addressable.Join(o.typ, o.label, name, index...)
}

// String renders the object's current values, one addressable per line.
func (o *Object) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s[%s]\n", o.typ, o.label)

	for _, name := range o.catalog.Names() {
		f, _ := o.catalog.Field(name)
		fmt.Fprintf(&sb, "  %s (%v): %v\n", name, f.Shape, f.Values())
	}

	return sb.String()
}
