package addressable

//go:generate go tool stringer -type=Shape -trimprefix=Shape -output=shape_string.go

// Shape is the storage layout of an addressable.
type Shape int

const (
	_ Shape = iota // zero value is invalid

	ShapeScalar      // single numeric cell
	ShapeVector      // ordered sequence, addressed by 1-based position
	ShapeUnsignedMap // small integer key (e.g. year) to value
	ShapeStringMap   // ordered string key to value
	ShapePointerSet  // independently owned scalar cells under one label
)

// IsContainer returns true for every shape that holds more than one cell.
func (s Shape) IsContainer() bool {
	switch s {
	case ShapeVector, ShapeUnsignedMap, ShapeStringMap, ShapePointerSet:
		return true
	default:
		return false
	}
}

// IsValid reports whether s is one of the declared shapes.
func (s Shape) IsValid() bool {
	return s >= ShapeScalar && s <= ShapePointerSet
}
