package addressable

import (
	"fmt"
	"strconv"
	"strings"

	"param-transform/internal/common"
)

// Handle is a resolved, shape-tagged view onto one field and an optional subset
// of its elements. The shape is fixed at resolution time.
type Handle struct {
	path  Path
	field *Field

	// selection; exactly one of these is used depending on the field shape
	positions []int    // Vector, PointerSet (0-based)
	ukeys     []uint   // UnsignedMap
	skeys     []string // StringMap
}

func newHandle(p Path, f *Field) (*Handle, error) {
	h := &Handle{path: p, field: f}

	if f.Shape == ShapeScalar {
		if p.HasIndex() {
			return nil, fmt.Errorf("%w: %s is a scalar and cannot be indexed", ErrInvalidIndex, p)
		}

		return h, nil
	}

	if err := h.selectKeys(p.Index); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Handle) selectKeys(tokens []string) error {
	f := h.field

	switch f.Shape {
	case ShapeVector, ShapePointerSet:
		size := f.Size()
		if len(tokens) == 0 {
			h.positions = make([]int, size)
			for i := range h.positions {
				h.positions[i] = i
			}

			return nil
		}

		for _, tok := range tokens {
			n, err := strconv.ParseUint(tok, 10, 32)
			if err != nil {
				return fmt.Errorf("%w: %s: %q could not be converted to an unsigned integer", ErrInvalidIndex, h.path, tok)
			}

			if n == 0 || int(n) > size {
				return fmt.Errorf("%w: %s: position %d not in 1..%d", ErrIndexOutOfRange, h.path, n, size)
			}

			h.positions = append(h.positions, int(n)-1)
		}
	case ShapeUnsignedMap:
		if len(tokens) == 0 {
			h.ukeys = sortedUintKeys(f.umap)
			return nil
		}

		for _, tok := range tokens {
			n, err := strconv.ParseUint(tok, 10, 32)
			if err != nil {
				return fmt.Errorf("%w: %s: %q could not be converted to an unsigned integer", ErrInvalidIndex, h.path, tok)
			}

			if _, ok := f.umap[uint(n)]; !ok {
				return fmt.Errorf("%w: %s: could not find index %s", ErrIndexOutOfRange, h.path, tok)
			}

			h.ukeys = append(h.ukeys, uint(n))
		}
	case ShapeStringMap:
		if len(tokens) == 0 {
			h.skeys = f.smap.Keys()
			return nil
		}

		for _, tok := range tokens {
			if !f.smap.Has(tok) {
				return fmt.Errorf("%w: %s: could not find index %s", ErrIndexOutOfRange, h.path, tok)
			}

			h.skeys = append(h.skeys, tok)
		}
	default:
		return fmt.Errorf("%w: %s has unsupported shape %v", ErrAddressableNotFound, h.path, f.Shape)
	}

	if dups := common.Duplicates(h.Keys()); len(dups) > 0 {
		return fmt.Errorf("%w: %s: index %s selected more than once", ErrInvalidIndex, h.path, strings.Join(dups, ", "))
	}

	return nil
}

// Path returns the path the handle was resolved from.
func (h *Handle) Path() Path {
	return h.path
}

// Shape returns the declared shape of the underlying field.
func (h *Handle) Shape() Shape {
	return h.field.Shape
}

// Indexed reports whether the handle was resolved with an explicit index.
func (h *Handle) Indexed() bool {
	return h.path.HasIndex()
}

// Len returns the number of selected cells.
func (h *Handle) Len() int {
	switch h.field.Shape {
	case ShapeScalar:
		return 1
	case ShapeVector, ShapePointerSet:
		return len(h.positions)
	case ShapeUnsignedMap:
		return len(h.ukeys)
	case ShapeStringMap:
		return len(h.skeys)
	default:
		return 0
	}
}

// Keys returns the selected keys as index tokens, usable in Path.WithIndex.
func (h *Handle) Keys() []string {
	switch h.field.Shape {
	case ShapeVector, ShapePointerSet:
		out := make([]string, len(h.positions))
		for i, p := range h.positions {
			out[i] = strconv.Itoa(p + 1)
		}

		return out
	case ShapeUnsignedMap:
		out := make([]string, len(h.ukeys))
		for i, k := range h.ukeys {
			out[i] = strconv.FormatUint(uint64(k), 10)
		}

		return out
	case ShapeStringMap:
		return append([]string(nil), h.skeys...)
	default:
		return nil
	}
}

// Value returns the i-th selected cell.
func (h *Handle) Value(i int) float64 {
	f := h.field

	switch f.Shape {
	case ShapeScalar:
		return *f.scalar
	case ShapeVector:
		return (*f.vector)[h.positions[i]]
	case ShapePointerSet:
		return *f.pointers[h.positions[i]]
	case ShapeUnsignedMap:
		return f.umap[h.ukeys[i]]
	case ShapeStringMap:
		v, _ := f.smap.Get(h.skeys[i])
		return v
	default:
		panic(fmt.Sprintf("addressable %s: unsupported shape %v", h.path, f.Shape))
	}
}

// Set writes the i-th selected cell.
func (h *Handle) Set(i int, v float64) {
	f := h.field

	switch f.Shape {
	case ShapeScalar:
		*f.scalar = v
	case ShapeVector:
		(*f.vector)[h.positions[i]] = v
	case ShapePointerSet:
		*f.pointers[h.positions[i]] = v
	case ShapeUnsignedMap:
		f.umap[h.ukeys[i]] = v
	case ShapeStringMap:
		f.smap.Set(h.skeys[i], v)
	default:
		panic(fmt.Sprintf("addressable %s: unsupported shape %v", h.path, f.Shape))
	}
}

// Values returns a copy of every selected cell.
func (h *Handle) Values() []float64 {
	out := make([]float64, h.Len())
	for i := range out {
		out[i] = h.Value(i)
	}

	return out
}

// Write writes values to the selected cells in order. It is the single
// shape-generic setter used by every restore path.
func (h *Handle) Write(values []float64) error {
	if len(values) != h.Len() {
		return fmt.Errorf("%w: %s selects %d cells, got %d values", ErrValueCountMismatch, h.path, h.Len(), len(values))
	}

	for i, v := range values {
		h.Set(i, v)
	}

	return nil
}
