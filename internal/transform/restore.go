package transform

import (
	"errors"

	"param-transform/internal/addressable"
	"param-transform/internal/common"
	"param-transform/internal/diagnostic"
)

// restoreMode selects how restored values are written back. It is chosen once
// in Validate from the shapes of the bound handles.
type restoreMode int

const (
	_ restoreMode = iota

	// modeSingle writes one value per scalar handle.
	modeSingle
	// modeContainerSubset writes every value into one container handle,
	// either all elements or the indexed subset.
	modeContainerSubset
	// modeOnePerHandle writes one value per container handle, each handle
	// selecting exactly one element.
	modeOnePerHandle
)

func (m restoreMode) String() string {
	switch m {
	case modeSingle:
		return "single"
	case modeContainerSubset:
		return "container_subset"
	case modeOnePerHandle:
		return "one_per_handle"
	default:
		return "none"
	}
}

var errMixedSubsets = errors.New("when more than one container parameter is bound, each must select exactly one element")

func selectRestoreMode(handles []*addressable.Handle) (restoreMode, error) {
	first, ok := common.First(handles)
	if !ok {
		return 0, diagnostic.Codef("restore mode selected without handles")
	}

	if first.Shape() == addressable.ShapeScalar {
		return modeSingle, nil
	}

	if common.IsSingle(handles) && first.Len() != 1 {
		return modeContainerSubset, nil
	}

	for _, h := range handles {
		if h.Len() != 1 {
			return 0, errMixedSubsets
		}
	}

	return modeOnePerHandle, nil
}

// write stores values through the handles according to the selected mode.
func (b *Block) write(values []float64) error {
	switch b.mode {
	case modeSingle, modeOnePerHandle:
		if len(values) != len(b.handles) {
			return diagnostic.Codef("%s: %d values restored for %d parameters", b.cfg.block(), len(values), len(b.handles))
		}

		for i, h := range b.handles {
			if err := h.Write(values[i : i+1]); err != nil {
				return diagnostic.Codef("%s: %v", b.cfg.block(), err)
			}
		}
	case modeContainerSubset:
		if len(b.handles) != 1 {
			return diagnostic.Codef("%s: container subset restore with %d handles", b.cfg.block(), len(b.handles))
		}

		if err := b.handles[0].Write(values); err != nil {
			return diagnostic.Codef("%s: %v", b.cfg.block(), err)
		}
	default:
		return diagnostic.Codef("%s: no restore function selected for shape %v", b.cfg.block(), b.handles[0].Shape())
	}

	return nil
}
