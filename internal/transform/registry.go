package transform

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"param-transform/internal/diagnostic"
)

// Registry holds the transformation blocks of one run.
type Registry struct {
	blocks  []*Block
	byLabel map[string]*Block
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byLabel: make(map[string]*Block)}
}

// Add adds a block. Labels must be unique.
func (r *Registry) Add(b *Block) error {
	if _, exists := r.byLabel[b.Label()]; exists {
		err := diagnostic.Configf(b.cfg.block(), "label", "a parameter_transformation with label %q already exists", b.Label())
		err.Source = b.Source()

		return err
	}

	r.blocks = append(r.blocks, b)
	r.byLabel[b.Label()] = b

	return nil
}

// Get returns a block by label, or nil if not found.
func (r *Registry) Get(label string) *Block {
	return r.byLabel[label]
}

// Has returns true if a block with the given label exists.
func (r *Registry) Has(label string) bool {
	_, exists := r.byLabel[label]
	return exists
}

// All returns every block in insertion order.
func (r *Registry) All() []*Block {
	return append([]*Block(nil), r.blocks...)
}

// Labels returns the block labels, sorted.
func (r *Registry) Labels() []string {
	labels := make([]string, 0, len(r.blocks))
	for _, b := range r.blocks {
		labels = append(labels, b.Label())
	}

	sort.Strings(labels)

	return labels
}

// Len returns the number of blocks.
func (r *Registry) Len() int {
	return len(r.blocks)
}

// ValidateAll validates every block and then checks that no parameter is
// bound by more than one block.
func (r *Registry) ValidateAll() error {
	var errs []error

	for _, b := range r.blocks {
		if err := b.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	errs = append(errs, r.checkSharedParameters()...)

	return errors.Join(errs...)
}

func (r *Registry) checkSharedParameters() []error {
	type bound struct{ label, block string }

	var (
		seen []bound
		errs []error
	)

	for _, b := range r.blocks {
		for _, label := range b.ParameterLabels() {
			for _, other := range seen {
				if overlaps(label, other.label) {
					errs = append(errs, b.configErr("parameters",
						"%s is already transformed by %s; a parameter can belong to one transformation only",
						label, other.block))
				}
			}
		}

		for _, label := range b.ParameterLabels() {
			seen = append(seen, bound{label: label, block: b.cfg.block()})
		}
	}

	return errs
}

// BuildAll builds every validated block.
func (r *Registry) BuildAll() error {
	var errs []error

	for _, b := range r.blocks {
		if b.State() != StateValidated {
			continue
		}

		if err := b.Build(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// VerifyAll verifies every built block.
func (r *Registry) VerifyAll() error {
	var errs []error

	for _, b := range r.blocks {
		if b.State() < StateBuilt {
			continue
		}

		if err := b.Verify(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// RestoreAll restores every validated block in insertion order.
func (r *Registry) RestoreAll() error {
	var errs []error

	for _, b := range r.blocks {
		if b.State() < StateValidated {
			continue
		}

		if err := b.Restore(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// PrepareForObjectiveFunction prepares every block. Prefer Objective, which
// guarantees the matching restore.
func (r *Registry) PrepareForObjectiveFunction() {
	for _, b := range r.blocks {
		b.PrepareForObjectiveFunction()
	}
}

// RestoreForObjectiveFunction undoes PrepareForObjectiveFunction on every block.
func (r *Registry) RestoreForObjectiveFunction() {
	for i := len(r.blocks) - 1; i >= 0; i-- {
		r.blocks[i].RestoreForObjectiveFunction()
	}
}

// Objective prepares every block, calls eval and restores every block, even
// if eval panics.
func (r *Registry) Objective(eval func() float64) float64 {
	r.PrepareForObjectiveFunction()
	defer r.RestoreForObjectiveFunction()

	return eval()
}

// Score sums the Jacobian terms of every block.
func (r *Registry) Score() float64 {
	var total float64
	for _, b := range r.blocks {
		total += b.Score()
	}

	return total
}

// Warnings collects the warnings of every block, prefixed by block label.
func (r *Registry) Warnings() []string {
	var out []string

	for _, b := range r.blocks {
		for _, w := range b.Warnings() {
			out = append(out, fmt.Sprintf("%s: %s", b.cfg.block(), w))
		}
	}

	return out
}

// String summarises the registry for debug output.
func (r *Registry) String() string {
	parts := make([]string, 0, len(r.blocks))
	for _, b := range r.blocks {
		parts = append(parts, fmt.Sprintf("%s(%s, %v)", b.Label(), b.Kind(), b.State()))
	}

	return "transformations[" + strings.Join(parts, " ") + "]"
}
