package transform

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"param-transform/internal/addressable"
	"param-transform/internal/common"
	"param-transform/internal/diagnostic"
)

// ownUsages are the usages permitted on a block's own addressables.
var ownUsages = []addressable.Usage{
	addressable.UsageLookup,
	addressable.UsageEstimate,
	addressable.UsageInputRun,
	addressable.UsageProfile,
}

// Block is one @parameter_transformation. It implements addressable.Object so
// estimates and input files can target its transformed values.
type Block struct {
	cfg     Config
	kind    string
	algo    algorithm
	env     Env
	logger  *slog.Logger
	catalog *addressable.Catalog
	state   State

	labels     []string
	handles    []*addressable.Handle
	mode       restoreMode
	initValues []float64
	restored   []float64

	jacobian float64
	prepared bool
	cache    []float64
	warnings []string
}

// New creates a block for cfg and registers its own addressables. The block
// is not added to the resolver; callers do that so it can be targeted.
func New(cfg Config, env Env) (*Block, error) {
	if env == nil {
		return nil, diagnostic.Codef("transformation %q created without a run context", cfg.Label)
	}

	mk, ok := lookupKind(cfg.Type)
	if !ok {
		err := diagnostic.Configf(cfg.block(), "type", "unknown transformation type %q; expected one of %s",
			cfg.Type, strings.Join(Kinds(), ", "))
		err.Source = cfg.Source

		return nil, err
	}

	if cfg.Label == "" {
		err := diagnostic.Configf(cfg.block(), "label", "a label is required")
		err.Source = cfg.Source

		return nil, err
	}

	logger := env.Logger()
	if logger == nil {
		logger = slog.Default()
	}

	b := &Block{
		cfg:     cfg,
		env:     env,
		catalog: addressable.NewCatalog(),
		state:   StateCreated,
	}

	b.kind = strings.ToLower(cfg.Type)
	if alias, ok := aliases[b.kind]; ok {
		b.kind = alias
	}

	b.logger = logger.With("transformation", cfg.Label, "type", b.kind)
	b.algo = mk(&b.cfg)
	b.algo.register(b.catalog)

	return b, nil
}

func (b *Block) Type() string { return ObjectType }
func (b *Block) Label() string { return b.cfg.Label }
func (b *Block) Addressables() *addressable.Catalog { return b.catalog }

// Kind returns the canonical transformation type.
func (b *Block) Kind() string { return b.kind }

func (b *Block) State() State { return b.state }

// Source returns "file:line" of the defining block, if known.
func (b *Block) Source() string { return b.cfg.Source }

// PriorAppliesToRestoredParameters reports whether priors are evaluated on
// natural-space values and the Jacobian is added to the objective.
func (b *Block) PriorAppliesToRestoredParameters() bool {
	return b.cfg.PriorAppliesToRestoredParameters
}

// ParameterLabels returns the canonical paths bound to the block. Empty until
// Validate has resolved them.
func (b *Block) ParameterLabels() []string {
	return append([]string(nil), b.labels...)
}

// InitialValues returns the natural values captured by Validate.
func (b *Block) InitialValues() []float64 {
	return append([]float64(nil), b.initValues...)
}

// RestoredValues returns the natural values written by the last Restore.
func (b *Block) RestoredValues() []float64 {
	return append([]float64(nil), b.restored...)
}

// Warnings returns the non-fatal problems found so far.
func (b *Block) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// HasJacobian reports whether the kind defines a Jacobian term.
func (b *Block) HasJacobian() bool {
	_, ok := b.algo.(jacobian)
	return ok
}

// Validate resolves the bound parameters, captures their values, selects the
// restore mode and runs the forward map.
func (b *Block) Validate() (err error) {
	if b.state != StateCreated {
		return diagnostic.Codef("%s validated in state %v", b.cfg.block(), b.state)
	}

	defer func() {
		if err != nil {
			b.labels, b.handles, b.mode = nil, nil, 0
		}
	}()

	if len(b.cfg.Parameters) == 0 {
		return b.configErr("parameters", "at least one parameter is required")
	}

	resolver := b.env.Resolver()

	var errs []error

	for _, label := range b.cfg.Parameters {
		h, err := resolver.Resolve(label, addressable.UsageTransformation)
		if err != nil {
			errs = append(errs, b.configErr("parameters", "%w", err))
			continue
		}

		b.handles = append(b.handles, h)
		b.labels = append(b.labels, h.Path().String())
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if dups := common.Duplicates(b.labels); len(dups) > 0 {
		return b.configErr("parameters", "%s bound more than once", strings.Join(dups, ", "))
	}

	if err := b.checkShapes(); err != nil {
		return err
	}

	mode, err := selectRestoreMode(b.handles)
	if err != nil {
		return b.configErr("parameters", "%w", err)
	}

	b.mode = mode

	n := 0
	for _, h := range b.handles {
		n += h.Len()
	}

	if a := b.algo.arity(); !a.accepts(n) {
		return b.configErr("parameters", "%s transformations take %s values, got %d from %s",
			b.kind, a, n, strings.Join(b.labels, ", "))
	}

	for _, label := range b.labels {
		resolver.RecordUsage(label, addressable.UsageTransformation)
	}

	b.initValues = make([]float64, 0, n)
	for _, h := range b.handles {
		b.initValues = append(b.initValues, h.Values()...)
	}

	if err := b.algo.forward(b, append([]float64(nil), b.initValues...)); err != nil {
		return err
	}

	b.restored = b.algo.inverse(b)
	b.logger.Debug("transformation validated", "mode", b.mode, "init", b.initValues,
		"round_trip_error", maxAbsDiff(b.initValues, b.restored))

	b.state = StateValidated

	return nil
}

func (b *Block) checkShapes() error {
	first := b.handles[0]

	for i, h := range b.handles[1:] {
		if h.Shape() != first.Shape() {
			return b.configErr("parameters", "%s is a %v but %s is a %v; all parameters must share one shape",
				b.labels[i+1], h.Shape(), b.labels[0], first.Shape())
		}

		if len(h.Path().Index) != len(first.Path().Index) {
			return b.configErr("parameters", "%s selects %d indices but %s selects %d; index counts must match",
				b.labels[i+1], len(h.Path().Index), b.labels[0], len(first.Path().Index))
		}
	}

	return nil
}

// Build applies kind-specific rules and checks the paired estimates.
func (b *Block) Build() error {
	if b.state != StateValidated {
		return diagnostic.Codef("%s built in state %v", b.cfg.block(), b.state)
	}

	var errs []error

	if b.cfg.PriorAppliesToRestoredParameters && !b.HasJacobian() {
		errs = append(errs, b.configErr("prior_applies_to_restored_parameters",
			"there is no Jacobian calculated for %s transformations; set it to false", b.kind))
	}

	if bl, ok := b.algo.(builder); ok {
		if err := bl.build(b); err != nil {
			errs = append(errs, err)
		}
	}

	paired := b.pairedEstimates()
	if common.IsEmpty(paired) {
		b.warn("no @estimate block targets %s; the transformed parameters will not be estimated", b.cfg.block())
	}

	for _, e := range paired {
		v, defined := e.TransformWithJacobian()
		if defined && v != b.cfg.PriorAppliesToRestoredParameters {
			errs = append(errs, b.configErr("prior_applies_to_restored_parameters",
				"estimate %s sets transform_with_jacobian %t but this transformation sets %t",
				e.Label(), v, b.cfg.PriorAppliesToRestoredParameters))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	b.state = StateBuilt

	return nil
}

// pairedEstimates returns the estimates targeting the block's own cells.
func (b *Block) pairedEstimates() []PairedEstimate {
	var out []PairedEstimate

	for _, path := range b.ownCellPaths() {
		if e, ok := b.env.EstimateFor(path); ok {
			out = append(out, e)
		}
	}

	return out
}

// ownCellPaths lists every estimable own cell as an absolute path.
func (b *Block) ownCellPaths() []string {
	var out []string

	for _, name := range b.catalog.Names() {
		f, _ := b.catalog.Field(name)
		if !f.Permits(addressable.UsageEstimate) {
			continue
		}

		if f.Shape == addressable.ShapeScalar {
			out = append(out, addressable.Join(ObjectType, b.cfg.Label, name))
			continue
		}

		for i := 1; i <= f.Size(); i++ {
			out = append(out, addressable.Join(ObjectType, b.cfg.Label, name, fmt.Sprint(i)))
		}
	}

	return out
}

// Verify fails when a bound parameter is also estimated, or profiled while
// the run is profiling.
func (b *Block) Verify() error {
	if b.state < StateBuilt {
		return diagnostic.Codef("%s verified in state %v", b.cfg.block(), b.state)
	}

	var errs []error

	for _, label := range b.labels {
		for _, target := range b.env.EstimatedParameters() {
			if overlaps(label, target) {
				errs = append(errs, b.configErr("parameters",
					"%s is also the target of an @estimate block (%s); estimate the transformed parameter instead", label, target))
			}
		}

		for _, target := range b.env.ProfiledParameters() {
			if overlaps(label, target) {
				errs = append(errs, b.configErr("parameters",
					"%s is also the target of a @profile block (%s) in a profiling run", label, target))
			}
		}
	}

	return errors.Join(errs...)
}

// Restore recomputes the natural values from the transformed state and
// writes them through the bound handles.
func (b *Block) Restore() error {
	if b.state < StateValidated {
		return diagnostic.Codef("%s restored in state %v", b.cfg.block(), b.state)
	}

	if b.prepared {
		return diagnostic.Codef("%s restored while prepared for the objective function", b.cfg.block())
	}

	b.restored = b.algo.inverse(b)
	if err := b.write(b.restored); err != nil {
		return err
	}

	if b.state == StateBuilt {
		b.state = StateActive
	}

	return nil
}

// Reset is Restore; it is called at the start of every model iteration.
func (b *Block) Reset() error {
	return b.Restore()
}

// Score returns the negative-log Jacobian, or 0 unless
// prior_applies_to_restored_parameters is set.
func (b *Block) Score() float64 {
	b.jacobian = 0

	if b.cfg.PriorAppliesToRestoredParameters {
		if j, ok := b.algo.(jacobian); ok {
			b.jacobian = j.negLogJacobian(b)
		}
	}

	return b.jacobian
}

// Jacobian returns the value computed by the last Score.
func (b *Block) Jacobian() float64 { return b.jacobian }

// PrepareForObjectiveFunction swaps the own cells carrying the paired priors
// to natural values. It is a no-op unless
// prior_applies_to_restored_parameters is set.
func (b *Block) PrepareForObjectiveFunction() {
	if !b.cfg.PriorAppliesToRestoredParameters || b.prepared {
		return
	}

	j, ok := b.algo.(jacobian)
	if !ok {
		return
	}

	cells := j.objectiveCells()
	b.cache = b.cache[:0]

	for i, c := range cells {
		b.cache = append(b.cache, *c)
		if i < len(b.restored) {
			*c = b.restored[i]
		}
	}

	b.prepared = true
}

// RestoreForObjectiveFunction undoes PrepareForObjectiveFunction.
func (b *Block) RestoreForObjectiveFunction() {
	if !b.prepared {
		return
	}

	cells := b.algo.(jacobian).objectiveCells()
	for i, c := range cells {
		*c = b.cache[i]
	}

	b.prepared = false
}

// valueLabel names the cell holding the i-th bound value.
func (b *Block) valueLabel(i int) string {
	if b.mode == modeContainerSubset {
		h := b.handles[0]
		return h.Path().WithIndex(h.Keys()[i]).String()
	}

	return b.labels[i]
}

func (b *Block) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.warnings = append(b.warnings, msg)
	b.logger.Warn(msg)
}

func (b *Block) configErr(param, format string, args ...any) error {
	err := diagnostic.Configf(b.cfg.block(), param, format, args...)
	err.Source = b.cfg.Source

	return err
}

// overlaps reports whether two canonical paths address a common cell.
func overlaps(a, b string) bool {
	pa, err := addressable.ParsePath(a)
	if err != nil {
		return a == b
	}

	pb, err := addressable.ParsePath(b)
	if err != nil {
		return a == b
	}

	if pa.Base() != pb.Base() {
		return false
	}

	if !pa.HasIndex() || !pb.HasIndex() {
		return true
	}

	for _, x := range pa.Index {
		for _, y := range pb.Index {
			if x == y {
				return true
			}
		}
	}

	return false
}

func maxAbsDiff(a, b []float64) float64 {
	var worst float64

	for i := range min(len(a), len(b)) {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}

	return worst
}
