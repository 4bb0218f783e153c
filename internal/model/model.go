package model

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"param-transform/internal/addressable"
	"param-transform/internal/diagnostic"
	"param-transform/internal/estimate"
	"param-transform/internal/transform"
)

// ProfileDefinition is a @profile block. Only its target matters here.
type ProfileDefinition struct {
	Label     string
	Parameter string
	Source    string
}

// Definition is everything a model file declares.
type Definition struct {
	RunMode         RunMode
	Objects         []ObjectDefinition
	Transformations []transform.Config
	Estimates       []estimate.Definition
	Profiles        []ProfileDefinition
}

// InputValues supplies free-parameter values, typically from an input file.
type InputValues interface {
	Apply(resolver *addressable.Resolver) error
}

// Model is one run context.
type Model struct {
	def    Definition
	logger *slog.Logger

	resolver   *addressable.Resolver
	estimates  *estimate.Manager
	transforms *transform.Registry
	objects    []*Object
	profiles   []string

	started bool
	diags   diagnostic.Diagnostics
}

// New builds the objects and transformation blocks of def and registers them
// with a fresh resolver. A nil logger uses slog.Default().
func New(def Definition, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if def.RunMode == 0 {
		def.RunMode = RunModeBasic
	}

	m := &Model{
		def:        def,
		logger:     logger,
		resolver:   addressable.NewResolver(),
		estimates:  estimate.NewManager(logger),
		transforms: transform.NewRegistry(),
	}

	var errs []error

	for _, od := range def.Objects {
		obj, err := NewObject(od)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := m.resolver.Register(obj); err != nil {
			errs = append(errs, configErr(od, "label", "%w", err))
			continue
		}

		m.objects = append(m.objects, obj)
	}

	for _, cfg := range def.Transformations {
		b, err := transform.New(cfg, m)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := m.transforms.Add(b); err != nil {
			errs = append(errs, err)
			continue
		}

		if err := m.resolver.Register(b); err != nil {
			errs = append(errs, diagnostic.Codef("transformation %s registered twice: %v", b.Label(), err))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	logger.Debug("model created", "run_mode", def.RunMode, "objects", len(m.objects),
		"transformations", m.transforms.Len(), "estimates", len(def.Estimates))

	return m, nil
}

// Start validates, builds and verifies everything, then restores natural
// values. Every problem is collected; the returned error joins them.
func (m *Model) Start(input InputValues) error {
	if m.started {
		return diagnostic.Codef("model started twice")
	}

	m.started = true

	m.diags.AddErr(m.transforms.ValidateAll())

	if input != nil {
		m.diags.AddErr(input.Apply(m.resolver))
	}

	for _, def := range m.def.Estimates {
		if _, err := m.estimates.Create(def, m.resolver); err != nil {
			m.diags.AddErr(err)
		}
	}

	m.createProfiles()

	m.diags.AddErr(m.transforms.BuildAll())

	if err := m.transforms.VerifyAll(); err != nil {
		m.diags.AddErr(err)
	} else {
		for _, err := range m.resolver.Conflicts() {
			m.diags.AddErr(diagnostic.Configf("", "", "%w", err))
		}
	}

	for _, b := range m.transforms.All() {
		for _, w := range b.Warnings() {
			m.diags.AddWarning(diagnostic.CodeConfiguration, w, transform.ObjectType+"["+b.Label()+"]", "")
		}
	}

	if m.diags.HasErrors() {
		return m.diags.Error()
	}

	m.diags.AddErr(m.transforms.RestoreAll())

	for _, err := range m.estimates.CheckBounds() {
		m.diags.AddErr(err)
	}

	if m.diags.HasErrors() {
		return m.diags.Error()
	}

	m.logger.Info("model started", "run_mode", m.def.RunMode, "transformations", m.transforms.Len(),
		"estimates", len(m.estimates.All()), "warnings", len(m.diags.Warnings))

	return nil
}

// createProfiles resolves @profile targets. Usage is only recorded when the
// run is profiling, so a profiled parameter may be transformed otherwise.
func (m *Model) createProfiles() {
	for _, p := range m.def.Profiles {
		h, err := m.resolver.Resolve(p.Parameter, addressable.UsageProfile)
		if err != nil {
			cerr := diagnostic.Configf("profile["+p.Label+"]", "parameter", "%w", err)
			cerr.Source = p.Source
			m.diags.AddErr(cerr)

			continue
		}

		if m.def.RunMode != RunModeProfiling {
			continue
		}

		path := h.Path().String()
		m.resolver.RecordUsage(path, addressable.UsageProfile)
		m.profiles = append(m.profiles, path)
	}
}

// Score is the prior and Jacobian part of the objective function.
type Score struct {
	Priors    float64
	Jacobians float64
}

// Total returns the sum of the components.
func (s Score) Total() float64 { return s.Priors + s.Jacobians }

func (s Score) String() string {
	return fmt.Sprintf("priors=%g jacobians=%g total=%g", s.Priors, s.Jacobians, s.Total())
}

// Objective restores natural values and evaluates the estimate priors, with
// the transformations prepared, plus the transformation Jacobians.
func (m *Model) Objective() (Score, error) {
	if !m.started || m.diags.HasErrors() {
		return Score{}, diagnostic.Codef("objective evaluated before a successful Start")
	}

	if err := m.transforms.RestoreAll(); err != nil {
		return Score{}, err
	}

	var s Score

	s.Priors = m.transforms.Objective(m.estimates.Score)
	s.Jacobians = m.transforms.Score()

	m.logger.Debug("objective evaluated", "priors", s.Priors, "jacobians", s.Jacobians)

	return s, nil
}

// Report writes the report cache of every transformation.
func (m *Model) Report(w io.Writer) error {
	for _, b := range m.transforms.All() {
		if _, err := fmt.Fprintf(w, "*%s[%s]\n", transform.ObjectType, b.Label()); err != nil {
			return err
		}

		if err := b.FillReportCache(w); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, "*end"); err != nil {
			return err
		}
	}

	return nil
}

// TabularReport writes every transformation on one row, preceded by a single
// header line when header is true.
func (m *Model) TabularReport(w io.Writer, header bool) error {
	var cols, row []string

	for _, b := range m.transforms.All() {
		cols = append(cols, b.TabularHeader()...)
		row = append(row, b.TabularRow()...)
	}

	if header {
		if _, err := fmt.Fprintln(w, strings.Join(cols, " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, strings.Join(row, " "))

	return err
}

func (m *Model) Resolver() *addressable.Resolver { return m.resolver }
func (m *Model) Estimates() *estimate.Manager { return m.estimates }
func (m *Model) Transformations() *transform.Registry { return m.transforms }
func (m *Model) Logger() *slog.Logger { return m.logger }
func (m *Model) RunMode() RunMode { return m.def.RunMode }

// Objects returns the stand-in objects in declaration order.
func (m *Model) Objects() []*Object {
	return append([]*Object(nil), m.objects...)
}

// Diagnostics returns everything collected by Start.
func (m *Model) Diagnostics() diagnostic.Diagnostics {
	return m.diags
}

// EstimateFor returns the estimate targeting path.
func (m *Model) EstimateFor(path string) (transform.PairedEstimate, bool) {
	e, ok := m.estimates.ByParameter(path)
	if !ok {
		return nil, false
	}

	return e, true
}

// EstimatedParameters returns the targets of every estimate.
func (m *Model) EstimatedParameters() []string {
	return m.estimates.Targets()
}

// ProfiledParameters returns the profile targets when profiling.
func (m *Model) ProfiledParameters() []string {
	return append([]string(nil), m.profiles...)
}
