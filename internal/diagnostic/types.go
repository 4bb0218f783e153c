package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostics holds all diagnostic information from validating a model.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Block identifies the configuration block this relates to (if any).
	Block string
	// Parameter identifies the block parameter this relates to (if any).
	Parameter string
	// Source is "file:line" of the block (if known).
	Source string

	err error
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

const unknownStr = "unknown"

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return unknownStr
	}
}

// Diagnostic codes.
const (
	CodeConfiguration = "configuration"
	CodeDefect        = "code_error"
	CodeUnclassified  = "error"
)

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, block, parameter string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:  SeverityError,
		Code:      code,
		Message:   message,
		Block:     block,
		Parameter: parameter,
	})
}

// AddErr classifies err (and every leaf of an errors.Join tree) and adds it.
func (d *Diagnostics) AddErr(err error) {
	for _, e := range Flatten(err) {
		diag := Diagnostic{Severity: SeverityError, Code: CodeUnclassified, Message: e.Error(), err: e}

		var ce *ConfigError

		var code *CodeError

		switch {
		case errors.As(e, &code):
			diag.Code = CodeDefect
		case errors.As(e, &ce):
			diag.Code = CodeConfiguration
			diag.Message = ce.Err.Error()
			diag.Block = ce.Block
			diag.Parameter = ce.Parameter
			diag.Source = ce.Source
		}

		d.Errors = append(d.Errors, diag)
	}
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, block, parameter string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:  SeverityWarning,
		Code:      code,
		Message:   message,
		Block:     block,
		Parameter: parameter,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, block, parameter string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity:  SeverityInfo,
		Code:      code,
		Message:   message,
		Block:     block,
		Parameter: parameter,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
// Errors added through AddErr keep their identity for errors.Is / errors.As.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		if e.err != nil {
			errs = append(errs, e.err)
			continue
		}

		errs = append(errs, errors.New(e.String()))
	}

	return errors.Join(errs...)
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Source != "" {
		prefix = append(prefix, d.Source)
	}

	if d.Block != "" {
		prefix = append(prefix, d.Block)
	}

	if d.Parameter != "" {
		prefix = append(prefix, d.Parameter)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, ": ") + ": " + msg
	}

	return msg
}
