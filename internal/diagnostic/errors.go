package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError is a fatal, user-facing configuration problem.
type ConfigError struct {
	// Source is "file:line" of the offending block, if known.
	Source string
	// Block is the label of the offending block, e.g. "parameter_transformation[q_log]".
	Block string
	// Parameter is the block parameter at fault, e.g. "parameters".
	Parameter string
	Err       error
}

// Configf builds a ConfigError with a formatted message.
func Configf(block, parameter, format string, args ...any) *ConfigError {
	return &ConfigError{Block: block, Parameter: parameter, Err: fmt.Errorf(format, args...)}
}

func (e *ConfigError) Error() string {
	var prefix []string
	if e.Source != "" {
		prefix = append(prefix, e.Source)
	}

	if e.Block != "" {
		prefix = append(prefix, e.Block)
	}

	if e.Parameter != "" {
		prefix = append(prefix, e.Parameter)
	}

	if len(prefix) == 0 {
		return e.Err.Error()
	}

	return strings.Join(prefix, ": ") + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CodeError flags an internal invariant violation.
type CodeError struct {
	Msg string
}

// Codef builds a CodeError with a formatted message.
func Codef(format string, args ...any) *CodeError {
	return &CodeError{Msg: fmt.Sprintf(format, args...)}
}

func (e *CodeError) Error() string {
	return "code error: " + e.Msg + "; this indicates a software defect, please report it"
}

// IsCodeError reports whether err wraps a CodeError.
func IsCodeError(err error) bool {
	var ce *CodeError
	return errors.As(err, &ce)
}

// WithSource stamps every ConfigError in err that has no source yet.
func WithSource(err error, source string) error {
	if err == nil || source == "" {
		return err
	}

	for _, e := range Flatten(err) {
		var ce *ConfigError
		if errors.As(e, &ce) && ce.Source == "" {
			ce.Source = source
		}
	}

	return err
}

// Flatten expands errors.Join trees into their leaves.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, Flatten(e)...)
		}

		return out
	}

	return []error{err}
}
