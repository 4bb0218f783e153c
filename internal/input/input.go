package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"param-transform/internal/addressable"
	"param-transform/internal/diagnostic"
)

var (
	ErrNoHeader = errors.New("input file has no header line")
	ErrNoRow    = errors.New("input file has no such row")
)

// Values is one row of an input file.
type Values struct {
	Source string
	Paths  []string
	Row    []float64
	Logger *slog.Logger
}

// LoadFile reads row (1-based) of the file at path.
func LoadFile(path string, row int) (*Values, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer f.Close()

	v, err := Load(f, row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	v.Source = path

	return v, nil
}

// Load reads row (1-based) of an input table.
func Load(r io.Reader, row int) (*Values, error) {
	if row < 1 {
		return nil, fmt.Errorf("%w: rows start at 1, got %d", ErrNoRow, row)
	}

	sc := bufio.NewScanner(r)

	var (
		v      Values
		line   int
		values int
	)

	for sc.Scan() {
		line++

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)

		if v.Paths == nil {
			for _, f := range fields {
				p, err := addressable.ParsePath(f)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}

				v.Paths = append(v.Paths, p.String())
			}

			continue
		}

		values++
		if values != row {
			continue
		}

		if len(fields) != len(v.Paths) {
			return nil, fmt.Errorf("line %d: %d values for %d parameters", line, len(fields), len(v.Paths))
		}

		for _, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q is not a number", line, f)
			}

			v.Row = append(v.Row, x)
		}

		return &v, nil
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	if v.Paths == nil {
		return nil, ErrNoHeader
	}

	return nil, fmt.Errorf("%w: %d requested, %d present", ErrNoRow, row, values)
}

// Apply writes each value to its single addressed cell and records
// UsageInputRun.
func (v *Values) Apply(resolver *addressable.Resolver) error {
	logger := v.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var errs []error

	for i, path := range v.Paths {
		h, err := resolver.Resolve(path, addressable.UsageInputRun)
		if err != nil {
			errs = append(errs, v.configErr(path, "%w", err))
			continue
		}

		if h.Len() != 1 {
			errs = append(errs, v.configErr(path, "%s addresses %d values; input columns must address exactly one", path, h.Len()))
			continue
		}

		if err := h.Write(v.Row[i : i+1]); err != nil {
			errs = append(errs, diagnostic.Codef("writing %s: %v", path, err))
			continue
		}

		resolver.RecordUsage(path, addressable.UsageInputRun)
		logger.Debug("input value applied", "parameter", path, "value", v.Row[i])
	}

	return errors.Join(errs...)
}

func (v *Values) configErr(path, format string, args ...any) error {
	err := diagnostic.Configf("input", path, format, args...)
	err.Source = v.Source

	return err
}
