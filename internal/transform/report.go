package transform

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"param-transform/internal/addressable"
)

// FillReportCache writes the block state as key: value lines.
func (b *Block) FillReportCache(w io.Writer) error {
	lines := [][2]string{
		{"label", b.cfg.Label},
		{"type", b.kind},
		{"parameters", strings.Join(b.labels, " ")},
		{"parameter_values", formatValues(b.currentValues())},
	}

	for _, name := range b.catalog.Names() {
		lines = append(lines, [2]string{name, formatValues(b.ownValues(name))})
	}

	lines = append(lines,
		[2]string{"prior_applies_to_restored_parameters", strconv.FormatBool(b.cfg.PriorAppliesToRestoredParameters)},
		[2]string{"negative_log_jacobian", formatFloat(b.jacobian)},
	)

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l[0], l[1]); err != nil {
			return err
		}
	}

	return nil
}

// FillTabularReportCache writes one whitespace-separated row of the block
// state, preceded by a header when header is true.
func (b *Block) FillTabularReportCache(w io.Writer, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, strings.Join(b.TabularHeader(), " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, strings.Join(b.TabularRow(), " "))

	return err
}

// TabularHeader returns the column names of the tabular report: own
// addressables, one column per bound value, then the Jacobian.
func (b *Block) TabularHeader() []string {
	var cols []string

	for _, name := range b.catalog.Names() {
		path := addressable.Join(ObjectType, b.cfg.Label, name)

		f, _ := b.catalog.Field(name)
		if f.Shape == addressable.ShapeScalar {
			cols = append(cols, path)
			continue
		}

		for i := 1; i <= f.Size(); i++ {
			cols = append(cols, path+"{"+strconv.Itoa(i)+"}")
		}
	}

	for i, h := range b.handles {
		if h.Shape() == addressable.ShapeScalar {
			cols = append(cols, b.labels[i])
			continue
		}

		for _, k := range h.Keys() {
			cols = append(cols, h.Path().WithIndex(k).String())
		}
	}

	return append(cols, addressable.Join(ObjectType, b.cfg.Label, "negative_log_jacobian"))
}

// TabularRow returns the formatted values matching TabularHeader.
func (b *Block) TabularRow() []string {
	var row []float64
	for _, name := range b.catalog.Names() {
		row = append(row, b.ownValues(name)...)
	}

	row = append(row, b.currentValues()...)
	row = append(row, b.jacobian)

	out := make([]string, len(row))
	for i, v := range row {
		out[i] = formatFloat(v)
	}

	return out
}

// currentValues reads the bound parameters.
func (b *Block) currentValues() []float64 {
	var out []float64
	for _, h := range b.handles {
		out = append(out, h.Values()...)
	}

	return out
}

func (b *Block) ownValues(name string) []float64 {
	f, ok := b.catalog.Field(name)
	if !ok {
		return nil
	}

	return f.Values()
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}

	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
