package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for model files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown model file format")

// LoadFile loads and parses a model file, choosing the format by extension.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}

	var f *File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		f, err = ParseTOML(data)
	case ".yaml", ".yml", "":
		f, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f.Path = path

	return f, nil
}

// ParseYAML parses YAML data into a File. Unknown keys are errors.
func ParseYAML(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse model YAML: %w", err)
	}

	return &f, nil
}

// ParseTOML parses TOML data into a File. Unknown keys are errors.
func ParseTOML(data []byte) (*File, error) {
	var f File

	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model TOML: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		return nil, fmt.Errorf("failed to parse model TOML: unknown keys %s", strings.Join(keys, ", "))
	}

	keepDocumentOrder(&f, meta.Keys())

	return &f, nil
}
