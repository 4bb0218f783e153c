package config

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// UnmarshalTOML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		if v != "" {
			*s = StringOrArray{v}
		} else {
			*s = StringOrArray{}
		}

		return nil
	case []any:
		out := make(StringOrArray, 0, len(v))

		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string, got %T", item)
			}

			out = append(out, str)
		}

		*s = out

		return nil
	default:
		return fmt.Errorf("expected string or array, got %T", data)
	}
}

// UnmarshalTOML accepts either a single number or an array of numbers.
func (f *FloatOrArray) UnmarshalTOML(data any) error {
	if list, ok := data.([]any); ok {
		out := make(FloatOrArray, 0, len(list))

		for _, item := range list {
			x, err := tomlFloat(item)
			if err != nil {
				return err
			}

			out = append(out, x)
		}

		*f = out

		return nil
	}

	x, err := tomlFloat(data)
	if err != nil {
		return fmt.Errorf("expected number or array: %w", err)
	}

	*f = FloatOrArray{x}

	return nil
}

// UnmarshalTOML reads a table of name -> number in sorted key order.
func (n *NamedValues) UnmarshalTOML(data any) error {
	return eachTableEntry(data, func(key string, value any) error {
		x, err := tomlFloat(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}

		*n = append(*n, NamedValue{Name: key, Value: x})

		return nil
	})
}

// UnmarshalTOML reads a table of name -> number list in sorted key order.
func (n *NamedSeries) UnmarshalTOML(data any) error {
	return eachTableEntry(data, func(key string, value any) error {
		var v FloatOrArray
		if err := v.UnmarshalTOML(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}

		*n = append(*n, NamedList{Name: key, Values: v})

		return nil
	})
}

// UnmarshalTOML reads a table of name -> (key -> number) in sorted key order;
// ParseTOML restores document order afterwards with keepDocumentOrder.
func (n *NamedMaps) UnmarshalTOML(data any) error {
	return eachTableEntry(data, func(key string, value any) error {
		m := NamedMap{Name: key}

		err := eachTableEntry(value, func(k string, v any) error {
			x, err := tomlFloat(v)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", key, k, err)
			}

			m.Keys = append(m.Keys, k)
			m.Values = append(m.Values, x)

			return nil
		})
		if err != nil {
			return err
		}

		*n = append(*n, m)

		return nil
	})
}

func eachTableEntry(data any, fn func(key string, value any) error) error {
	table, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("expected table, got %T", data)
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if err := fn(k, table[k]); err != nil {
			return err
		}
	}

	return nil
}

func tomlFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// keepDocumentOrder puts the keys of object string and unsigned maps back
// into the order they were written in. Tables reach UnmarshalTOML as
// map[string]any, so the order is recovered from the parser's key list.
// Array-table elements are told apart by the "objects" key that opens each
// one, or by an attribute that repeats within an inline array.
func keepDocumentOrder(f *File, keys []toml.Key) {
	var (
		order []map[string][]string // per object: "section.name" -> keys
		seen  map[string]bool       // attributes of the current object
	)

	next := func() {
		order = append(order, make(map[string][]string))
		seen = make(map[string]bool)
	}

	for _, k := range keys {
		if len(k) == 0 || k[0] != "objects" {
			continue
		}

		if len(order) == 0 || (len(k) == 1 && len(seen) > 0) {
			next()
		}

		switch len(k) {
		case 2:
			if seen[k[1]] {
				next()
			}

			seen[k[1]] = true
		case 4:
			if k[1] == "string_maps" || k[1] == "unsigned_maps" {
				cur := order[len(order)-1]
				name := k[1] + "." + k[2]
				cur[name] = append(cur[name], k[3])
			}
		}
	}

	for i := range f.Objects {
		if i >= len(order) {
			break
		}

		reorder(f.Objects[i].StringMaps, "string_maps", order[i])
		reorder(f.Objects[i].UnsignedMaps, "unsigned_maps", order[i])
	}
}

func reorder(maps NamedMaps, section string, order map[string][]string) {
	for i := range maps {
		m := &maps[i]

		keys := order[section+"."+m.Name]
		if len(keys) != len(m.Keys) {
			continue
		}

		byKey := make(map[string]float64, len(m.Keys))
		for j, k := range m.Keys {
			byKey[k] = m.Values[j]
		}

		values := make([]float64, 0, len(keys))

		for _, k := range keys {
			v, ok := byKey[k]
			if !ok {
				break
			}

			values = append(values, v)
		}

		if len(values) == len(keys) {
			m.Keys = append([]string(nil), keys...)
			m.Values = values
		}
	}
}
