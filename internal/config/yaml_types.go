package config

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- block line capture ---

// UnmarshalYAML decodes the block and records its line.
func (b *ObjectBlock) UnmarshalYAML(node *yaml.Node) error {
	type plain ObjectBlock

	if err := checkKeys(node, reflect.TypeFor[ObjectBlock]()); err != nil {
		return err
	}

	if err := node.Decode((*plain)(b)); err != nil {
		return err
	}

	b.Line = node.Line

	return nil
}

// UnmarshalYAML decodes the block and records its line.
func (b *TransformBlock) UnmarshalYAML(node *yaml.Node) error {
	type plain TransformBlock

	if err := checkKeys(node, reflect.TypeFor[TransformBlock]()); err != nil {
		return err
	}

	if err := node.Decode((*plain)(b)); err != nil {
		return err
	}

	b.Line = node.Line

	return nil
}

// UnmarshalYAML decodes the block and records its line.
func (b *EstimateBlock) UnmarshalYAML(node *yaml.Node) error {
	type plain EstimateBlock

	if err := checkKeys(node, reflect.TypeFor[EstimateBlock]()); err != nil {
		return err
	}

	if err := node.Decode((*plain)(b)); err != nil {
		return err
	}

	b.Line = node.Line

	return nil
}

// UnmarshalYAML decodes the block and records its line.
func (b *ProfileBlock) UnmarshalYAML(node *yaml.Node) error {
	type plain ProfileBlock

	if err := checkKeys(node, reflect.TypeFor[ProfileBlock]()); err != nil {
		return err
	}

	if err := node.Decode((*plain)(b)); err != nil {
		return err
	}

	b.Line = node.Line

	return nil
}

// checkKeys rejects mapping keys that are not yaml tags of t. Node.Decode
// starts a fresh decoder, so KnownFields on the outer one does not reach
// the blocks.
func checkKeys(node *yaml.Node, t reflect.Type) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	known := make(map[string]bool, t.NumField())

	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if name != "" && name != "-" {
			known[name] = true
		}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if k := node.Content[i]; !known[k.Value] {
			return fmt.Errorf("line %d: field %s not found in type config.%s", k.Line, k.Value, t.Name())
		}
	}

	return nil
}

// --- StringOrArray / FloatOrArray ---

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil
	case yaml.SequenceNode:
		var arr []string

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil
	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// UnmarshalYAML accepts either a single number or an array of numbers.
func (f *FloatOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64

		if err := node.Decode(&v); err != nil {
			return err
		}

		*f = FloatOrArray{v}

		return nil
	case yaml.SequenceNode:
		var arr []float64

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*f = arr

		return nil
	default:
		return fmt.Errorf("line %d: expected number or array, got %v", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML outputs a single number if length is 1, otherwise an array.
func (f FloatOrArray) MarshalYAML() (any, error) {
	if len(f) == 1 {
		return f[0], nil
	}

	return []float64(f), nil
}

// --- ordered tables ---

// UnmarshalYAML reads a mapping of name -> number in document order.
func (n *NamedValues) UnmarshalYAML(node *yaml.Node) error {
	return eachPair(node, func(key string, value *yaml.Node) error {
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}

		*n = append(*n, NamedValue{Name: key, Value: v})

		return nil
	})
}

// UnmarshalYAML reads a mapping of name -> number list in document order.
func (n *NamedSeries) UnmarshalYAML(node *yaml.Node) error {
	return eachPair(node, func(key string, value *yaml.Node) error {
		var v FloatOrArray
		if err := value.Decode(&v); err != nil {
			return err
		}

		*n = append(*n, NamedList{Name: key, Values: v})

		return nil
	})
}

// UnmarshalYAML reads a mapping of name -> (key -> number), keeping the
// document order of both levels.
func (n *NamedMaps) UnmarshalYAML(node *yaml.Node) error {
	return eachPair(node, func(key string, value *yaml.Node) error {
		m := NamedMap{Name: key}

		err := eachPair(value, func(k string, v *yaml.Node) error {
			var x float64
			if err := v.Decode(&x); err != nil {
				return err
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

func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping, got %v", node.Line, kindName(node.Kind))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: expected a scalar key", k.Line)
		}

		if err := fn(k.Value, v); err != nil {
			return err
		}
	}

	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}
