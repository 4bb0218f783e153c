package config

import (
	"errors"
	"fmt"
	"strconv"

	"param-transform/internal/diagnostic"
	"param-transform/internal/estimate"
	"param-transform/internal/model"
	"param-transform/internal/transform"
)

// Definition converts the file into a model definition. Every block carries
// "path:line" as its source when the line is known.
func (f *File) Definition() (model.Definition, error) {
	var def model.Definition

	mode, err := model.ParseRunMode(f.RunMode)
	if err != nil {
		return def, &diagnostic.ConfigError{Source: f.Path, Parameter: "run_mode", Err: err}
	}

	def.RunMode = mode

	var errs []error

	for _, o := range f.Objects {
		od, err := f.object(o)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		def.Objects = append(def.Objects, od)
	}

	for _, t := range f.Transformations {
		def.Transformations = append(def.Transformations, transform.Config{
			Label:                            t.Label,
			Type:                             t.Type,
			Parameters:                       t.Parameters,
			PriorAppliesToRestoredParameters: t.PriorAppliesToRestoredParameters,
			LowerBound:                       t.LowerBound,
			UpperBound:                       t.UpperBound,
			SumToOne:                         t.SumToOne,
			Source:                           f.source(t.Line),
		})
	}

	for _, e := range f.Estimates {
		def.Estimates = append(def.Estimates, estimate.Definition{
			Label:                 e.Label,
			Type:                  e.Type,
			Parameter:             e.Parameter,
			LowerBound:            e.LowerBound,
			UpperBound:            e.UpperBound,
			Mu:                    e.Mu,
			CV:                    e.CV,
			TransformWithJacobian: e.TransformWithJacobian,
			Source:                f.source(e.Line),
		})
	}

	for _, p := range f.Profiles {
		def.Profiles = append(def.Profiles, model.ProfileDefinition{
			Label:     p.Label,
			Parameter: p.Parameter,
			Source:    f.source(p.Line),
		})
	}

	return def, errors.Join(errs...)
}

func (f *File) object(o ObjectBlock) (model.ObjectDefinition, error) {
	od := model.ObjectDefinition{
		Type:       o.Type,
		Label:      o.Label,
		LookupOnly: o.LookupOnly,
		Source:     f.source(o.Line),
	}

	for _, s := range o.Scalars {
		od.Scalars = append(od.Scalars, model.Scalar{Name: s.Name, Value: s.Value})
	}

	for _, v := range o.Vectors {
		od.Vectors = append(od.Vectors, model.Series{Name: v.Name, Values: v.Values})
	}

	for _, p := range o.PointerSets {
		od.PointerSets = append(od.PointerSets, model.Series{Name: p.Name, Values: p.Values})
	}

	for _, m := range o.StringMaps {
		od.StringMaps = append(od.StringMaps, model.KeyedSeries{Name: m.Name, Keys: m.Keys, Values: m.Values})
	}

	for _, m := range o.UnsignedMaps {
		values := make(map[uint]float64, len(m.Keys))

		for i, k := range m.Keys {
			n, err := strconv.ParseUint(k, 10, 0)
			if err != nil {
				return od, &diagnostic.ConfigError{
					Source:    od.Source,
					Block:     o.Type + "[" + o.Label + "]",
					Parameter: m.Name,
					Err:       fmt.Errorf("key %q is not an unsigned integer", k),
				}
			}

			if _, dup := values[uint(n)]; dup {
				return od, &diagnostic.ConfigError{
					Source:    od.Source,
					Block:     o.Type + "[" + o.Label + "]",
					Parameter: m.Name,
					Err:       fmt.Errorf("key %d appears more than once", n),
				}
			}

			values[uint(n)] = m.Values[i]
		}

		od.UnsignedMaps = append(od.UnsignedMaps, model.UnsignedSeries{Name: m.Name, Values: values})
	}

	return od, nil
}

func (f *File) source(line int) string {
	switch {
	case f.Path == "" && line == 0:
		return ""
	case f.Path == "":
		return "line " + strconv.Itoa(line)
	case line == 0:
		return f.Path
	default:
		return f.Path + ":" + strconv.Itoa(line)
	}
}
