package addressable

import (
	"fmt"
	"sort"
	"strings"

	"param-transform/internal/match"
)

// Resolver maps absolute paths to handles. It owns the registered objects and
// the usage ledger for one model run.
type Resolver struct {
	objects map[string]Object
	order   []string
	usage   map[string]UsageSet
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		objects: make(map[string]Object),
		usage:   make(map[string]UsageSet),
	}
}

// Register adds an object. TYPE[LABEL] must be unique.
func (r *Resolver) Register(obj Object) error {
	key := objectKey(obj.Type(), obj.Label())
	if _, ok := r.objects[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateObject, key)
	}

	r.objects[key] = obj
	r.order = append(r.order, key)

	return nil
}

// Unregister removes an object if present.
func (r *Resolver) Unregister(typ, label string) {
	key := objectKey(typ, label)
	if _, ok := r.objects[key]; !ok {
		return
	}

	delete(r.objects, key)

	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Object returns the object registered under type and label.
func (r *Resolver) Object(typ, label string) (Object, bool) {
	obj, ok := r.objects[objectKey(typ, label)]
	return obj, ok
}

// Objects returns the registered objects in registration order.
func (r *Resolver) Objects() []Object {
	out := make([]Object, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.objects[k])
	}

	return out
}

// Lookup finds the object and field named by p without any usage check.
func (r *Resolver) Lookup(p Path) (Object, *Field, error) {
	obj, ok := r.objects[p.Object()]
	if !ok {
		return nil, nil, fmt.Errorf("%w: parent object for %s is not valid", ErrObjectNotFound, p)
	}

	f, ok := obj.Addressables().Field(p.Parameter)
	if !ok {
		hint := ""
		if s := match.Suggest(p.Parameter, obj.Addressables().Names(), 3); len(s) > 0 {
			hint = "; did you mean " + strings.Join(s, ", ") + "?"
		}

		return nil, nil, fmt.Errorf("%w: %s is not a valid addressable on %s%s", ErrAddressableNotFound, p.Parameter, p.Object(), hint)
	}

	return obj, f, nil
}

// Check verifies that path exists and may be used for usage, without building a handle.
func (r *Resolver) Check(path string, usage Usage) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}

	_, f, err := r.Lookup(p)
	if err != nil {
		return err
	}

	if !f.Permits(usage) {
		return fmt.Errorf("%w: %s on %s cannot be used for %v", ErrUsagePermissionDenied, p.Parameter, p.Object(), usage)
	}

	return nil
}

// Resolve parses path and returns a handle permitted for usage. It does not
// record the usage; see RecordUsage.
func (r *Resolver) Resolve(path string, usage Usage) (*Handle, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	_, f, err := r.Lookup(p)
	if err != nil {
		return nil, err
	}

	if !f.Permits(usage) {
		return nil, fmt.Errorf("%w: %s on %s cannot be used for %v", ErrUsagePermissionDenied, p.Parameter, p.Object(), usage)
	}

	return newHandle(p, f)
}

// ShapeOf returns the effective shape of path: the declared field shape, or
// Scalar when a single index is given.
func (r *Resolver) ShapeOf(path string) (Shape, error) {
	p, err := ParsePath(path)
	if err != nil {
		return 0, err
	}

	_, f, err := r.Lookup(p)
	if err != nil {
		return 0, err
	}

	if len(p.Index) == 1 {
		return ShapeScalar, nil
	}

	return f.Shape, nil
}

// RecordUsage tags the canonical form of path with usage.
func (r *Resolver) RecordUsage(path string, usage Usage) {
	key := Canonical(path)
	r.usage[key] = r.usage[key].With(usage)
}

// UsedFor reports whether path has been tagged with usage. An indexed path also
// matches a tag recorded on its un-indexed base.
func (r *Resolver) UsedFor(path string, usage Usage) bool {
	return r.Usages(path).Has(usage)
}

// Usages returns every tag recorded for path, including those on its base.
func (r *Resolver) Usages(path string) UsageSet {
	p, err := ParsePath(path)
	if err != nil {
		return r.usage[path]
	}

	set := r.usage[p.String()]
	if p.HasIndex() {
		set |= r.usage[p.Base()]
	}

	return set
}

// Conflicts returns one error per absolute path carrying incompatible tags,
// sorted by path.
func (r *Resolver) Conflicts() []error {
	paths := make([]string, 0, len(r.usage))
	for p := range r.usage {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	var errs []error

	for _, p := range paths {
		if a, b, ok := r.Usages(p).Conflict(); ok {
			errs = append(errs, fmt.Errorf("%w: %s is used for both %v and %v", ErrConflictingUsage, p, a, b))
		}
	}

	return errs
}
