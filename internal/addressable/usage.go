package addressable

import "strings"

//go:generate go tool stringer -type=Usage -trimprefix=Usage -output=usage_string.go

// Usage records which subsystem an addressable path is currently serving.
type Usage int

const (
	_ Usage = iota // zero value is invalid

	UsageLookup         // asserts, additional priors, reports
	UsageEstimate       // @estimate
	UsageTransformation // @parameter_transformation
	UsageInputRun       // values supplied through an input file
	UsageProfile        // @profile
	UsageSingleStep     // single-step runs
	UsageTimeVarying    // @time_varying

	usageCount = int(iota)
)

// UsageSet is a bit set of Usage tags.
type UsageSet uint16

// AllUsages permits every usage.
const AllUsages = UsageSet(1<<usageCount - 2)

// UsagesOf builds a set from the given tags.
func UsagesOf(usages ...Usage) UsageSet {
	var s UsageSet
	for _, u := range usages {
		s = s.With(u)
	}

	return s
}

// Has reports whether u is in the set.
func (s UsageSet) Has(u Usage) bool {
	return s&(1<<uint(u)) != 0
}

// With returns the set with u added.
func (s UsageSet) With(u Usage) UsageSet {
	return s | 1<<uint(u)
}

// List returns the tags of the set in declaration order.
func (s UsageSet) List() []Usage {
	var out []Usage

	for u := UsageLookup; int(u) < usageCount; u++ {
		if s.Has(u) {
			out = append(out, u)
		}
	}

	return out
}

func (s UsageSet) String() string {
	list := s.List()
	if len(list) == 0 {
		return "none"
	}

	names := make([]string, len(list))
	for i, u := range list {
		names[i] = u.String()
	}

	return strings.Join(names, "|")
}

// conflictingUsages lists the pairs that may never share one absolute path.
var conflictingUsages = [][2]Usage{
	{UsageEstimate, UsageTransformation},
	{UsageTransformation, UsageProfile},
}

// Conflict returns the first incompatible pair carried by the set.
func (s UsageSet) Conflict() (Usage, Usage, bool) {
	for _, pair := range conflictingUsages {
		if s.Has(pair[0]) && s.Has(pair[1]) {
			return pair[0], pair[1], true
		}
	}

	return 0, 0, false
}
