// Package addressable provides the runtime-typed indirection layer that turns
// textual paths into mutable handles inside the model object graph.
//
// # Path Syntax
//
// A path has the form
//
//	TYPE[LABEL].PARAMETER
//	TYPE[LABEL].PARAMETER{INDEX}
//
// TYPE and PARAMETER are case-insensitive and are lower-cased on parse. LABEL and
// INDEX are case-sensitive. INDEX is a single key or a comma-separated list of keys
// that has already been expanded by the configuration loader.
//
// # Catalog
//
// Every object that exposes addressables owns a Catalog. Fields are registered at
// construction time together with their Shape and the set of Usage tags they may be
// resolved for:
//
//	cat := addressable.NewCatalog()
//	cat.RegisterScalar("r0", &p.r0)
//	cat.RegisterVector("ycs_values", &p.ycs)
//	cat.RegisterScalar("ssb", &p.ssb, addressable.UsageLookup)
//
// # Resolution
//
// A Resolver holds the registered objects and a usage ledger. Resolve is a pure
// lookup; callers record the usage they took once resolution succeeds, and
// Conflicts reports paths carrying incompatible tags.
package addressable
