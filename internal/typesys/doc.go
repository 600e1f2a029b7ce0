// Package typesys is the type model for the graph core. Concrete types are
// plain cty.Type values; unresolved generic parameters are represented as
// interned capsule types so that a templated signature is still an ordinary
// cty.Type that can be stored, compared and walked structurally.
//
// The package provides three operations the rest of the core builds on:
//
//   - Bind: substitute concrete types for named parameters inside a type.
//   - Equivalent: structural equality up to a renaming of parameters,
//     returning the name-to-name remapping it found.
//   - Oracle: capability checks ("can this type become the canonical
//     response?") with a table-driven implementation that falls back to
//     cty's own conversion rules.
package typesys
