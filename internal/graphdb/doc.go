// Package graphdb builds the component graph: the fully-resolved,
// deduplicated description of how every runtime value is produced,
// transformed and consumed, ready for the downstream code emitter.
//
// Build runs a fixed, order-dependent sequence of passes over the
// declaration store. The ordering is load-bearing: error observers must be
// registered before any fallible component is split, so that error
// splitters know which scopes need their raw error upcast to the canonical
// error type. Matcher auto-registration is therefore held back during the
// first two passes and flushed as an explicit backlog before constructors
// are processed.
//
// Local failures (a malformed declaration) are diagnosed and the
// declaration is dropped; the build never aborts on user input, so one run
// surfaces every independent error. Violated internal invariants panic:
// they indicate a defect in the builder, not in the user's declarations.
package graphdb
