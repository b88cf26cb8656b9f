// Package errors provides structured, actionable error messages for the
// OMM toolchain.
//
// Every error has a code (e.g. "E101") that maps to a registered message,
// detail text, and documentation URL. Errors carry the document and node
// path where they occurred, a fix suggestion, and an optional wrapped
// cause, and they format for terminal, single-line log, or JSON output.
//
// # Error Codes
//
// Codes are grouped by concern:
//   - E1xx: compile errors and diagnostics (malformed nodes, opaque
//     values, recursion limits)
//   - W2xx: compile warnings (style selector conflicts)
//   - E3xx: configuration errors
//   - E4xx: CLI errors
//   - E5xx: publish errors
//
// # Usage
//
//	err := errors.New("E101").
//	    WithPath("pages/index.json", "div/ul/li[2]").
//	    WithSuggestion("Make the element's tag the first key of the object")
//
//	fmt.Println(err.Format())
package errors
