// Package build turns a project's OMM documents into its output
// directory: one HTML page per document plus one shared stylesheet.
//
// Class names are prefixed per page so rules from different documents
// can share a stylesheet without colliding. Compile diagnostics are
// logged and carried on the result; a document that fails outright does
// not stop the remaining documents from building.
package build
