package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryCompile Category = "compile"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
	CategoryPublish Category = "publish"
)

// Location identifies where in a document an error occurred.
type Location struct {
	// Document is the source file, if the tree came from one.
	Document string

	// NodePath is the slash-joined tag path from the root to the node,
	// with sibling indexes in brackets (e.g. "div/ul/li[2]").
	NodePath string
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Document != "" && l.NodePath != "" {
		return l.Document + ": " + l.NodePath
	}
	if l.Document != "" {
		return l.Document
	}
	return l.NodePath
}

// Error is a structured error with a node location, suggestions, and
// documentation.
type Error struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (compile, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is where in the document the error occurred.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is a document snippet showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithPath records the document and node path where the error occurred.
func (e *Error) WithPath(document, nodePath string) *Error {
	e.Location = &Location{Document: document, NodePath: nodePath}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithExample adds a document example to the error.
func (e *Error) WithExample(ex string) *Error {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if oe, ok := err.(*Error); ok {
		return oe
	}
	return New(code).Wrap(err)
}
