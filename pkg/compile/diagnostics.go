package compile

import (
	"fmt"
	"strings"

	"github.com/omm-dev/omm/internal/errors"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one non-fatal problem recorded during a compile call.
// Errors describe content that could not be rendered faithfully
// (placeholder emitted, value dropped); warnings describe output that
// was adjusted (suffixed selectors).
type Diagnostic struct {
	// Code is the registered error code (E101, W201, ...).
	Code string

	// Severity is error or warning.
	Severity Severity

	// Message is the registered short description for the code.
	Message string

	// Path locates the node, e.g. "div/ul/li[2]".
	Path string

	// Detail holds problem-specific context (the offending key, the
	// suffixed selector, ...).
	Detail string
}

// String renders the diagnostic in compact form.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(" ")
	b.WriteString(d.Code)
	if d.Path != "" {
		b.WriteString(" at ")
		b.WriteString(d.Path)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Detail != "" {
		b.WriteString(" (")
		b.WriteString(d.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// newDiagnostic builds a Diagnostic from the shared error code
// registry so messages stay consistent with fatal errors.
func newDiagnostic(code, path, detailFormat string, args ...any) Diagnostic {
	severity := SeverityError
	if strings.HasPrefix(code, "W") {
		severity = SeverityWarning
	}
	message := "Unknown diagnostic"
	if tpl, ok := errors.GetTemplate(code); ok {
		message = tpl.Message
	}
	detail := detailFormat
	if len(args) > 0 {
		detail = fmt.Sprintf(detailFormat, args...)
	}
	return Diagnostic{
		Code:     code,
		Severity: severity,
		Message:  message,
		Path:     path,
		Detail:   detail,
	}
}
