package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("E101")

	if err.Code != "E101" {
		t.Errorf("got code %q, want %q", err.Code, "E101")
	}
	if err.Category != CategoryCompile {
		t.Errorf("got category %q, want %q", err.Category, CategoryCompile)
	}
	if err.Message == "" {
		t.Error("registered error should have a message")
	}
	if !strings.Contains(err.Error(), "E101") {
		t.Errorf("Error() should include the code, got %q", err.Error())
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Message != "Unknown error" {
		t.Errorf("got %q, want %q", err.Message, "Unknown error")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New("E403").Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestFromErrorPassthrough(t *testing.T) {
	orig := New("E101")
	got := FromError(orig, "E403")
	if got != orig {
		t.Error("FromError should return an existing *Error unchanged")
	}
	if FromError(nil, "E403") != nil {
		t.Error("FromError(nil) should return nil")
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil", nil, ""},
		{"both", &Location{Document: "index.json", NodePath: "div/p[1]"}, "index.json: div/p[1]"},
		{"document only", &Location{Document: "index.json"}, "index.json"},
		{"path only", &Location{NodePath: "div"}, "div"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E102").WithPath("page.json", "div/img[0]")
	got := err.FormatCompact()

	if !strings.Contains(got, "page.json: div/img[0]") {
		t.Errorf("compact format should include location, got %q", got)
	}
	if !strings.Contains(got, "E102") {
		t.Errorf("compact format should include code, got %q", got)
	}
}

func TestFormatWarningLabel(t *testing.T) {
	DisableColors()
	defer EnableColors()

	got := New("W201").Format()
	if !strings.Contains(got, "WARNING") {
		t.Errorf("W-code should format as warning, got %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E101").WithPath("index.json", "div")
	got := err.FormatJSON()

	for _, want := range []string{`"code":"E101"`, `"category":"compile"`, `"document":"index.json"`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON format missing %s, got %q", want, got)
		}
	}
}

func TestRegisteredCodesComplete(t *testing.T) {
	for _, code := range []string{"E101", "E102", "E103", "E104", "W201", "E301", "E302", "E303", "E401", "E402", "E403", "E501", "E502"} {
		if _, ok := GetTemplate(code); !ok {
			t.Errorf("code %s is not registered", code)
		}
	}
}
