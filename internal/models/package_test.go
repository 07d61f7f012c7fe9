package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"My__Pkg--Name..X": "my-pkg-name-x",
		"Django":           "django",
		"zope.interface":   "zope-interface",
		"python_dateutil":  "python-dateutil",
		"a-_.b":            "a-b",
		"":                 "",
		"already-normal":   "already-normal",
		"Trailing_":        "trailing-",
		"._leading":        "-leading",
	}

	for in, want := range tests {
		got := Normalize(in)
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
		if again := Normalize(got); again != got {
			t.Errorf("Normalize is not idempotent for %q: %q then %q", in, got, again)
		}
	}
}

func TestRenameKeepsNormName(t *testing.T) {
	md := NewMetadata("foo_bar", "1.0", "")
	md.Rename("Foo.Bar")

	if md.Name != "Foo.Bar" {
		t.Errorf("Expected name Foo.Bar, got %s", md.Name)
	}
	if md.NormName != "foo-bar" {
		t.Errorf("Expected norm name foo-bar, got %s", md.NormName)
	}
}

func TestMirrorErrorUnwrap(t *testing.T) {
	base := fmt.Errorf("missing 'Name' field")
	err := NewError(ErrExtraction, "/tmp/foo-1.0.tar.gz", base)

	if !IsType(err, ErrExtraction) {
		t.Errorf("Expected extraction error, got %v", err)
	}
	if IsType(err, ErrDownload) {
		t.Errorf("Extraction error reported as download error")
	}
	if !errors.Is(err, base) {
		t.Errorf("Wrapped error not reachable through %v", err)
	}

	want := "[Extraction] /tmp/foo-1.0.tar.gz: missing 'Name' field"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
