package pypi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ralt/pypi-mirror/internal/models"
)

func newListingServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pypi/requests/json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"info": {"name": "requests"}, "releases": {
				"2.9.0": [], "2.10.0": [{"filename": "x"}], "2.2.1": [], "3.0.0rc1": [], "1.0": []}}`)
		case "/pypi/broken/json":
			fmt.Fprint(w, `{"releases": `)
		case "/pypi/empty/json":
			fmt.Fprint(w, `{"info": {}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersions(t *testing.T) {
	srv := newListingServer(t)
	c := NewClient(srv.URL + "/pypi/{package}/json")

	versions, err := c.Versions(context.Background(), "requests")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}

	want := "1.0,2.10.0,2.2.1,2.9.0,3.0.0rc1"
	if got := strings.Join(versions, ","); got != want {
		t.Errorf("Versions = %s, want %s", got, want)
	}
}

func TestVersionsLegacyPlaceholder(t *testing.T) {
	srv := newListingServer(t)
	c := NewClient(srv.URL + "/pypi/{pkg}/json")

	if _, err := c.Versions(context.Background(), "requests"); err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
}

func TestVersionsErrors(t *testing.T) {
	srv := newListingServer(t)
	c := NewClient(srv.URL + "/pypi/{package}/json")

	for _, pkg := range []string{"missing", "broken", "empty"} {
		_, err := c.Versions(context.Background(), pkg)
		if err == nil {
			t.Errorf("Expected error for %s", pkg)
			continue
		}
		if !models.IsType(err, models.ErrQuery) {
			t.Errorf("Expected query error for %s, got %v", pkg, err)
		}
	}
}

func TestSelectVersions(t *testing.T) {
	versions := []string{"1.0", "2.10.0", "2.2.1", "2.9.0", "3.0.0rc1"}

	filter, err := CompileFilter(DefaultFilter)
	if err != nil {
		t.Fatalf("CompileFilter failed: %v", err)
	}

	got := SelectVersions(versions, filter, -1)
	if strings.Join(got, ",") != "2.10.0,2.9.0,2.2.1,1.0" {
		t.Errorf("Unexpected selection %v", got)
	}

	if got := SelectVersions(versions, filter, 0); len(got) != 0 {
		t.Errorf("Expected no versions for latest 0, got %v", got)
	}

	got = SelectVersions(versions, filter, 2)
	if strings.Join(got, ",") != "2.10.0,2.9.0" {
		t.Errorf("Unexpected latest selection %v", got)
	}

	got = SelectVersions(versions, nil, 1)
	if strings.Join(got, ",") != "3.0.0rc1" {
		t.Errorf("Unexpected unfiltered selection %v", got)
	}
}

func TestCompileFilterMatchesAtStart(t *testing.T) {
	filter, err := CompileFilter(`2\.`)
	if err != nil {
		t.Fatalf("CompileFilter failed: %v", err)
	}
	if !filter.MatchString("2.1") {
		t.Error("Expected 2.1 to match")
	}
	if filter.MatchString("1.2.3") {
		t.Error("Filter should only match at the start")
	}

	if _, err := CompileFilter("("); !models.IsType(err, models.ErrInvalidConfig) {
		t.Errorf("Expected invalid config error, got %v", err)
	}
}

func TestURL(t *testing.T) {
	c := NewClient("")
	if got := c.URL("zope.interface"); got != "https://pypi.org/pypi/zope.interface/json" {
		t.Errorf("URL = %s", got)
	}
}
