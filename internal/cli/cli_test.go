package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/ralt/pypi-mirror/internal/cache"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/testutil"
	"github.com/spf13/cobra"
)

func execute(t *testing.T, args ...string) (*cobra.Command, string, error) {
	t.Helper()

	color.NoColor = true

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	cmd, err := root.ExecuteC()
	return cmd, out.String(), err
}

func setupDownloadDir(t *testing.T) string {
	t.Helper()

	dir := testutil.TempDir(t, "pypi-mirror-cli-")
	testutil.WriteWheel(t, dir, "Django-5.0-py3-none-any.whl", testutil.CoreMetadata("Django", "5.0", ""))
	testutil.WriteTarGz(t, dir, "django-4.2.tar.gz", map[string]string{
		"django-4.2/setup.py": "from setuptools import setup\n",
	})
	testutil.WriteSdist(t, dir, "six-1.9.0", testutil.CoreMetadata("six", "1.9.0", ""))
	testutil.WriteSdist(t, dir, "six-1.10.0", testutil.CoreMetadata("six", "1.10.0", ""))
	return dir
}

func TestList(t *testing.T) {
	t.Setenv("LC_ALL", "C")
	dir := setupDownloadDir(t)

	_, out, err := execute(t, "list", "-d", dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := "Django\n  5.0\n  4.2\nsix\n  1.10.0\n  1.9.0\n"
	if out != want {
		t.Errorf("list output:\n%s\nwant:\n%s", out, want)
	}

	_, out, err = execute(t, "list", "-d", dir, "--name-only")
	if err != nil {
		t.Fatalf("list --name-only failed: %v", err)
	}
	if out != "Django\nsix\n" {
		t.Errorf("list --name-only output:\n%s", out)
	}

	_, out, err = execute(t, "list", "-d", dir, "--name-only", "-n", "six")
	if err != nil {
		t.Fatalf("list -n failed: %v", err)
	}
	if out != "six\n  1.10.0\n  1.9.0\n" {
		t.Errorf("list -n output:\n%s", out)
	}
}

func TestListJSON(t *testing.T) {
	t.Setenv("LC_ALL", "C")
	dir := setupDownloadDir(t)

	_, out, err := execute(t, "list", "-d", dir, "-j")
	if err != nil {
		t.Fatalf("list -j failed: %v", err)
	}

	var got []packageVersions
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Invalid JSON %q: %v", out, err)
	}
	if len(got) != 2 || got[0].Name != "Django" || strings.Join(got[1].Versions, ",") != "1.10.0,1.9.0" {
		t.Errorf("Unexpected listing %+v", got)
	}

	empty := testutil.TempDir(t, "pypi-mirror-cli-")
	_, out, err = execute(t, "list", "-d", empty, "-j")
	if err != nil {
		t.Fatalf("list -j failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("Expected empty array, got %q", out)
	}
}

func TestCreateAndDelete(t *testing.T) {
	dir := setupDownloadDir(t)
	mirrorDir := testutil.TempDir(t, "pypi-mirror-cli-out-")

	if _, _, err := execute(t, "create", "-d", dir, "-m", mirrorDir); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for _, p := range []string{"index.html", "django/index.html", "six/index.html", "django/django-4.2.tar.gz"} {
		if _, err := os.Stat(filepath.Join(mirrorDir, p)); err != nil {
			t.Errorf("Expected %s in mirror: %v", p, err)
		}
	}

	_, out, err := execute(t, "delete", "-d", dir, "-m", mirrorDir, "six", "-k", "1", "--dry-run")
	if err != nil {
		t.Fatalf("delete --dry-run failed: %v", err)
	}
	if !strings.Contains(out, "six-1.9.0.tar.gz") || strings.Contains(out, "six-1.10.0") {
		t.Errorf("Unexpected dry run output:\n%s", out)
	}

	if _, _, err := execute(t, "delete", "-d", dir, "-m", mirrorDir, "Django"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mirrorDir, "django")); !os.IsNotExist(err) {
		t.Error("Expected django directory to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "django-4.2.tar.gz")); !os.IsNotExist(err) {
		t.Error("Expected django-4.2.tar.gz to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "six-1.9.0.tar.gz")); err != nil {
		t.Error("Dry run should have kept six-1.9.0.tar.gz")
	}
}

func TestDeleteFlagValidation(t *testing.T) {
	dir := setupDownloadDir(t)
	mirrorDir := testutil.TempDir(t, "pypi-mirror-cli-out-")

	if _, _, err := execute(t, "delete", "-d", dir, "-m", mirrorDir, "six", "-v", "1.9.0", "-k", "1"); err == nil {
		t.Error("Expected --version and --keep-latest to be exclusive")
	}
	if _, _, err := execute(t, "delete", "-d", dir, "-m", mirrorDir, "six", "-k", "-2"); !models.IsType(err, models.ErrInvalidConfig) {
		t.Errorf("Expected invalid config error, got %v", err)
	}
	if _, _, err := execute(t, "delete", "-d", dir, "six"); err == nil {
		t.Error("Expected missing --mirror-dir to fail")
	}
}

func TestWriteMetadata(t *testing.T) {
	dir := setupDownloadDir(t)

	if _, _, err := execute(t, "write-metadata", "-d", dir); err != nil {
		t.Fatalf("write-metadata failed: %v", err)
	}

	md, ok := cache.Load(filepath.Join(dir, "django-4.2.tar.gz"))
	if !ok {
		t.Fatal("Expected metadata file for django-4.2.tar.gz")
	}
	if md.Name != "Django" {
		t.Errorf("Expected reconciled name Django, got %s", md.Name)
	}
}

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"releases": {"1.9": [], "1.10": [], "1.2": [], "2.0b1": []}}`)
	}))
	defer srv.Close()

	url := srv.URL + "/pypi/{package}/json"

	_, out, err := execute(t, "query", "six", "-u", url)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if out != "1.10\n1.9\n1.2\n" {
		t.Errorf("query output:\n%s", out)
	}

	_, out, err = execute(t, "query", "six", "-u", url, "-l", "2", "-o", "json")
	if err != nil {
		t.Fatalf("query -o json failed: %v", err)
	}
	if strings.TrimSpace(out) != `["1.10","1.9"]` {
		t.Errorf("query json output: %s", out)
	}

	_, out, err = execute(t, "query", "six", "-u", url, "-l", "0")
	if err != nil {
		t.Fatalf("query -l 0 failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected no versions for -l 0, got:\n%s", out)
	}

	if _, _, err := execute(t, "query", "six", "-u", url, "-l", "-1"); !models.IsType(err, models.ErrInvalidConfig) {
		t.Errorf("Expected invalid config error for negative --latest, got %v", err)
	}

	if _, _, err := execute(t, "query", "six", "-u", url, "-o", "xml"); !models.IsType(err, models.ErrInvalidConfig) {
		t.Errorf("Expected invalid config error, got %v", err)
	}
}

func TestConfigFileFillsFlags(t *testing.T) {
	dir := setupDownloadDir(t)
	cfgDir := testutil.TempDir(t, "pypi-mirror-cli-cfg-")
	cfgPath := filepath.Join(cfgDir, "mirror.yaml")
	if err := os.WriteFile(cfgPath, []byte("download-dir: "+dir+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, out, err := execute(t, "--config", cfgPath, "list", "--name-only")
	if err != nil {
		t.Fatalf("list with config failed: %v", err)
	}
	if !strings.Contains(out, "six") {
		t.Errorf("Expected six in output:\n%s", out)
	}

	other := testutil.TempDir(t, "pypi-mirror-cli-")
	_, out, err = execute(t, "--config", cfgPath, "list", "-d", other)
	if err != nil {
		t.Fatalf("list with config failed: %v", err)
	}
	if out != "" {
		t.Errorf("Flag should override config file, got:\n%s", out)
	}
}

func TestNoCommand(t *testing.T) {
	_, _, err := execute(t)
	if !errors.Is(err, ErrNoCommand) {
		t.Errorf("Expected ErrNoCommand, got %v", err)
	}
}

func TestReportError(t *testing.T) {
	dir := testutil.TempDir(t, "pypi-mirror-cli-")
	testutil.WriteRaw(t, dir, "broken-1.0-py3-none-any.whl", []byte("not a zip"))

	cmd, _, err := execute(t, "list", "-d", dir)
	if err == nil {
		t.Fatal("Expected list to fail")
	}

	var buf bytes.Buffer
	ReportError(&buf, cmd, err)
	out := buf.String()
	if !strings.HasPrefix(out, `Failed to execute command "list": `) {
		t.Errorf("Unexpected report:\n%s", out)
	}
	if !strings.Contains(out, "--print-traceback") {
		t.Errorf("Expected traceback hint:\n%s", out)
	}

	cmd, _, err = execute(t, "--print-traceback", "list", "-d", dir)
	buf.Reset()
	ReportError(&buf, cmd, err)
	if !strings.Contains(buf.String(), "metadata.Extract") {
		t.Errorf("Expected stack trace:\n%s", buf.String())
	}
}
