// Package testutil builds distribution archive fixtures for tests.
// All helpers call t.Fatalf on failure.
package testutil

import (
	"archive/tar"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// CoreMetadata renders a minimal METADATA / PKG-INFO document
func CoreMetadata(name, version, homepage string) string {
	doc := fmt.Sprintf("Metadata-Version: 2.1\nName: %s\nVersion: %s\nSummary: test package\n", name, version)
	if homepage != "" {
		doc += fmt.Sprintf("Home-page: %s\n", homepage)
	}
	return doc + "\nLong description.\n"
}

// WriteZip writes a zip archive at dir/filename containing members
func WriteZip(t *testing.T, dir, filename string, members map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s to %s: %v", name, filename, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s to %s: %v", name, filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish %s: %v", filename, err)
	}

	return writeFixture(t, dir, filename, buf.Bytes())
}

// WriteWheel writes a wheel whose dist-info directory is derived from the
// first two '-' fields of filename
func WriteWheel(t *testing.T, dir, filename, metadata string) string {
	t.Helper()

	distInfo := distInfoDir(filename)
	return WriteZip(t, dir, filename, map[string]string{
		distInfo + "/METADATA": metadata,
		distInfo + "/WHEEL":    "Wheel-Version: 1.0\n",
	})
}

// WriteTarGz writes a gzip compressed tarball containing members
func WriteTarGz(t *testing.T, dir, filename string, members map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, content := range members {
		header := &tar.Header{
			Name:     name,
			Mode:     0644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("Failed to add %s to %s: %v", name, filename, err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s to %s: %v", name, filename, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to finish tar %s: %v", filename, err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Failed to finish gzip %s: %v", filename, err)
	}

	return writeFixture(t, dir, filename, buf.Bytes())
}

// WriteSdist writes a <prefix>.tar.gz source archive with PKG-INFO
func WriteSdist(t *testing.T, dir, prefix, pkgInfo string) string {
	t.Helper()

	return WriteTarGz(t, dir, prefix+".tar.gz", map[string]string{
		prefix + "/PKG-INFO": pkgInfo,
		prefix + "/setup.py": "from setuptools import setup\nsetup()\n",
	})
}

func distInfoDir(filename string) string {
	fields := bytes.SplitN([]byte(filename), []byte("-"), 3)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return string(bytes.Join(fields, []byte("-"))) + ".dist-info"
}

func writeFixture(t *testing.T, dir, filename string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
	return path
}

// WriteRaw writes raw bytes under filename, for corrupt archive fixtures
func WriteRaw(t *testing.T, dir, filename string, data []byte) string {
	t.Helper()
	return writeFixture(t, dir, filename, data)
}
