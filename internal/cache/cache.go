// Package cache persists extracted metadata as JSON sidecar records stored
// next to each artifact.
package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/scanner"
	"github.com/sirupsen/logrus"
)

// record mirrors models.Metadata with pointers so missing keys are detectable
type record struct {
	Name     *string `json:"name"`
	NormName *string `json:"norm_name"`
	Version  *string `json:"version"`
	Homepage *string `json:"homepage"`
	Trusted  *bool   `json:"trusted"`
	SHA256   *string `json:"sha256"`
}

// Path returns the sidecar path of an artifact
func Path(artifactPath string) string {
	return artifactPath + scanner.CacheSuffix
}

// Load reads the cached metadata of an artifact. It reports false when the
// record is missing, undecodable, has unknown or missing required keys, or
// breaks the name normalization invariant; the caller then extracts the
// metadata from the archive.
func Load(artifactPath string) (models.Metadata, bool) {
	data, err := os.ReadFile(Path(artifactPath))
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.Debugf("Ignoring unreadable cache record for %s: %v", artifactPath, err)
		}
		return models.Metadata{}, false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rec record
	if err := dec.Decode(&rec); err != nil {
		logrus.Debugf("Ignoring invalid cache record for %s: %v", artifactPath, err)
		return models.Metadata{}, false
	}

	if rec.Name == nil || rec.NormName == nil || rec.Version == nil || rec.Homepage == nil {
		logrus.Debugf("Ignoring incomplete cache record for %s", artifactPath)
		return models.Metadata{}, false
	}

	md := models.Metadata{
		Name:     *rec.Name,
		NormName: *rec.NormName,
		Version:  *rec.Version,
		Homepage: *rec.Homepage,
		Trusted:  true,
	}
	if rec.Trusted != nil {
		md.Trusted = *rec.Trusted
	}
	if rec.SHA256 != nil {
		md.SHA256 = *rec.SHA256
	}

	if md.NormName != models.Normalize(md.Name) {
		logrus.Debugf("Ignoring cache record for %s: %q does not normalize to %q", artifactPath, md.Name, md.NormName)
		return models.Metadata{}, false
	}

	return md, true
}

// Store writes the cache record of an artifact unless one already exists.
// It reports whether a record was written.
func Store(artifactPath string, md models.Metadata) (bool, error) {
	data, err := json.Marshal(md)
	if err != nil {
		return false, fmt.Errorf("failed to encode metadata: %w", err)
	}

	f, err := os.OpenFile(Path(artifactPath), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return false, err
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return false, err
	}

	return true, nil
}

// Purge removes every cache record in dir and returns how many were removed
func Purge(dir string) (int, error) {
	records, err := filepath.Glob(filepath.Join(dir, "*"+scanner.CacheSuffix))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range records {
		if err := os.Remove(rec); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}
		removed++
	}

	return removed, nil
}
