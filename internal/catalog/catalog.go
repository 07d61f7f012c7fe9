// Package catalog lists the artifacts of a download directory with their
// metadata, taken from sidecar cache records when valid and extracted from
// the archives otherwise.
package catalog

import (
	"context"
	"fmt"

	"github.com/ralt/pypi-mirror/internal/cache"
	"github.com/ralt/pypi-mirror/internal/metadata"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/reconcile"
	"github.com/ralt/pypi-mirror/internal/scanner"
	"github.com/ralt/pypi-mirror/internal/utils"
	"github.com/sirupsen/logrus"
)

// ExtractFunc reads the metadata of one archive
type ExtractFunc func(path string) (models.Metadata, error)

// Catalog resolves artifacts of download directories
type Catalog struct {
	scanner scanner.Scanner
	extract ExtractFunc
}

// New creates a catalog backed by the filesystem scanner and archive reader
func New() *Catalog {
	return &Catalog{
		scanner: scanner.NewFileSystemScanner(),
		extract: metadata.Extract,
	}
}

// NewWithExtractor creates a catalog using a custom extraction function
func NewWithExtractor(extract ExtractFunc) *Catalog {
	return &Catalog{
		scanner: scanner.NewFileSystemScanner(),
		extract: extract,
	}
}

// Load lists the artifacts of dir ordered by path. With fixNames the names
// are reconciled across each normalized-name group. The first artifact
// whose metadata cannot be read aborts the listing.
func (c *Catalog) Load(ctx context.Context, dir string, fixNames bool) ([]models.Artifact, error) {
	files, err := c.scanner.Scan(ctx, dir)
	if err != nil {
		return nil, models.NewError(models.ErrFileOp, dir, err)
	}

	artifacts := make([]models.Artifact, 0, len(files))
	for _, f := range files {
		logrus.Debugf("Reading %s (%s, %d bytes)", f.Path, f.Kind, f.Size)
		md, err := c.Resolve(f.Path)
		if err != nil {
			return nil, fmt.Errorf("error while processing %q: %w", f.Path, err)
		}
		artifacts = append(artifacts, models.Artifact{Path: f.Path, Metadata: md})
	}

	if fixNames {
		reconcile.All(artifacts)
	}

	logrus.Debugf("Loaded %d artifacts from %s", len(artifacts), dir)
	return artifacts, nil
}

// Resolve returns the metadata of one artifact. A cache record is used when
// its hash still matches the file; otherwise the archive is read. A stale
// record is removed so that write-metadata recreates it.
func (c *Catalog) Resolve(path string) (models.Metadata, error) {
	if md, ok := cache.Load(path); ok {
		sum, err := utils.CalculateChecksum(path)
		if err != nil {
			return models.Metadata{}, models.NewError(models.ErrExtraction, path, fmt.Errorf("failed to calculate checksum: %w", err))
		}
		if md.SHA256 == sum.SHA256 {
			return md, nil
		}
		logrus.Warnf("Cached metadata of %s is stale, removing it and re-reading archive", path)
		if err := utils.RemoveIfExists(cache.Path(path)); err != nil {
			return models.Metadata{}, models.NewError(models.ErrFileOp, path, err)
		}
	}

	return c.extract(path)
}
