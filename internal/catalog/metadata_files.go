package catalog

import (
	"context"

	"github.com/ralt/pypi-mirror/internal/cache"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/sirupsen/logrus"
)

// WriteMetadataFiles creates the cache record of every artifact in dir that
// has none yet, after reconciling names across the whole directory. With
// overwrite all existing records are removed first.
func (c *Catalog) WriteMetadataFiles(ctx context.Context, dir string, overwrite bool) error {
	if overwrite {
		removed, err := cache.Purge(dir)
		if err != nil {
			return models.NewError(models.ErrFileOp, dir, err)
		}
		logrus.Infof("Removed %d metadata files from %s", removed, dir)
	}

	artifacts, err := c.Load(ctx, dir, true)
	if err != nil {
		return err
	}

	written := 0
	for _, a := range artifacts {
		ok, err := cache.Store(a.Path, a.Metadata)
		if err != nil {
			return models.NewError(models.ErrFileOp, cache.Path(a.Path), err)
		}
		if ok {
			logrus.Debugf("Wrote %s", cache.Path(a.Path))
			written++
		}
	}

	logrus.Infof("Wrote %d metadata files in %s", written, dir)
	return nil
}
