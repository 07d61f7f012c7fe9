package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/pypi-mirror/internal/cache"
	"github.com/ralt/pypi-mirror/internal/catalog"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/utils"
	"github.com/ralt/pypi-mirror/internal/version"
	"github.com/sirupsen/logrus"
)

// SelectForRemoval splits the artifacts of one package. With only set,
// artifacts of that version are removed. With keepLatest >= 0, artifacts
// of all but the newest keepLatest versions are removed. Otherwise every
// artifact is removed.
func SelectForRemoval(group []models.Artifact, only string, keepLatest int) (remove, keep []models.Artifact) {
	switch {
	case only != "":
		for _, a := range group {
			if a.Metadata.Version == only {
				remove = append(remove, a)
			} else {
				keep = append(keep, a)
			}
		}

	case keepLatest >= 0:
		var versions []string
		for _, a := range group {
			versions = append(versions, a.Metadata.Version)
		}
		newest := version.Unique(versions)
		if keepLatest < len(newest) {
			newest = newest[:keepLatest]
		}
		latest := make(map[string]bool, len(newest))
		for _, v := range newest {
			latest[v] = true
		}
		for _, a := range group {
			if latest[a.Metadata.Version] {
				keep = append(keep, a)
			} else {
				remove = append(remove, a)
			}
		}

	default:
		remove = append(remove, group...)
	}

	return remove, keep
}

// RemoveArtifact deletes an artifact, its cache record and its mirror
// entry. The package directory of the mirror is removed once it holds
// nothing but generated pages. Missing files are ignored.
func RemoveArtifact(a models.Artifact, mirrorDir string) error {
	if mirrorDir != "" {
		pkgDir := filepath.Join(mirrorDir, a.Metadata.NormName)
		entry := filepath.Join(pkgDir, filepath.Base(a.Path))
		if err := utils.RemoveIfExists(entry); err != nil {
			return models.NewError(models.ErrFileOp, entry, err)
		}

		if err := removeIfOnlyPages(pkgDir); err != nil {
			return models.NewError(models.ErrFileOp, pkgDir, err)
		}
	}

	if err := utils.RemoveIfExists(cache.Path(a.Path)); err != nil {
		return models.NewError(models.ErrFileOp, cache.Path(a.Path), err)
	}
	if err := utils.RemoveIfExists(a.Path); err != nil {
		return models.NewError(models.ErrFileOp, a.Path, err)
	}

	logrus.Debugf("Removed %s", a.Path)
	return nil
}

func removeIfOnlyPages(pkgDir string) error {
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if e.Name() != indexPage && e.Name() != signatureFile {
			return nil
		}
	}

	logrus.Debugf("Removing empty package directory %s", pkgDir)
	return os.RemoveAll(pkgDir)
}

// Prune removes the artifacts of the package named by del.Package and
// rebuilds the mirror from what remains, unless told not to. It returns
// the selected artifacts, which are left in place on a dry run.
func (b *Builder) Prune(ctx context.Context, cfg *models.MirrorConfig, del *models.DeleteConfig, artifacts []models.Artifact) ([]models.Artifact, error) {
	var remaining, removed []models.Artifact
	found := false

	for _, g := range catalog.GroupByName(artifacts) {
		if g.Name != del.Package {
			remaining = append(remaining, g.Artifacts...)
			continue
		}
		found = true

		remove, keep := SelectForRemoval(g.Artifacts, del.Version, del.KeepLatest)
		remaining = append(remaining, keep...)
		removed = append(removed, remove...)
	}

	if !found {
		logrus.Warnf("No package named %s in %s", del.Package, cfg.DownloadDir)
		return nil, nil
	}

	if del.DryRun {
		return removed, nil
	}

	for _, a := range removed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := RemoveArtifact(a, cfg.MirrorDir); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", a.Path, err)
		}
	}

	if len(removed) > 0 && !del.NoMirrorUpdate {
		if err := b.Generate(ctx, cfg, remaining); err != nil {
			return removed, err
		}
	}

	return removed, nil
}
