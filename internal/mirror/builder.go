// Package mirror renders the static package index from a set of artifacts
// and removes artifacts from it.
package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/reconcile"
	"github.com/ralt/pypi-mirror/internal/signer"
	"github.com/ralt/pypi-mirror/internal/utils"
	"github.com/sirupsen/logrus"
)

// Builder generates mirror directories
type Builder struct {
	signer signer.Signer
}

// NewBuilder creates a builder. A nil signer leaves pages unsigned.
func NewBuilder(s signer.Signer) *Builder {
	return &Builder{
		signer: s,
	}
}

// Generate rebuilds the mirror at cfg.MirrorDir from artifacts: one
// directory per normalized name holding links (or copies) of the artifacts
// and an index page, plus the root index page. Names are reconciled per
// directory before pages are written.
func (b *Builder) Generate(ctx context.Context, cfg *models.MirrorConfig, artifacts []models.Artifact) error {
	logrus.Infof("Generating mirror in %s...", cfg.MirrorDir)

	artifacts = publishable(artifacts)
	if err := b.ValidateArtifacts(artifacts); err != nil {
		return err
	}

	if err := utils.EnsureDir(cfg.MirrorDir); err != nil {
		return models.NewError(models.ErrFileOp, cfg.MirrorDir, err)
	}

	sorted := make([]models.Artifact, len(artifacts))
	copy(sorted, artifacts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	var links []PackageLink
	for _, group := range reconcile.ByNormName(sorted) {
		if err := ctx.Err(); err != nil {
			return err
		}

		reconcile.Group(group)

		normName := group[0].Metadata.NormName
		if err := b.generatePackage(cfg, filepath.Join(cfg.MirrorDir, normName), group); err != nil {
			return fmt.Errorf("failed to generate %s: %w", normName, err)
		}

		links = append(links, PackageLink{NormName: normName, Name: group[0].Metadata.Name})
	}

	root, err := RenderRootPage(links)
	if err != nil {
		return models.NewError(models.ErrMetadataGen, cfg.MirrorDir, err)
	}
	if err := b.writePage(cfg.MirrorDir, root); err != nil {
		return err
	}

	if b.signer != nil {
		pub, err := b.signer.PublicKey()
		if err != nil {
			return models.NewError(models.ErrSigning, cfg.MirrorDir, fmt.Errorf("failed to export public key: %w", err))
		}
		if err := utils.WriteFile(filepath.Join(cfg.MirrorDir, publicKeyFile), pub, 0644); err != nil {
			return models.NewError(models.ErrFileOp, cfg.MirrorDir, err)
		}
		logrus.Info("Mirror pages signed successfully")
	}

	logrus.Infof("Mirror generated successfully (%d packages, %d files)", len(links), len(artifacts))
	return nil
}

// generatePackage places the artifacts of one group and writes its page
func (b *Builder) generatePackage(cfg *models.MirrorConfig, pkgDir string, group []*models.Artifact) error {
	if err := utils.EnsureDir(pkgDir); err != nil {
		return models.NewError(models.ErrFileOp, pkgDir, err)
	}

	for _, a := range group {
		dst := filepath.Join(pkgDir, filepath.Base(a.Path))
		if err := placeArtifact(a, dst, cfg.Copy); err != nil {
			return models.NewError(models.ErrFileOp, a.Path, err)
		}
	}

	page, err := RenderPackagePage(group)
	if err != nil {
		return models.NewError(models.ErrMetadataGen, pkgDir, err)
	}

	logrus.Debugf("Writing %s (%d files)", filepath.Join(pkgDir, indexPage), len(group))
	return b.writePage(pkgDir, page)
}

// placeArtifact links or copies an artifact to dst. Existing links are
// kept; copies are refreshed only when dst differs from the artifact.
func placeArtifact(a *models.Artifact, dst string, copyFile bool) error {
	if !copyFile {
		created, err := utils.LinkRelative(a.Path, dst)
		if err != nil {
			return fmt.Errorf("failed to link %s: %w", dst, err)
		}
		if !created {
			logrus.Debugf("Keeping existing %s", dst)
		}
		return nil
	}

	needsCopy, isSymlink, err := utils.ShouldCopyFile(a.Path, dst, a.Metadata.SHA256)
	if err != nil {
		return err
	}
	if !needsCopy {
		logrus.Debugf("Skipping %s (unchanged)", dst)
		return nil
	}
	if isSymlink {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("failed to replace symlink %s: %w", dst, err)
		}
	}

	if err := utils.CopyFile(a.Path, dst); err != nil {
		return fmt.Errorf("failed to copy %s: %w", a.Path, err)
	}
	return nil
}

// writePage writes dir/index.html and, with a signer, its detached
// signature. A stale signature of an unsigned rebuild is removed.
func (b *Builder) writePage(dir string, page []byte) error {
	pagePath := filepath.Join(dir, indexPage)
	if err := utils.WriteFile(pagePath, page, 0644); err != nil {
		return models.NewError(models.ErrFileOp, pagePath, err)
	}

	sigPath := filepath.Join(dir, signatureFile)
	if b.signer == nil {
		if err := utils.RemoveIfExists(sigPath); err != nil {
			return models.NewError(models.ErrFileOp, sigPath, err)
		}
		return nil
	}

	sig, err := b.signer.SignDetached(page)
	if err != nil {
		return models.NewError(models.ErrSigning, pagePath, err)
	}
	if err := utils.WriteFile(sigPath, sig, 0644); err != nil {
		return models.NewError(models.ErrFileOp, sigPath, err)
	}
	return nil
}

// publishable drops artifacts without a name, which have no directory
// to live in. An empty version is kept as is.
func publishable(artifacts []models.Artifact) []models.Artifact {
	kept := make([]models.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if a.Metadata.Name == "" {
			logrus.Warnf("Skipping %s: no package name", a.Path)
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// ValidateArtifacts checks that every artifact can be published
func (b *Builder) ValidateArtifacts(artifacts []models.Artifact) error {
	for _, a := range artifacts {
		if a.Metadata.SHA256 == "" {
			return models.NewError(models.ErrMetadataGen, a.Path, fmt.Errorf("artifact %s missing sha256", a.Metadata.Name))
		}
		if a.Metadata.NormName != models.Normalize(a.Metadata.Name) {
			return models.NewError(models.ErrMetadataGen, a.Path, fmt.Errorf("normalized name %q does not match %q", a.Metadata.NormName, a.Metadata.Name))
		}
	}
	return nil
}
