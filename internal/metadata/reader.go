// Package metadata recovers package identity from distribution archives:
// wheels, zip source archives and gzip or bzip2 compressed tarballs.
package metadata

import (
	"errors"
	"fmt"

	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/scanner"
	"github.com/ralt/pypi-mirror/internal/utils"
)

var errMemberNotFound = errors.New("archive member not found")

// Extract reads the metadata of the distribution file at path, dispatching
// on its extension, and attaches the SHA-256 of the whole file.
// Failures are ErrExtraction errors naming path.
func Extract(path string) (models.Metadata, error) {
	var md models.Metadata
	var err error

	switch kind := scanner.DetectKind(path); kind {
	case scanner.KindWheel:
		md, err = extractWheel(path)
	case scanner.KindZip, scanner.KindTarGz, scanner.KindTarBz2:
		md, err = extractSdist(path, kind)
	default:
		err = fmt.Errorf("unknown extension")
	}
	if err != nil {
		return models.Metadata{}, models.NewError(models.ErrExtraction, path, err)
	}

	sum, err := utils.CalculateChecksum(path)
	if err != nil {
		return models.Metadata{}, models.NewError(models.ErrExtraction, path, fmt.Errorf("failed to calculate checksum: %w", err))
	}
	md.SHA256 = sum.SHA256

	return md, nil
}
