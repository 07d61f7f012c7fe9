package metadata

import (
	"archive/tar"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/scanner"
)

// extractSdist reads <name>-<version>/PKG-INFO from a source archive.
// Source distributions are not guaranteed to embed metadata: without
// PKG-INFO the top-level directory name is split on its last '-' and the
// resulting name is untrusted.
func extractSdist(archivePath string, kind scanner.ArchiveKind) (models.Metadata, error) {
	base := filepath.Base(archivePath)
	idx := strings.Index(base, scanner.SuffixOf(kind))
	if idx < 0 {
		return models.Metadata{}, fmt.Errorf("invalid archive file name")
	}
	prefix := base[:idx]
	member := path.Join(prefix, "PKG-INFO")

	var data []byte
	var err error
	switch kind {
	case scanner.KindZip:
		data, err = readZipArchiveMember(archivePath, member)
	case scanner.KindTarGz, scanner.KindTarBz2:
		data, err = readTarMember(archivePath, kind, member)
	default:
		return models.Metadata{}, fmt.Errorf("unsupported source archive: %s", base)
	}

	if err == errMemberNotFound {
		return metadataFromPrefix(prefix)
	}
	if err != nil {
		return models.Metadata{}, err
	}

	return ParseHeaders(data)
}

// metadataFromPrefix splits "<name>-<version>" on the last '-'
func metadataFromPrefix(prefix string) (models.Metadata, error) {
	i := strings.LastIndex(prefix, "-")
	if i < 0 {
		return models.Metadata{}, fmt.Errorf("unable to extract metadata")
	}

	md := models.NewMetadata(prefix[:i], prefix[i+1:], "")
	md.Trusted = false
	return md, nil
}

func readZipArchiveMember(archivePath, member string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return readZipMember(&r.Reader, member)
}

// readTarMember extracts one regular file from a compressed tarball
func readTarMember(archivePath string, kind scanner.ArchiveKind, member string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tarReader *tar.Reader

	switch kind {
	case scanner.KindTarGz:
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		tarReader = tar.NewReader(gr)
	case scanner.KindTarBz2:
		tarReader = tar.NewReader(bzip2.NewReader(f))
	default:
		return nil, fmt.Errorf("unsupported tarball: %s", filepath.Base(archivePath))
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if strings.TrimPrefix(header.Name, "./") == member {
			return io.ReadAll(tarReader)
		}
	}

	return nil, errMemberNotFound
}
