package metadata

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/ralt/pypi-mirror/internal/models"
)

// extractWheel reads <name>-<version>.dist-info/METADATA from a wheel.
// The dist-info prefix is the first two '-' separated fields of the wheel
// file name, which never contain a literal '-' themselves.
func extractWheel(archivePath string) (models.Metadata, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return models.Metadata{}, err
	}
	defer r.Close()

	whlName := filepath.Base(archivePath)
	fields := strings.SplitN(whlName, "-", 3)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	member := path.Join(strings.Join(fields, "-")+".dist-info", "METADATA")

	data, err := readZipMember(&r.Reader, member)
	if err == errMemberNotFound {
		return models.Metadata{}, fmt.Errorf("metadata file not found")
	}
	if err != nil {
		return models.Metadata{}, err
	}

	md, err := ParseHeaders(data)
	if err != nil {
		return models.Metadata{}, err
	}

	name, trusted := RepairName(md.Name, md.Homepage, whlName)
	md.Rename(name)
	md.Trusted = trusted

	return md, nil
}

// readZipMember returns the content of the member called name
func readZipMember(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name != name {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		return io.ReadAll(rc)
	}

	return nil, errMemberNotFound
}
