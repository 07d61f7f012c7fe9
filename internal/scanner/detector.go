package scanner

import (
	"path/filepath"
	"strings"
)

// CacheSuffix is appended to an artifact path to name its metadata sidecar
const CacheSuffix = ".metadata.json"

// Extensions maps each recognised file name suffix to its archive kind.
var Extensions = []struct {
	Suffix string
	Kind   ArchiveKind
}{
	{".whl", KindWheel},
	{".zip", KindZip},
	{".tar.gz", KindTarGz},
	{".tar.bz2", KindTarBz2},
}

// DetectKind determines the archive kind from the file name alone
func DetectKind(path string) ArchiveKind {
	base := filepath.Base(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(base, ext.Suffix) {
			return ext.Kind
		}
	}
	return KindUnknown
}

// SuffixOf returns the file name suffix of an archive kind
func SuffixOf(kind ArchiveKind) string {
	for _, ext := range Extensions {
		if ext.Kind == kind {
			return ext.Suffix
		}
	}
	return ""
}

// IsCacheFile reports whether path is a metadata sidecar rather than an artifact
func IsCacheFile(path string) bool {
	return strings.HasSuffix(path, CacheSuffix)
}
