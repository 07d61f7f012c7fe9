package scanner

import "context"

// ArchiveKind represents the container format of a distribution file
type ArchiveKind int

const (
	KindUnknown ArchiveKind = iota
	KindWheel
	KindZip
	KindTarGz
	KindTarBz2
)

// String returns the string representation of ArchiveKind
func (k ArchiveKind) String() string {
	switch k {
	case KindWheel:
		return "wheel"
	case KindZip:
		return "zip"
	case KindTarGz:
		return "tar.gz"
	case KindTarBz2:
		return "tar.bz2"
	default:
		return "unknown"
	}
}

// ScannedFile represents a candidate artifact found in a download directory
type ScannedFile struct {
	Path string
	Kind ArchiveKind
	Size int64
}

// Scanner interface for listing artifacts of a download directory
type Scanner interface {
	// Scan lists the artifacts directly inside dir
	Scan(ctx context.Context, dir string) ([]ScannedFile, error)

	// DetectKind determines the archive kind of a file
	DetectKind(path string) ArchiveKind
}
