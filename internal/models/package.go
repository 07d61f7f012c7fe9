package models

import (
	"regexp"
	"strings"
)

var separatorRun = regexp.MustCompile(`[-_.]+`)

// Normalize returns the grouping key of a package name: lower-cased, with
// every run of '-', '_' and '.' collapsed to a single '-'.
func Normalize(name string) string {
	return strings.ToLower(separatorRun.ReplaceAllString(name, "-"))
}

// Metadata is the identity extracted from a distribution archive.
// The JSON form is the sidecar cache record.
type Metadata struct {
	Name     string `json:"name"`
	NormName string `json:"norm_name"`
	Version  string `json:"version"`
	Homepage string `json:"homepage"`

	// Trusted is false when Name was inferred from the file name or the
	// homepage rather than read from in-archive metadata.
	Trusted bool   `json:"trusted"`
	SHA256  string `json:"sha256"`
}

// NewMetadata returns trusted metadata with NormName derived from name.
func NewMetadata(name, version, homepage string) Metadata {
	return Metadata{
		Name:     name,
		NormName: Normalize(name),
		Version:  version,
		Homepage: homepage,
		Trusted:  true,
	}
}

// Rename sets Name and keeps NormName consistent with it.
func (m *Metadata) Rename(name string) {
	m.Name = name
	m.NormName = Normalize(name)
}

// Artifact is one downloaded distribution file and its metadata
type Artifact struct {
	Path     string
	Metadata Metadata
}
