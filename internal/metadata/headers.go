package metadata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ralt/pypi-mirror/internal/models"
)

// Core metadata fields are single-line "Key: value" headers. The first
// match wins; continuation lines are not supported.
var (
	nameField     = regexp.MustCompile(`(?m)^Name: (.*)$`)
	versionField  = regexp.MustCompile(`(?m)^Version: (.*)$`)
	homepageField = regexp.MustCompile(`(?m)^(?:Home-[pP]age:|Project-URL: [Hh]ome-?[pP]age,) (.*)$`)
)

// ParseHeaders parses a METADATA or PKG-INFO file. Name and Version are
// mandatory, the homepage is optional.
func ParseHeaders(data []byte) (models.Metadata, error) {
	name, ok := field(nameField, data)
	if !ok {
		return models.Metadata{}, fmt.Errorf("invalid metadata file, missing 'Name' field")
	}

	version, ok := field(versionField, data)
	if !ok {
		return models.Metadata{}, fmt.Errorf("invalid metadata file, missing 'Version' field")
	}

	homepage, _ := field(homepageField, data)

	return models.NewMetadata(name, version, homepage), nil
}

func field(re *regexp.Regexp, data []byte) (string, bool) {
	m := re.FindSubmatch(data)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(string(m[1])), true
}
