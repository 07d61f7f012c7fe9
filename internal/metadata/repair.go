package metadata

import (
	"net/url"
	"strings"

	"github.com/ralt/pypi-mirror/internal/models"
)

// RepairName decides the display name of a wheel from the name declared in
// its METADATA and the wheel file name.
//
// When filename starts with declared, the declared name is trusted as is.
// Otherwise the name is untrusted: wheel file names escape separators and
// may differ in case from the declared name. The last path segment of the
// homepage URL is then adopted if filename starts with it, which is often
// the spelling the project is known by. The slug is only adopted when it
// normalizes to the same name as declared, so the wheel stays in the
// project it declares. This is best effort.
func RepairName(declared, homepage, filename string) (string, bool) {
	if strings.HasPrefix(filename, declared) {
		return declared, true
	}

	u, err := url.Parse(homepage)
	if err != nil {
		return declared, false
	}

	p := u.Path
	if !strings.HasPrefix(p, "/") {
		return declared, false
	}
	p = strings.TrimSuffix(p, "/")
	slug := p[strings.LastIndex(p, "/")+1:]
	if slug != "" && strings.HasPrefix(filename, slug) &&
		models.Normalize(slug) == models.Normalize(declared) {
		return slug, false
	}

	return declared, false
}
