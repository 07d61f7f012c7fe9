package catalog

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/ralt/pypi-mirror/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NamedGroup holds the artifacts listed under one display name
type NamedGroup struct {
	Name      string
	Artifacts []models.Artifact
}

// Versions returns the version of every artifact of the group
func (g NamedGroup) Versions() []string {
	versions := make([]string, 0, len(g.Artifacts))
	for _, a := range g.Artifacts {
		versions = append(versions, a.Metadata.Version)
	}
	return versions
}

// GroupByName groups artifacts by display name, ordered by the collation
// of the user's locale, or by byte order in the C locale. Artifacts keep
// their relative order.
func GroupByName(artifacts []models.Artifact) []NamedGroup {
	index := make(map[string]int)
	var groups []NamedGroup

	for _, a := range artifacts {
		pos, ok := index[a.Metadata.Name]
		if !ok {
			pos = len(groups)
			index[a.Metadata.Name] = pos
			groups = append(groups, NamedGroup{Name: a.Metadata.Name})
		}
		groups[pos].Artifacts = append(groups[pos].Artifacts, a)
	}

	tag, ok := userLanguage()
	if !ok {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Name < groups[j].Name
		})
		return groups
	}

	col := collate.New(tag)
	sort.SliceStable(groups, func(i, j int) bool {
		if c := col.CompareString(groups[i].Name, groups[j].Name); c != 0 {
			return c < 0
		}
		return groups[i].Name < groups[j].Name
	})

	return groups
}

// PackageNames lists the display names of the packages in dir
func (c *Catalog) PackageNames(ctx context.Context, dir string) ([]string, error) {
	artifacts, err := c.Load(ctx, dir, true)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, g := range GroupByName(artifacts) {
		names = append(names, g.Name)
	}
	return names, nil
}

// userLanguage derives the collation language from the POSIX locale
// environment, e.g. "de_DE.UTF-8" gives German. It reports false for the
// C and POSIX locales, which is also the default when nothing is set.
func userLanguage() (language.Tag, bool) {
	for _, env := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return language.Und, false
		}
		if tag, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
			return tag, true
		}
	}
	return language.Und, false
}
