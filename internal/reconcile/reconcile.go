// Package reconcile unifies the display name of artifacts that share a
// normalized name.
package reconcile

import (
	"sort"

	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/sirupsen/logrus"
)

// Group assigns the name of the first trusted artifact to every untrusted
// artifact of group, in place. A group without any trusted artifact is left
// untouched. Group is idempotent.
//
// Trusted artifacts that disagree on spelling keep their own names; which
// one wins for the untrusted artifacts depends on the order of group, so
// callers pass groups in a stable order.
func Group(group []*models.Artifact) {
	var canonical *models.Artifact
	for _, a := range group {
		if !a.Metadata.Trusted {
			continue
		}
		if canonical == nil {
			canonical = a
			continue
		}
		if a.Metadata.Name != canonical.Metadata.Name {
			logrus.Warnf("Conflicting trusted names for %s: %q (%s) and %q (%s), using %q",
				canonical.Metadata.NormName, canonical.Metadata.Name, canonical.Path,
				a.Metadata.Name, a.Path, canonical.Metadata.Name)
		}
	}

	if canonical == nil {
		return
	}

	for _, a := range group {
		if !a.Metadata.Trusted {
			a.Metadata.Rename(canonical.Metadata.Name)
		}
	}
}

// ByNormName splits artifacts into groups sharing a normalized name.
// Groups are ordered by normalized name and keep the relative order of
// artifacts.
func ByNormName(artifacts []models.Artifact) [][]*models.Artifact {
	index := make(map[string]int)
	var groups [][]*models.Artifact

	for i := range artifacts {
		a := &artifacts[i]
		pos, ok := index[a.Metadata.NormName]
		if !ok {
			pos = len(groups)
			index[a.Metadata.NormName] = pos
			groups = append(groups, nil)
		}
		groups[pos] = append(groups[pos], a)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i][0].Metadata.NormName < groups[j][0].Metadata.NormName
	})

	return groups
}

// All reconciles every normalized-name group of artifacts in place
func All(artifacts []models.Artifact) {
	for _, group := range ByNormName(artifacts) {
		Group(group)
	}
}
