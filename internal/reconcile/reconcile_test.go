package reconcile

import (
	"testing"

	"github.com/ralt/pypi-mirror/internal/models"
)

func artifact(path, name string, trusted bool) models.Artifact {
	md := models.NewMetadata(name, "1.0", "")
	md.Trusted = trusted
	return models.Artifact{Path: path, Metadata: md}
}

func TestGroupPropagatesTrustedName(t *testing.T) {
	a := artifact("Foo-1.0-py3-none-any.whl", "Foo", true)
	b := artifact("foo_bar-1.0.tar.gz", "foo", false)
	b.Metadata.Name = "foo_bar"

	Group([]*models.Artifact{&a, &b})

	if a.Metadata.Name != "Foo" || b.Metadata.Name != "Foo" {
		t.Errorf("Expected both named Foo, got %q and %q", a.Metadata.Name, b.Metadata.Name)
	}
	if !a.Metadata.Trusted || b.Metadata.Trusted {
		t.Errorf("Reconciliation must not change trust flags")
	}
}

func TestGroupWithoutTrustedIsNoop(t *testing.T) {
	a := artifact("foo-1.0.tar.gz", "foo", false)
	b := artifact("FOO-2.0.tar.gz", "FOO", false)

	Group([]*models.Artifact{&a, &b})

	if a.Metadata.Name != "foo" || b.Metadata.Name != "FOO" {
		t.Errorf("Untrusted-only group must be left untouched, got %q and %q", a.Metadata.Name, b.Metadata.Name)
	}
}

func TestGroupFirstTrustedWins(t *testing.T) {
	a := artifact("x1", "untrusted", false)
	a.Metadata.Rename("Pkg_Name")
	b := artifact("x2", "Pkg-Name", true)
	c := artifact("x3", "pkg.name", true)

	Group([]*models.Artifact{&a, &b, &c})

	if a.Metadata.Name != "Pkg-Name" {
		t.Errorf("Expected first trusted name Pkg-Name, got %q", a.Metadata.Name)
	}
	if c.Metadata.Name != "pkg.name" {
		t.Errorf("Trusted artifacts keep their names, got %q", c.Metadata.Name)
	}
}

func TestGroupIsIdempotent(t *testing.T) {
	a := artifact("a", "Foo", true)
	b := artifact("b", "foo", false)
	group := []*models.Artifact{&a, &b}

	Group(group)
	first := []models.Metadata{a.Metadata, b.Metadata}
	Group(group)

	if a.Metadata != first[0] || b.Metadata != first[1] {
		t.Errorf("Second reconciliation changed metadata: %+v %+v", a.Metadata, b.Metadata)
	}
}

func TestAllGroupsByNormName(t *testing.T) {
	artifacts := []models.Artifact{
		artifact("zope.interface-5.0.tar.gz", "zope.interface", false),
		artifact("Django-4.2.tar.gz", "Django", true),
		artifact("zope_interface-5.0-cp311.whl", "zope.interface", true),
		artifact("django-4.1.tar.gz", "django", false),
	}
	artifacts[2].Metadata.Rename("Zope.Interface")

	All(artifacts)

	want := []string{"Zope.Interface", "Django", "Zope.Interface", "Django"}
	for i, a := range artifacts {
		if a.Metadata.Name != want[i] {
			t.Errorf("%s: expected %q, got %q", a.Path, want[i], a.Metadata.Name)
		}
	}

	groups := ByNormName(artifacts)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0][0].Metadata.NormName != "django" || groups[1][0].Metadata.NormName != "zope-interface" {
		t.Errorf("Groups not ordered by normalized name")
	}
}
