package metadata

import "testing"

func TestRepairName(t *testing.T) {
	tests := []struct {
		declared, homepage, filename string
		wantName                     string
		wantTrusted                  bool
	}{
		// File name starts with the declared name
		{"requests", "https://requests.readthedocs.io", "requests-2.31.0-py3-none-any.whl", "requests", true},
		// Slug matches the file name prefix
		{"ruamel-yaml", "https://sourceforge.net/p/ruamel.yaml/", "ruamel.yaml-0.17-py3-none-any.whl", "ruamel.yaml", false},
		// Slug prefixes the file name but names another project
		{"Jinja2", "https://palletsprojects.com/p/jinja/", "jinja2-3.1.4-py3-none-any.whl", "Jinja2", false},
		// Slug does not match
		{"python-dateutil", "https://github.com/dateutil/dateutil", "python_dateutil-2.8.2-py2.py3-none-any.whl", "python-dateutil", false},
		// No homepage
		{"Foo", "", "foo-1.0-py3-none-any.whl", "Foo", false},
		// Homepage without a path
		{"Pillow", "https://python-pillow.org", "pillow-10.0-cp311-cp311-linux_x86_64.whl", "Pillow", false},
		// Root path only
		{"Bar", "https://example.com//", "bar-1.0-py3-none-any.whl", "Bar", false},
	}

	for _, tt := range tests {
		name, trusted := RepairName(tt.declared, tt.homepage, tt.filename)
		if name != tt.wantName || trusted != tt.wantTrusted {
			t.Errorf("RepairName(%q, %q, %q) = (%q, %v), want (%q, %v)",
				tt.declared, tt.homepage, tt.filename, name, trusted, tt.wantName, tt.wantTrusted)
		}
	}
}
