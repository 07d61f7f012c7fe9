package mirror

import (
	"bytes"
	"html/template"
	"path/filepath"

	"github.com/ralt/pypi-mirror/internal/models"
)

const (
	indexPage     = "index.html"
	signatureFile = "index.html.asc"
	publicKeyFile = "pubkey.asc"
)

var rootTemplate = template.Must(template.New("root").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>Simple index</title>
  </head>
  <body>
{{- range .}}
    <a href="{{.NormName}}/index.html">{{.Name}}</a>
{{- end}}
  </body>
</html>
`))

var packageTemplate = template.Must(template.New("package").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>Links for {{.Name}}</title>
  </head>
  <body>
    <h1>Links for {{.Name}}</h1>
{{- range .Files}}
    <a href="{{.Filename}}#sha256={{.SHA256}}">{{.Filename}}</a><br/>
{{- end}}
  </body>
</html>
`))

// PackageLink is one entry of the root page
type PackageLink struct {
	NormName string
	Name     string
}

type fileLink struct {
	Filename string
	SHA256   string
}

// RenderRootPage renders the page listing every package directory
func RenderRootPage(links []PackageLink) ([]byte, error) {
	var buf bytes.Buffer
	if err := rootTemplate.Execute(&buf, links); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPackagePage renders the page of one package. The title uses the
// display name of the first artifact.
func RenderPackagePage(group []*models.Artifact) ([]byte, error) {
	data := struct {
		Name  string
		Files []fileLink
	}{}

	if len(group) > 0 {
		data.Name = group[0].Metadata.Name
	}
	for _, a := range group {
		data.Files = append(data.Files, fileLink{
			Filename: filepath.Base(a.Path),
			SHA256:   a.Metadata.SHA256,
		})
	}

	var buf bytes.Buffer
	if err := packageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
