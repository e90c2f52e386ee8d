package view

import (
	"bytes"
	"html/template"
)

// PreviewPageData provides the Open Graph fields for the crawler response.
type PreviewPageData struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Type        string
}

var previewPageTmpl = template.Must(template.New("preview_page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<title>{{.Title}}</title>

	<meta property="og:title" content="{{.Title}}" />
	<meta property="og:description" content="{{.Description}}" />
	<meta property="og:type" content="{{.Type}}" />
	<meta property="og:url" content="{{.URL}}" />
	{{if .ImageURL}}<meta property="og:image" content="{{.ImageURL}}" />{{end}}

	<meta name="twitter:card" content="summary_large_image" />
	<meta name="twitter:title" content="{{.Title}}" />
	<meta name="twitter:description" content="{{.Description}}" />
	{{if .ImageURL}}<meta name="twitter:image" content="{{.ImageURL}}" />{{end}}

	<meta name="description" content="{{.Description}}" />
	<link rel="canonical" href="{{.URL}}" />
</head>
<body>
	<h1>{{.Title}}</h1>
	<p>{{.Description}}</p>
	<p><a href="{{.URL}}">{{.URL}}</a></p>
</body>
</html>
`))

// RenderPreviewPage expands the crawler preview template with the given data.
func RenderPreviewPage(data PreviewPageData) (string, error) {
	if data.Type == "" {
		data.Type = "website"
	}
	var buf bytes.Buffer
	if err := previewPageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
