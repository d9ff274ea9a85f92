package mirra

import (
	"html/template"
	"net/http"
)

// DocsConfig configures the documentation UI handler.
type DocsConfig struct {
	Title     string
	SchemaURL string // default: "/schema.json"
}

// DocsHandler returns an http.Handler that renders an interactive
// documentation page pointing at the served schema document.
func DocsHandler(cfg DocsConfig) http.Handler {
	if cfg.SchemaURL == "" {
		cfg.SchemaURL = "/schema.json"
	}

	tmpl := template.Must(template.New("docs").Parse(docsHTML))

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort template render
		tmpl.Execute(w, cfg)
	})
}

const docsHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
  <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
</head>
<body>
  <elements-api
    apiDescriptionUrl="{{.SchemaURL}}"
    router="hash"
    layout="sidebar"
  />
</body>
</html>`
