package httpapi

import (
	"bytes"
	"html/template"

	"github.com/1broseidon/desktopmcp/internal/mcp"
)

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - Swagger UI</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.ui = SwaggerUIBundle({
  url: {{.SpecURL}},
  dom_id: "#swagger-ui",
  deepLinking: true,
  presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
  layout: "BaseLayout"
});
</script>
</body>
</html>
`))

func renderDocs(specURL string) ([]byte, error) {
	var buf bytes.Buffer
	err := docsTemplate.Execute(&buf, struct {
		Title   string
		SpecURL string
	}{
		Title:   mcp.ServerName,
		SpecURL: specURL,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
