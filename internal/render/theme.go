package render

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/templatemap"
)

// Theme renders the Markdown body of a page.
type Theme interface {
	Render(Page) (string, error)
}

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// DefaultTheme renders plain Markdown: a heading, the member index with
// relative links and a section per inline member.
type DefaultTheme struct {
	templates *template.Template
}

// NewDefaultTheme parses the embedded templates.
func NewDefaultTheme() (*DefaultTheme, error) {
	t, err := template.New("reflectmd").Funcs(template.FuncMap{
		"anchorTag": func(p Page, anchor string) string {
			if !p.Options.UseHTMLAnchors || anchor == "" {
				return ""
			}
			return `<a id="` + anchor + `"></a>` + "\n\n"
		},
		"trim": strings.TrimSpace,
	}).ParseFS(templateFS, "templates/*.md.tmpl")
	if err != nil {
		return nil, ferrors.InternalError("parse theme templates").WithCause(err).Build()
	}
	return &DefaultTheme{templates: t}, nil
}

// Render executes the template named after the page's template kind.
func (d *DefaultTheme) Render(p Page) (string, error) {
	name := templateFile(p.Template)
	var buf bytes.Buffer
	if err := d.templates.ExecuteTemplate(&buf, name, p); err != nil {
		return "", ferrors.RenderError("execute template").WithCause(err).
			WithContext("template", name).WithContext("url", p.URL).Build()
	}
	return buf.String(), nil
}

func templateFile(t templatemap.Template) string {
	switch t {
	case templatemap.TemplateReadme, templatemap.TemplateDocument:
		return "text.md.tmpl"
	default:
		return "index.md.tmpl"
	}
}
