package synth

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"
)

// Template names rendered by Aggregate.
const (
	ManifestTemplate = "Cargo.toml.tmpl"
	RuntimeTemplate  = "lib.rs.tmpl"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplateEngine renders a named template with the given data.
type TemplateEngine interface {
	Render(name string, data any) ([]byte, error)
}

// TextEngine is a TemplateEngine backed by text/template.
type TextEngine struct {
	tmpl *template.Template
}

// NewTextEngine parses every *.tmpl file in dir. An empty dir selects the
// built-in templates.
func NewTextEngine(dir string) (*TextEngine, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}
	return newTextEngineFS(fsys)
}

func newTextEngineFS(fsys fs.FS) (*TextEngine, error) {
	tmpl, err := template.New("").
		Funcs(template.FuncMap{
			"indent": indent,
		}).
		Option("missingkey=error").
		ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("failed to parse templates: %w", err)}
	}
	return &TextEngine{tmpl: tmpl}, nil
}

// Render executes the named template. No partial output is returned on error.
func (e *TextEngine) Render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, &Error{Err: fmt.Errorf("failed to render %s: %w", name, err)}
	}
	return buf.Bytes(), nil
}

// indent prefixes every non-empty line of s with prefix.
func indent(prefix, s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
