package render

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultFormat prints a digest the way sha256sum does.
const DefaultFormat = "{{ .Digest }}  {{ .File }}"

// Result is the data a format template sees.
type Result struct {
	Algorithm string
	Digest    string
	File      string
}

type Engine struct {
	funcs template.FuncMap
}

func NewEngine() *Engine {
	fm := sprig.TxtFuncMap()
	fm["short"] = func(n int, s string) string {
		if n < 0 || n >= len(s) {
			return s
		}
		return s[:n]
	}
	return &Engine{funcs: fm}
}

// Compile parses tpl once so that it can be executed for every result.
func (e *Engine) Compile(name, tpl string) (*template.Template, error) {
	if tpl == "" {
		tpl = DefaultFormat
	}
	return template.New(name).Funcs(e.funcs).Parse(tpl)
}

func (e *Engine) RenderString(name, tpl string, data any) (string, error) {
	t, err := e.Compile(name, tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
