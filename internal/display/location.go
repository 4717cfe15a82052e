package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pixil98/go-realm/internal/world"
)

// LocationView is everything a player sees when looking around.
type LocationView struct {
	Location *world.Location
	Others   []string
	Exits    []*world.Location
}

var templateFuncs = func() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["fill"] = Wrap
	funcs["label"] = func(v any) string { return Label(fmt.Sprint(v)) }
	return funcs
}()

const locationSource = `**{{ .Location.Name }}**

{{ .Location.Description | default "There is nothing remarkable here." | fill }}
{{- with .Location.NPCs }}

**Characters Present:**
{{- range . }}
• **{{ .Name }}** - {{ .Description | trim }}
{{- end }}
{{- end }}
{{- with .Others }}

**Other Adventurers Here:**
{{- range . }}
• {{ . }}
{{- end }}
{{- end }}
{{- with .Exits }}

**Exits:**
{{- range . }}
• **{{ .Name }}** ({{ label .Type }})
{{- end }}
{{- end }}
`

var locationTemplate = template.Must(template.New("location").Funcs(templateFuncs).Parse(locationSource))

// RenderLocation describes a location, its NPCs, the other players there
// and the ways out.
func RenderLocation(v LocationView) (string, error) {
	if v.Location == nil {
		return "", fmt.Errorf("no location to render")
	}

	var buf bytes.Buffer
	if err := locationTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// ExpandTemplate expands a template string using the provided data.
// The data can be any struct - templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}
