package schema

import (
	"embed"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tpl
var dumptpl embed.FS

type TemplateName string

const (
	DumpGrapthTemplate TemplateName = "graph.puml.tpl"
	DumpTablesTemplate TemplateName = "tables.txt.tpl"
)

// Dump renders the graph with one of the embedded templates.
func (g *Graph) Dump(w io.Writer, tplName TemplateName) error {
	switch tplName {
	case DumpGrapthTemplate, DumpTablesTemplate:
	default:
		return fmt.Errorf("undefined template name: %s", tplName)
	}

	data := struct {
		Tables []*Table
	}{
		Tables: g.OrderedTables(),
	}
	return dump(w, tplName, data)
}

func dump(w io.Writer, tplName TemplateName, data any) error {
	t := template.New("").Funcs(sprig.TxtFuncMap())
	tpl, err := t.ParseFS(dumptpl, "templates/*.tpl")
	if err != nil {
		return err
	}

	return tpl.ExecuteTemplate(w, string(tplName), data)
}
