package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/coinrelay/coinrelay/internal/quota"
	"github.com/coinrelay/coinrelay/internal/routes"
)

// FormatRoutes renders the route table.
func FormatRoutes(format Format, table []routes.Route) (string, error) {
	if format == FormatJSON {
		return marshalIndent(routeRecords(table))
	}

	t := newTable()
	t.AppendHeader(tableRow("Method", "Path", "Upstream", "Parameters"))
	for _, r := range table {
		t.AppendRow(tableRow(r.Method, r.Path, "/"+r.Upstream, paramSummary(r.Params)))
	}
	t.AppendFooter(tableRow("", "", "", fmt.Sprintf("%d routes", len(table))))

	if format == FormatMarkdown {
		return t.RenderMarkdown(), nil
	}
	return t.Render(), nil
}

// FormatQuota renders a quota snapshot.
func FormatQuota(format Format, snap quota.Snapshot) (string, error) {
	if format == FormatJSON {
		return marshalIndent(snap)
	}

	t := newTable()
	t.AppendHeader(tableRow("Field", "Value"))
	t.AppendRows([]table.Row{
		tableRow("count", snap.Count),
		tableRow("limit", snap.Limit),
		tableRow("remaining", snap.Remaining),
		tableRow("window", snap.Window.String()),
		tableRow("reset_at", snap.ResetAt.UTC().Format("2006-01-02T15:04:05Z")),
	})

	if format == FormatMarkdown {
		return t.RenderMarkdown(), nil
	}
	return t.Render(), nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func tableRow(values ...any) table.Row {
	return table.Row(values)
}

// paramSummary lists parameters with "*" for required and "=x" for defaults.
func paramSummary(params []routes.ParamSpec) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		switch {
		case p.Required:
			parts = append(parts, p.Name+"*")
		case p.Default != nil:
			parts = append(parts, fmt.Sprintf("%s=%v", p.Name, p.Default))
		default:
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, ", ")
}
