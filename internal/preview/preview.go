// Package preview renders tables as markdown for the console sections of a
// run.
package preview

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ordersql/pkg/records"
)

// Markdown writes t to w as a markdown table: one header row with the column
// names as given, then one row per record. Cells render with records.Text,
// so nulls show as "nan".
func Markdown(w io.Writer, t records.Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows {
		row := make(table.Row, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = records.Text(r[c])
		}
		tw.AppendRow(row)
	}
	tw.RenderMarkdown()
}
