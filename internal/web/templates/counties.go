// Package templates holds the HTML components served by the registry server.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// CountyRow is one line of the county table.
type CountyRow struct {
	Number int
	Code   int
	Name   string
}

// CountiesPageData is the view model of the county listing.
type CountiesPageData struct {
	Rows     []CountyRow
	LoadID   string
	Source   string
	LoadedAt time.Time
	Records  int
}

// CountiesPage renders the county listing inside the page layout.
func CountiesPage(data CountiesPageData) templ.Component {
	return layout("Counties", countiesTable(data))
}

func countiesTable(data CountiesPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Counties</h1>`)
		fmt.Fprintf(&b, `<p class="meta">%d records from <code>%s</code>, loaded %s (load %s)</p>`,
			data.Records,
			templ.EscapeString(data.Source),
			templ.EscapeString(data.LoadedAt.UTC().Format(time.RFC3339)),
			templ.EscapeString(data.LoadID),
		)
		b.WriteString(`<table><thead><tr><th>No.</th><th>SIRUTA</th><th>Name</th></tr></thead><tbody>`)
		for _, row := range data.Rows {
			fmt.Fprintf(&b, `<tr><td>%d</td><td><a href="/api/entities/%d">%d</a></td><td>%s</td></tr>`,
				row.Number, row.Code, row.Code, templ.EscapeString(row.Name))
		}
		if len(data.Rows) == 0 {
			b.WriteString(`<tr><td colspan="3">No counties in the registry</td></tr>`)
		}
		b.WriteString(`</tbody></table>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="alert" role="alert"><strong>%s</strong> <span>%s</span> <small>Code: %s</small></div>`,
			templ.EscapeString(message), templ.EscapeString(action), templ.EscapeString(code))
		return err
	})
}

// ErrorPage renders ErrorAlert inside the page layout.
func ErrorPage(message, action, code string) templ.Component {
	return layout("Error", ErrorAlert(message, action, code))
}

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="ro"><head><meta charset="utf-8"><title>%s · SIRUTA</title></head><body>`,
			templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
