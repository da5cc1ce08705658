package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/41243144/system-question-bank/internal/errors"
	"github.com/41243144/system-question-bank/ui"
)

// pageTemplate returns the template for the given page name.
//
// pageName corresponds to a file inside the embedded ui/templates/pages
// folder. It has to define templates named "title" and "page".
func pageTemplate(pageName string) (*template.Template, error) {
	t, err := template.New(pageName).ParseFS(ui.Files,
		"templates/base.gohtml",
		fmt.Sprintf("templates/pages/%s.gohtml", pageName))
	if err != nil {
		return nil, errors.Wrap(err, "parse page template", slog.String("page", pageName))
	}
	return t, nil
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, pageName string, data any) {
	t, err := pageTemplate(pageName)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// Render to a buffer first so a template failure can still become a
	// clean error response.
	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, "base", data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("page", pageName)))
		return
	}

	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
