package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/41243144/system-question-bank/internal/errors"
	"github.com/41243144/system-question-bank/internal/questionbank"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Debug(http.StatusText(status), "method", method, "uri", uri)
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound)
}

// serviceError maps the service sentinels to HTTP status codes for the HTML
// pages. Unknown chapters get 404, bad filter or sort options 400, and
// everything else, including an unavailable store, 500.
func (app *application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, questionbank.ErrNotFound):
		app.notFound(w, r)
	case errors.Is(err, questionbank.ErrInvalidArgument):
		app.clientError(w, r, http.StatusBadRequest)
	default:
		app.serverError(w, r, err)
	}
}

func (app *application) renderJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode JSON response", errors.SlogError(err))
	}
}

// apiError writes the service error as a stable JSON shape so API clients
// can distinguish outcomes without parsing messages.
func (app *application) apiError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, questionbank.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, questionbank.ErrInvalidArgument):
		status = http.StatusBadRequest
	default:
		app.logger.LogAttrs(r.Context(), slog.LevelError, "api error",
			slog.String("uri", r.URL.RequestURI()), errors.SlogError(err))
	}
	app.renderJSON(w, r, status, map[string]string{"error": http.StatusText(status)})
}
