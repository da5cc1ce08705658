package main

import (
	"io/fs"
	"net/http"

	"github.com/justinas/alice"

	"github.com/41243144/system-question-bank/ui"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(ui.Files, "static")
	if err != nil {
		// The static directory is embedded at compile time.
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static",
		cacheForeverHeaders(http.FileServerFS(static))))

	mux.HandleFunc("GET /{$}", app.home)
	mux.HandleFunc("GET /chapter/{chapter}", app.viewChapter)
	mux.HandleFunc("GET /all", app.viewAll)
	mux.HandleFunc("GET /search", app.search)

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.HandleFunc("GET /api/chapters", app.apiChapters)
	mux.HandleFunc("GET /api/chapter/{chapter}", app.apiChapter)
	mux.HandleFunc("GET /api/questions", app.apiQuestions)
	mux.HandleFunc("GET /api/search", app.apiSearch)
	mux.HandleFunc("GET /api/stats", app.apiStats)

	standard := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	return standard.Then(mux)
}
