package main

import (
	"net/http"

	"github.com/41243144/system-question-bank/internal/models"
)

type homePage struct {
	Stats    models.Stats
	Chapters []models.ChapterCount
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	stats, err := app.questions.Stats(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	chapters, err := app.questions.ListChapters(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "home", homePage{
		Stats:    stats,
		Chapters: chapters,
	})
}
