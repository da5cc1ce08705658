package main

import (
	"net/http"

	"github.com/41243144/system-question-bank/internal/models"
)

type chapterPage struct {
	Chapter   string
	Questions []models.Question
}

func (app *application) viewChapter(w http.ResponseWriter, r *http.Request) {
	chapter := r.PathValue("chapter")
	questions, err := app.questions.GetChapter(r.Context(), chapter)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "chapter", chapterPage{
		Chapter:   chapter,
		Questions: questions,
	})
}
