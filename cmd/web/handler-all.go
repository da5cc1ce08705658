package main

import (
	"net/http"

	"github.com/41243144/system-question-bank/internal/models"
	"github.com/41243144/system-question-bank/internal/questionbank"
)

type allPage struct {
	Chapter   string
	Type      string
	Sort      string
	Questions []models.Question
}

func (app *application) viewAll(w http.ResponseWriter, r *http.Request) {
	var (
		chapter = r.URL.Query().Get("chapter")
		qType   = r.URL.Query().Get("type")
		rawSort = r.URL.Query().Get("sort")
	)

	sortBy, err := questionbank.ParseSort(rawSort)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	questions, err := app.questions.ListAll(r.Context(), questionbank.Filter{
		Chapter: chapter,
		Type:    models.QuestionType(qType),
	}, sortBy)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "all", allPage{
		Chapter:   chapter,
		Type:      qType,
		Sort:      string(sortBy),
		Questions: questions,
	})
}
