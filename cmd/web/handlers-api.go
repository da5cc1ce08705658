package main

import (
	"net/http"

	"github.com/41243144/system-question-bank/internal/models"
	"github.com/41243144/system-question-bank/internal/questionbank"
)

func (app *application) apiChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := app.questions.ListChapters(r.Context())
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.renderJSON(w, r, http.StatusOK, map[string]any{"chapters": chapters})
}

func (app *application) apiChapter(w http.ResponseWriter, r *http.Request) {
	chapter := r.PathValue("chapter")
	questions, err := app.questions.GetChapter(r.Context(), chapter)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.renderJSON(w, r, http.StatusOK, map[string]any{
		"chapter":   chapter,
		"questions": questions,
	})
}

func (app *application) apiQuestions(w http.ResponseWriter, r *http.Request) {
	sortBy, err := questionbank.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		app.apiError(w, r, err)
		return
	}

	questions, err := app.questions.ListAll(r.Context(), questionbank.Filter{
		Chapter: r.URL.Query().Get("chapter"),
		Type:    models.QuestionType(r.URL.Query().Get("type")),
	}, sortBy)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.renderJSON(w, r, http.StatusOK, map[string]any{"questions": questions})
}

func (app *application) apiSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	result, err := app.questions.Search(r.Context(), query)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.renderJSON(w, r, http.StatusOK, map[string]any{
		"query":       query,
		"hits":        result.Hits,
		"suggestions": result.Suggestions,
	})
}

func (app *application) apiStats(w http.ResponseWriter, r *http.Request) {
	stats, err := app.questions.Stats(r.Context())
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.renderJSON(w, r, http.StatusOK, stats)
}
