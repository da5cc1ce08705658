package main

import (
	"net/http"

	"github.com/41243144/system-question-bank/internal/questionbank"
)

type searchSegment struct {
	Text  string
	Match bool
}

type searchHit struct {
	questionbank.Hit
	Segments []searchSegment
}

type searchPage struct {
	Query       string
	Hits        []searchHit
	Suggestions []questionbank.Suggestion
}

func (app *application) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	result, err := app.questions.Search(r.Context(), query)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	hits := make([]searchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, searchHit{
			Hit:      hit,
			Segments: splitHighlights(hit.Text, hit.Highlights),
		})
	}

	app.render(w, r, http.StatusOK, "search", searchPage{
		Query:       query,
		Hits:        hits,
		Suggestions: result.Suggestions,
	})
}

// splitHighlights cuts the question text into alternating plain and
// highlighted segments. Spans are byte offsets into text, already sorted and
// non-overlapping.
func splitHighlights(text string, spans []questionbank.Span) []searchSegment {
	if len(spans) == 0 {
		return []searchSegment{{Text: text}}
	}

	var segments []searchSegment
	pos := 0
	for _, span := range spans {
		if span.Start < pos || span.End > len(text) || span.Start >= span.End {
			continue
		}
		if span.Start > pos {
			segments = append(segments, searchSegment{Text: text[pos:span.Start]})
		}
		segments = append(segments, searchSegment{Text: text[span.Start:span.End], Match: true})
		pos = span.End
	}
	if pos < len(text) {
		segments = append(segments, searchSegment{Text: text[pos:]})
	}
	return segments
}
