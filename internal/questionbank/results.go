package questionbank

import (
	"unicode/utf8"

	"github.com/41243144/system-question-bank/internal/models"
)

// Span is a byte-offset range into a question's original text marking a
// search match for presentation emphasis.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Hit is one search result: the question with the highlight spans of the
// query match in its original text. Chapter-code matches carry no spans
// unless the text matches too.
type Hit struct {
	models.Question
	Highlights []Span `json:"highlights,omitempty"`
}

// SuggestionKind tells whether a suggestion points at a chapter or a single
// question.
type SuggestionKind string

const (
	SuggestChapter  SuggestionKind = "chapter"
	SuggestQuestion SuggestionKind = "question"
)

// Suggestion is a fallback recommendation offered when a search yields no
// direct matches.
type Suggestion struct {
	Kind       SuggestionKind `json:"kind"`
	Chapter    string         `json:"chapter"`
	QuestionID int64          `json:"questionId,omitempty"`
	Label      string         `json:"label"`
}

// SearchResult is the shaped output of Search: the ordered hits plus, when
// there are none, up to SuggestionLimit related suggestions.
type SearchResult struct {
	Hits        []Hit        `json:"hits"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// suggestionLabelRunes caps suggestion labels so list rendering stays short.
const suggestionLabelRunes = 60

func suggestionLabel(text string) string {
	if utf8.RuneCountInString(text) <= suggestionLabelRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:suggestionLabelRunes]) + "…"
}
