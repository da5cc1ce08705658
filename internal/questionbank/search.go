package questionbank

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/41243144/system-question-bank/internal/models"
	"github.com/41243144/system-question-bank/internal/normalize"
	"github.com/41243144/system-question-bank/internal/repositories"
)

// SuggestionLimit caps the related suggestions returned for searches with no
// direct matches.
const SuggestionLimit = 5

// suggestionWordRunes is the minimum length of a query word considered for
// the shared-word suggestion ranking.
const suggestionWordRunes = 2

// Search matches the query against chapter codes and normalized question
// text. A blank query returns an empty result without touching the store.
//
// Chapter matches (raw query case-insensitively equal to or contained in the
// chapter code) come before text-only matches, each group by ascending id; a
// question matching both ways appears once, in the chapter group. Text
// matches carry highlight spans into the original text. When nothing
// matches, related suggestions are offered instead.
func (s *Service) Search(ctx context.Context, query string) (SearchResult, error) {
	var result SearchResult

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return result, nil
	}
	normQuery := normalize.String(query)

	questions, err := s.store.Questions(ctx, repositories.ListFilter{})
	if err != nil {
		return result, storeUnavailable(err, "search questions", slog.String("query", trimmed))
	}

	rawLower := strings.ToLower(trimmed)
	var chapterHits, textHits []Hit
	for _, question := range questions {
		highlights := textHighlights(question.Text, normQuery)
		switch {
		case strings.Contains(strings.ToLower(question.Chapter), rawLower):
			chapterHits = append(chapterHits, Hit{Question: question, Highlights: highlights})
		case highlights != nil:
			textHits = append(textHits, Hit{Question: question, Highlights: highlights})
		}
	}

	// The store returns ascending id, so each group is already ordered.
	result.Hits = append(chapterHits, textHits...)
	if len(result.Hits) == 0 {
		result.Suggestions = relatedSuggestions(normQuery, questions)
	}
	return result, nil
}

// textHighlights returns the span of the first occurrence of the normalized
// query in the question text, as offsets into the original text, or nil when
// the text does not match.
func textHighlights(text, normQuery string) []Span {
	if normQuery == "" {
		return nil
	}
	mapped := normalize.NewMapped(text)
	idx := mapped.Index(normQuery)
	if idx < 0 {
		return nil
	}
	start, end, ok := mapped.Span(idx, idx+len(normQuery))
	if !ok {
		return nil
	}
	return []Span{{Start: start, End: end}}
}

// relatedSuggestions ranks chapters and questions sharing at least one query
// word (two runes or longer) by shared-word count, chapters before questions
// on ties, then natural chapter order or ascending id, capped at
// SuggestionLimit.
func relatedSuggestions(normQuery string, questions []models.Question) []Suggestion {
	words := queryWords(normQuery)
	if len(words) == 0 {
		return nil
	}

	type candidate struct {
		suggestion Suggestion
		score      int
	}
	var candidates []candidate

	seenChapters := make(map[string]bool)
	for _, question := range questions {
		if seenChapters[question.Chapter] {
			continue
		}
		seenChapters[question.Chapter] = true
		score := 0
		chapterLower := strings.ToLower(question.Chapter)
		for _, word := range words {
			// A chapter shares a word when the code and the word overlap as
			// substrings in either direction, so "ch20" still suggests ch2.
			if strings.Contains(chapterLower, word) || strings.Contains(word, chapterLower) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, candidate{
				suggestion: Suggestion{
					Kind:    SuggestChapter,
					Chapter: question.Chapter,
					Label:   question.Chapter,
				},
				score: score,
			})
		}
	}

	for _, question := range questions {
		score := 0
		for _, word := range words {
			if strings.Contains(question.NormalizedText, word) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, candidate{
				suggestion: Suggestion{
					Kind:       SuggestQuestion,
					Chapter:    question.Chapter,
					QuestionID: question.ID,
					Label:      suggestionLabel(question.Text),
				},
				score: score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.suggestion.Kind != b.suggestion.Kind {
			return a.suggestion.Kind == SuggestChapter
		}
		if a.suggestion.Kind == SuggestChapter {
			return naturalLess(a.suggestion.Chapter, b.suggestion.Chapter)
		}
		return a.suggestion.QuestionID < b.suggestion.QuestionID
	})

	if len(candidates) > SuggestionLimit {
		candidates = candidates[:SuggestionLimit]
	}
	suggestions := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		suggestions[i] = c.suggestion
	}
	return suggestions
}

// queryWords splits the normalized query into distinct words of at least
// suggestionWordRunes runes.
func queryWords(normQuery string) []string {
	var words []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(normQuery) {
		if utf8.RuneCountInString(word) < suggestionWordRunes || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	return words
}
