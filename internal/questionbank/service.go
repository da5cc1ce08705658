// Package questionbank is the question retrieval and search layer. It turns
// chapter identifiers, filter/sort requests, and free-text queries into
// deterministic, ordered result sets over a read-only store.
package questionbank

import (
	"context"
	"log/slog"
	"sort"

	"github.com/41243144/system-question-bank/internal/errors"
	"github.com/41243144/system-question-bank/internal/models"
	"github.com/41243144/system-question-bank/internal/repositories"
)

var (
	// ErrNotFound signals an unknown chapter code.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrInvalidArgument signals an unrecognized filter or sort option.
	ErrInvalidArgument = errors.NewSentinel("invalid argument")
	// ErrStoreUnavailable signals an underlying data access failure.
	ErrStoreUnavailable = errors.NewSentinel("store unavailable")
)

// Store is the read contract the service needs from the database layer.
// *repositories.QuestionRepository satisfies it; tests use an in-memory fake.
type Store interface {
	Questions(ctx context.Context, filter repositories.ListFilter) ([]models.Question, error)
	CountByChapter(ctx context.Context) ([]models.ChapterCount, error)
	CountByType(ctx context.Context) (map[models.QuestionType]int, error)
}

// Filter restricts ListAll results. Zero-valued fields mean no restriction;
// both fields combine with AND.
type Filter struct {
	Chapter string
	Type    models.QuestionType
}

// Sort selects the ordering of ListAll results.
type Sort string

const (
	// SortByIDAsc is the default ordering.
	SortByIDAsc      Sort = "id"
	SortByIDDesc     Sort = "id-desc"
	SortByChapterAsc Sort = "chapter"
	SortByTypeAsc    Sort = "type"
)

// ParseSort maps a raw sort parameter to a Sort. The empty string selects
// the default ordering; anything unrecognized fails with ErrInvalidArgument.
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case "":
		return SortByIDAsc, nil
	case SortByIDAsc, SortByIDDesc, SortByChapterAsc, SortByTypeAsc:
		return Sort(s), nil
	default:
		return "", errors.Wrap(ErrInvalidArgument, "unknown sort", slog.String("sort", s))
	}
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With("source", "questionbank.Service"),
	}
}

// ListChapters returns the chapter codes with their question counts in
// natural order, so ch2 sorts before ch10.
func (s *Service) ListChapters(ctx context.Context) ([]models.ChapterCount, error) {
	counts, err := s.store.CountByChapter(ctx)
	if err != nil {
		return nil, storeUnavailable(err, "count chapters")
	}
	sort.Slice(counts, func(i, j int) bool {
		return naturalLess(counts[i].Chapter, counts[j].Chapter)
	})
	return counts, nil
}

// GetChapter returns the questions of one chapter by ascending id, each with
// its answers in position order. An unknown chapter fails with ErrNotFound.
func (s *Service) GetChapter(ctx context.Context, chapter string) ([]models.Question, error) {
	questions, err := s.store.Questions(ctx, repositories.ListFilter{Chapter: chapter})
	if err != nil {
		return nil, storeUnavailable(err, "read chapter", slog.String("chapter", chapter))
	}
	if len(questions) == 0 {
		return nil, errors.Wrap(ErrNotFound, "unknown chapter", slog.String("chapter", chapter))
	}
	return questions, nil
}

// ListAll returns all questions matching the filter in the requested order.
// Unknown filter or sort options fail with ErrInvalidArgument before the
// store is touched.
func (s *Service) ListAll(ctx context.Context, filter Filter, sortBy Sort) ([]models.Question, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, errors.Wrap(ErrInvalidArgument, "unknown question type",
			slog.String("type", string(filter.Type)))
	}
	switch sortBy {
	case "":
		sortBy = SortByIDAsc
	case SortByIDAsc, SortByIDDesc, SortByChapterAsc, SortByTypeAsc:
	default:
		return nil, errors.Wrap(ErrInvalidArgument, "unknown sort", slog.String("sort", string(sortBy)))
	}

	questions, err := s.store.Questions(ctx, repositories.ListFilter{
		Chapter: filter.Chapter,
		Type:    filter.Type,
	})
	if err != nil {
		return nil, storeUnavailable(err, "list questions")
	}

	// The store returns ascending id; the other orderings are stable
	// rearrangements with id as the tiebreak.
	switch sortBy {
	case SortByIDDesc:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].ID > questions[j].ID
		})
	case SortByChapterAsc:
		sort.SliceStable(questions, func(i, j int) bool {
			return naturalLess(questions[i].Chapter, questions[j].Chapter)
		})
	case SortByTypeAsc:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Type < questions[j].Type
		})
	case SortByIDAsc:
	}
	return questions, nil
}

// Stats summarizes the bank. The per-chapter and per-type sums must both
// equal the total; a mismatch means the store changed between reads and is
// reported as an error instead of inconsistent numbers.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats

	chapterCounts, err := s.store.CountByChapter(ctx)
	if err != nil {
		return stats, storeUnavailable(err, "count chapters")
	}
	typeCounts, err := s.store.CountByType(ctx)
	if err != nil {
		return stats, storeUnavailable(err, "count types")
	}

	stats.ByChapter = make(map[string]int, len(chapterCounts))
	for _, c := range chapterCounts {
		stats.ByChapter[c.Chapter] = c.Questions
		stats.TotalQuestions += c.Questions
	}
	stats.TotalChapters = len(chapterCounts)
	stats.ByType = typeCounts

	typeTotal := 0
	for _, n := range typeCounts {
		typeTotal += n
	}
	if typeTotal != stats.TotalQuestions {
		return models.Stats{}, errors.New("inconsistent statistics",
			slog.Int("totalByChapter", stats.TotalQuestions),
			slog.Int("totalByType", typeTotal))
	}
	return stats, nil
}

func storeUnavailable(err error, msg string, attrs ...slog.Attr) error {
	return errors.Wrap(errors.Join(ErrStoreUnavailable, err), msg, attrs...)
}
