package questionbank_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/41243144/system-question-bank/internal/models"
	"github.com/41243144/system-question-bank/internal/normalize"
	"github.com/41243144/system-question-bank/internal/questionbank"
	"github.com/41243144/system-question-bank/internal/repositories"
	"github.com/41243144/system-question-bank/internal/testhelpers"
)

// fakeStore implements questionbank.Store in memory, mirroring the read
// contract of the repository: questions by ascending id with answers by
// position, plus grouped counts.
type fakeStore struct {
	questions []models.Question
	err       error
}

func (f *fakeStore) Questions(_ context.Context, filter repositories.ListFilter) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Question
	for _, q := range f.questions {
		if filter.Chapter != "" && q.Chapter != filter.Chapter {
			continue
		}
		if filter.Type != "" && q.Type != filter.Type {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeStore) CountByChapter(context.Context) ([]models.ChapterCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := make(map[string]int)
	var order []string
	for _, q := range f.questions {
		if _, ok := counts[q.Chapter]; !ok {
			order = append(order, q.Chapter)
		}
		counts[q.Chapter]++
	}
	out := make([]models.ChapterCount, 0, len(order))
	for _, chapter := range order {
		out = append(out, models.ChapterCount{Chapter: chapter, Questions: counts[chapter]})
	}
	return out, nil
}

func (f *fakeStore) CountByType(context.Context) (map[models.QuestionType]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := make(map[models.QuestionType]int)
	for _, q := range f.questions {
		counts[q.Type]++
	}
	return counts, nil
}

func testQuestion(id int64, chapter, text string, qtype models.QuestionType, answers ...string) models.Question {
	q := models.Question{
		ID:             id,
		Chapter:        chapter,
		Text:           text,
		NormalizedText: normalize.String(text),
		Type:           qtype,
		SourceFile:     "fixtures.txt",
		CreatedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	for i, text := range answers {
		q.Answers = append(q.Answers, models.Answer{
			ID:         id*10 + int64(i),
			QuestionID: id,
			Position:   i + 1,
			Text:       text,
		})
	}
	return q
}

func newTestService(questions ...models.Question) (*questionbank.Service, *fakeStore) {
	store := &fakeStore{questions: questions}
	return questionbank.NewService(store, testhelpers.NewLogger(io.Discard)), store
}

func bankFixture() []models.Question {
	return []models.Question{
		testQuestion(1, "ch1", "What is a process?", models.TypeMultipleChoice, "A program in execution"),
		testQuestion(2, "ch1", "A thread shares [__1__] with its process.", models.TypeFillInTheBlank, "address space"),
		testQuestion(3, "ch1", "Which scheduler picks the next process?", models.TypeMultipleChoice, "Short-term scheduler"),
		testQuestion(4, "ch2", "What causes a deadlock?", models.TypeMultipleChoice, "Circular wait", "Hold and wait"),
		testQuestion(5, "ch2", "FIFO page replacement suffers from [__1__] anomaly.", models.TypeFillInTheBlank, "Belady's"),
		testQuestion(6, "ch10", "Explain virtual memory.", models.TypeMultipleChoice, "Mapping of virtual to physical addresses"),
	}
}

func TestService_ListChapters(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(bankFixture()...)
	chapters, err := service.ListChapters(context.Background())
	require.NoError(t, err)
	require.Equal(t, []models.ChapterCount{
		{Chapter: "ch1", Questions: 3},
		{Chapter: "ch2", Questions: 2},
		{Chapter: "ch10", Questions: 1},
	}, chapters, "chapters should be in natural order with ch2 before ch10")
}

func TestService_GetChapter(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(bankFixture()...)

	t.Run("known chapter", func(t *testing.T) {
		t.Parallel()
		questions, err := service.GetChapter(context.Background(), "ch1")
		require.NoError(t, err)
		require.Len(t, questions, 3)
		for i, q := range questions {
			require.Equal(t, "ch1", q.Chapter)
			if i > 0 {
				require.Greater(t, q.ID, questions[i-1].ID, "questions ordered by ascending id")
			}
			for j, a := range q.Answers {
				require.Equal(t, j+1, a.Position, "answer positions without gaps or duplicates")
			}
		}
	})

	t.Run("unknown chapter", func(t *testing.T) {
		t.Parallel()
		_, err := service.GetChapter(context.Background(), "ch99")
		require.ErrorIs(t, err, questionbank.ErrNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		service, store := newTestService(bankFixture()...)
		store.err = errors.New("database is locked")
		_, err := service.GetChapter(context.Background(), "ch1")
		require.ErrorIs(t, err, questionbank.ErrStoreUnavailable)
	})
}

func TestService_ListAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filter  questionbank.Filter
		sort    questionbank.Sort
		wantIDs []int64
		wantErr error
	}{
		{
			name:    "no filter default sort",
			wantIDs: []int64{1, 2, 3, 4, 5, 6},
		},
		{
			name:    "multiple-choice by id asc",
			filter:  questionbank.Filter{Type: models.TypeMultipleChoice},
			sort:    questionbank.SortByIDAsc,
			wantIDs: []int64{1, 3, 4, 6},
		},
		{
			name:    "chapter filter",
			filter:  questionbank.Filter{Chapter: "ch2"},
			wantIDs: []int64{4, 5},
		},
		{
			name:    "chapter and type combine with AND",
			filter:  questionbank.Filter{Chapter: "ch2", Type: models.TypeFillInTheBlank},
			wantIDs: []int64{5},
		},
		{
			name:    "by id desc",
			sort:    questionbank.SortByIDDesc,
			wantIDs: []int64{6, 5, 4, 3, 2, 1},
		},
		{
			name:    "by chapter natural order with id tiebreak",
			sort:    questionbank.SortByChapterAsc,
			wantIDs: []int64{1, 2, 3, 4, 5, 6},
		},
		{
			name:    "by type then id",
			sort:    questionbank.SortByTypeAsc,
			wantIDs: []int64{2, 5, 1, 3, 4, 6},
		},
		{
			name:    "unknown sort",
			sort:    questionbank.Sort("created"),
			wantErr: questionbank.ErrInvalidArgument,
		},
		{
			name:    "unknown type",
			filter:  questionbank.Filter{Type: models.QuestionType("essay")},
			wantErr: questionbank.ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			service, _ := newTestService(bankFixture()...)
			questions, err := service.ListAll(context.Background(), tt.filter, tt.sort)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			ids := make([]int64, len(questions))
			for i, q := range questions {
				ids[i] = q.ID
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	sortBy, err := questionbank.ParseSort("")
	require.NoError(t, err)
	require.Equal(t, questionbank.SortByIDAsc, sortBy)

	sortBy, err = questionbank.ParseSort("chapter")
	require.NoError(t, err)
	require.Equal(t, questionbank.SortByChapterAsc, sortBy)

	_, err = questionbank.ParseSort("relevance")
	require.ErrorIs(t, err, questionbank.ErrInvalidArgument)
}

func TestService_Stats(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(
		testQuestion(1, "ch1", "q1", models.TypeMultipleChoice, "a"),
		testQuestion(2, "ch1", "q2", models.TypeMultipleChoice, "a"),
		testQuestion(3, "ch1", "q3", models.TypeFillInTheBlank, "a"),
		testQuestion(4, "ch2", "q4", models.TypeMultipleChoice, "a"),
		testQuestion(5, "ch2", "q5", models.TypeFillInTheBlank, "a"),
	)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, stats.TotalQuestions)
	require.Equal(t, 2, stats.TotalChapters)
	require.Equal(t, map[string]int{"ch1": 3, "ch2": 2}, stats.ByChapter)
	require.Equal(t, map[models.QuestionType]int{
		models.TypeMultipleChoice: 3,
		models.TypeFillInTheBlank: 2,
	}, stats.ByType)

	chapterTotal := 0
	for _, n := range stats.ByChapter {
		chapterTotal += n
	}
	typeTotal := 0
	for _, n := range stats.ByType {
		typeTotal += n
	}
	require.Equal(t, stats.TotalQuestions, chapterTotal)
	require.Equal(t, stats.TotalQuestions, typeTotal)
}

func TestService_Stats_storeFailure(t *testing.T) {
	t.Parallel()

	service, store := newTestService(bankFixture()...)
	store.err = errors.New("database is locked")
	_, err := service.Stats(context.Background())
	require.ErrorIs(t, err, questionbank.ErrStoreUnavailable)
}
