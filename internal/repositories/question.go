package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/41243144/system-question-bank/internal/errors"
	"github.com/41243144/system-question-bank/internal/models"
	"github.com/41243144/system-question-bank/internal/normalize"
	"github.com/41243144/system-question-bank/internal/sqlite"
)

// ListFilter restricts which questions are fetched. Zero-valued fields mean
// no restriction; both fields combine with AND.
type ListFilter struct {
	Chapter string
	Type    models.QuestionType
}

// QuestionRepository provides row-level access to the questions and answers
// tables. Raw rows never leave this package; every read scans into
// internal/models structs.
type QuestionRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewQuestionRepository(db *sqlite.Database, logger *slog.Logger) *QuestionRepository {
	return &QuestionRepository{
		db:     db,
		logger: logger.With("source", "QuestionRepository"),
	}
}

// Questions fetches questions matching the filter ordered by ascending id,
// each with its answers ordered by position.
func (r *QuestionRepository) Questions(ctx context.Context, filter ListFilter) ([]models.Question, error) {
	var (
		conds []string
		args  []any
	)
	query := `SELECT id, chapter, text, normalized_text, type, source_file, created_at FROM questions`
	if filter.Chapter != "" {
		conds = append(conds, "chapter = ?")
		args = append(args, filter.Chapter)
	}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	var questions []models.Question
	if err := r.db.ReadOnly.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, errors.Wrap(err, "select questions")
	}
	if err := r.attachAnswers(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// attachAnswers loads the answers for all given questions in one batched
// query and distributes them in position order.
func (r *QuestionRepository) attachAnswers(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]int64, len(questions))
	byID := make(map[int64]*models.Question, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
		byID[questions[i].ID] = &questions[i]
	}

	query, args, err := sqlx.In(
		`SELECT id, question_id, position, text, created_at FROM answers
		 WHERE question_id IN (?) ORDER BY question_id, position`, ids)
	if err != nil {
		return errors.Wrap(err, "expand answer query")
	}

	var answers []models.Answer
	if err = r.db.ReadOnly.SelectContext(ctx, &answers, query, args...); err != nil {
		return errors.Wrap(err, "select answers")
	}
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			// The foreign key constraint makes this unreachable.
			continue
		}
		question.Answers = append(question.Answers, answer)
	}
	return nil
}

// CountByChapter groups the question count per chapter. The result order is
// unspecified; callers sort as needed.
func (r *QuestionRepository) CountByChapter(ctx context.Context) ([]models.ChapterCount, error) {
	var counts []models.ChapterCount
	stmt := `SELECT chapter, COUNT(*) AS questions FROM questions GROUP BY chapter`
	if err := r.db.ReadOnly.SelectContext(ctx, &counts, stmt); err != nil {
		return nil, errors.Wrap(err, "count questions by chapter")
	}
	return counts, nil
}

// CountByType groups the question count per question type.
func (r *QuestionRepository) CountByType(ctx context.Context) (map[models.QuestionType]int, error) {
	var rows []struct {
		Type  models.QuestionType `db:"type"`
		Count int                 `db:"count"`
	}
	stmt := `SELECT type, COUNT(*) AS count FROM questions GROUP BY type`
	if err := r.db.ReadOnly.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "count questions by type")
	}
	counts := make(map[models.QuestionType]int, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// ImportQuestion is a question with its correct answers as parsed from an
// exported answer sheet.
type ImportQuestion struct {
	Chapter    string
	Text       string
	Type       models.QuestionType
	SourceFile string
	Answers    []string
}

// ImportOutcome reports what an Import call did.
type ImportOutcome struct {
	InsertedQuestion bool
	InsertedAnswers  int
}

// Import inserts a question with its answers, deduplicating on
// (chapter, normalized text). A duplicate question is left untouched but its
// missing answers are still added. Only cmd/import uses the write connection.
func (r *QuestionRepository) Import(ctx context.Context, question ImportQuestion) (ImportOutcome, error) {
	var outcome ImportOutcome

	tx, err := r.db.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return outcome, errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err = tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelDebug, "rollback import transaction", errors.SlogError(err))
		}
	}()

	normalized := normalize.String(question.Text)

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO questions (chapter, text, normalized_text, type, source_file)
		 VALUES (?, ?, ?, ?, ?)`,
		question.Chapter, question.Text, normalized, question.Type, question.SourceFile)
	if err != nil {
		return outcome, errors.Wrap(err, "insert question")
	}

	var questionID int64
	inserted, err := res.RowsAffected()
	if err != nil {
		return outcome, errors.Wrap(err, "inserted rows")
	}
	if inserted == 1 {
		outcome.InsertedQuestion = true
		if questionID, err = res.LastInsertId(); err != nil {
			return outcome, errors.Wrap(err, "last insert id")
		}
	} else {
		err = tx.GetContext(ctx, &questionID,
			`SELECT id FROM questions WHERE chapter = ? AND normalized_text = ?`,
			question.Chapter, normalized)
		if err != nil {
			return outcome, errors.Wrap(err, "resolve duplicate question",
				slog.String("chapter", question.Chapter))
		}
	}

	for i, answer := range question.Answers {
		res, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO answers (question_id, position, text) VALUES (?, ?, ?)`,
			questionID, i+1, answer)
		if err != nil {
			return outcome, errors.Wrap(err, "insert answer")
		}
		if inserted, err = res.RowsAffected(); err != nil {
			return outcome, errors.Wrap(err, "inserted answer rows")
		}
		outcome.InsertedAnswers += int(inserted)
	}

	if err = tx.Commit(); err != nil {
		return outcome, errors.Wrap(err, "commit import")
	}
	return outcome, nil
}
