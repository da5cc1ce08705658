package models

import "time"

// QuestionType is the closed set of question kinds stored in the bank.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeFillInTheBlank QuestionType = "fill-in-the-blank"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	return t == TypeMultipleChoice || t == TypeFillInTheBlank
}

// Question is an exam question belonging to a chapter. NormalizedText is
// derived from Text at ingest and is used only for matching, never displayed.
type Question struct {
	ID             int64        `db:"id" json:"id"`
	Chapter        string       `db:"chapter" json:"chapter"`
	Text           string       `db:"text" json:"text"`
	NormalizedText string       `db:"normalized_text" json:"-"`
	Type           QuestionType `db:"type" json:"type"`
	SourceFile     string       `db:"source_file" json:"sourceFile"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	Answers        []Answer     `db:"-" json:"answers"`
}

// Answer is one correct answer of a question. Position defines the display
// order among the question's answers and is unique per question.
type Answer struct {
	ID         int64     `db:"id" json:"id"`
	QuestionID int64     `db:"question_id" json:"questionId"`
	Position   int       `db:"position" json:"position"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// ChapterCount pairs a chapter code with its number of questions.
type ChapterCount struct {
	Chapter   string `db:"chapter" json:"chapter"`
	Questions int    `db:"questions" json:"questions"`
}

// Stats summarizes the question bank. The per-chapter and per-type counts
// each sum up to TotalQuestions.
type Stats struct {
	TotalQuestions int                  `json:"totalQuestions"`
	TotalChapters  int                  `json:"totalChapters"`
	ByChapter      map[string]int       `json:"countByChapter"`
	ByType         map[QuestionType]int `json:"countByType"`
}
