// Package importer ingests exported answer sheets into the question bank.
// The sheets are loosely formatted text files where labelled lines introduce
// a question, the student's answers, and the correct answers.
package importer

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/41243144/system-question-bank/internal/models"
)

// Labels of the exported answer-sheet format. The score label is optional
// and only terminates the preceding block.
const (
	labelQuestion = "題目："
	labelYour     = "你的答案："
	labelCorrect  = "正確答案："
	labelScore    = "得分："
)

// unansweredMarker is what the export writes when the student skipped the
// question; such blocks carry no usable correct answer.
const unansweredMarker = "未作答"

// Entry is one parsed block of an answer sheet.
type Entry struct {
	Question string
	Your     []string
	Correct  []string
}

var blankPlaceholder = regexp.MustCompile(`\[__\d+__\]`)

// DetectType classifies a question by its text: numbered blank placeholders
// like [__1__] mark a fill-in-the-blank question.
func DetectType(question string) models.QuestionType {
	if blankPlaceholder.MatchString(question) {
		return models.TypeFillInTheBlank
	}
	return models.TypeMultipleChoice
}

var chapterPattern = regexp.MustCompile(`(?i)\bch(\d{1,2})\b`)

// DetermineChapter finds a chapter code like "ch3" in the file name or its
// directories, searching from leaf to root. Codes outside ch0..ch10 are
// ignored. When nothing matches, fallback is returned, or "unknown" if the
// fallback is empty.
func DetermineChapter(path string, fallback string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := []string{stem}
	segments := strings.Split(filepath.Clean(path), string(filepath.Separator))
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			parts = append(parts, segments[i])
		}
	}

	for _, part := range parts {
		m := chapterPattern.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n > 10 {
			continue
		}
		return "ch" + strconv.Itoa(n)
	}
	if fallback != "" {
		return fallback
	}
	return "unknown"
}

// ParseBlocks parses the labelled answer-sheet format into entries. It is
// robust to answers given inline after the label, answers continuing on the
// following lines, and blank lines anywhere.
func ParseBlocks(text string) []Entry {
	lines := strings.Split(text, "\n")
	var (
		entries []Entry
		cur     *Entry
	)
	flush := func() {
		if cur != nil {
			entries = append(entries, *cur)
			cur = nil
		}
	}

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if rest, ok := strings.CutPrefix(line, labelQuestion); ok {
			flush()
			cur = &Entry{Question: strings.TrimSpace(rest)}
			i++
			continue
		}

		if rest, ok := strings.CutPrefix(line, labelYour); ok && cur != nil {
			cur.Your, i = collectAnswers(lines, i+1, rest, labelCorrect, labelQuestion, labelScore)
			continue
		}

		if rest, ok := strings.CutPrefix(line, labelCorrect); ok && cur != nil {
			cur.Correct, i = collectAnswers(lines, i+1, rest, labelQuestion, labelScore, labelYour)
			continue
		}

		i++
	}

	flush()
	return entries
}

// collectAnswers gathers the inline rest of a label line and the following
// non-blank lines until one of the terminating labels starts.
func collectAnswers(lines []string, i int, inline string, stopLabels ...string) ([]string, int) {
	var answers []string
	if inline = strings.TrimSpace(inline); inline != "" {
		answers = append(answers, inline)
	}
	for i < len(lines) {
		peek := strings.TrimSpace(lines[i])
		for _, label := range stopLabels {
			if strings.HasPrefix(peek, label) {
				return answers, i
			}
		}
		if peek != "" {
			answers = append(answers, peek)
		}
		i++
	}
	return answers, i
}
