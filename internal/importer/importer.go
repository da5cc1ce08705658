package importer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/41243144/system-question-bank/internal/errors"
	"github.com/41243144/system-question-bank/internal/repositories"
)

// Stats counts what an import run did.
type Stats struct {
	InsertedQuestions int
	DuplicatesSkipped int
	SkippedUnanswered int
	InsertedAnswers   int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.InsertedQuestions += other.InsertedQuestions
	s.DuplicatesSkipped += other.DuplicatesSkipped
	s.SkippedUnanswered += other.SkippedUnanswered
	s.InsertedAnswers += other.InsertedAnswers
}

// Importer parses answer-sheet files and writes them through the repository.
type Importer struct {
	repo   *repositories.QuestionRepository
	logger *slog.Logger
}

func New(repo *repositories.QuestionRepository, logger *slog.Logger) *Importer {
	return &Importer{
		repo:   repo,
		logger: logger.With("source", "Importer"),
	}
}

// ImportFile parses one file and imports its entries. chapterOverride, when
// non-empty, wins over the chapter detected from the file path.
func (imp *Importer) ImportFile(ctx context.Context, path string, chapterOverride string) (Stats, error) {
	var stats Stats

	content, err := os.ReadFile(path)
	if err != nil {
		return stats, errors.Wrap(err, "read file", slog.String("path", path))
	}

	chapter := chapterOverride
	if chapter == "" {
		chapter = DetermineChapter(path, "")
	}
	return imp.ImportEntries(ctx, ParseBlocks(string(content)), chapter, path)
}

// ImportEntries imports parsed entries under the given chapter. Entries
// without a correct answer, or whose only answer is the unanswered marker,
// are skipped.
func (imp *Importer) ImportEntries(ctx context.Context, entries []Entry, chapter, sourceFile string) (Stats, error) {
	var stats Stats

	for _, entry := range entries {
		question := strings.TrimSpace(entry.Question)
		var answers []string
		for _, answer := range entry.Correct {
			if answer = strings.TrimSpace(answer); answer != "" {
				answers = append(answers, answer)
			}
		}
		if question == "" || len(answers) == 0 || (len(answers) == 1 && answers[0] == unansweredMarker) {
			stats.SkippedUnanswered++
			continue
		}

		outcome, err := imp.repo.Import(ctx, repositories.ImportQuestion{
			Chapter:    chapter,
			Text:       question,
			Type:       DetectType(question),
			SourceFile: sourceFile,
			Answers:    answers,
		})
		if err != nil {
			return stats, errors.Wrap(err, "import question", slog.String("chapter", chapter))
		}
		if outcome.InsertedQuestion {
			stats.InsertedQuestions++
		} else {
			stats.DuplicatesSkipped++
		}
		stats.InsertedAnswers += outcome.InsertedAnswers
	}
	return stats, nil
}

// GatherFiles expands the given paths into the text files to import:
// regular files are taken as-is, directories are walked recursively for
// *.txt files.
func GatherFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(err, "stat path", slog.String("path", path))
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".txt") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "walk directory", slog.String("path", path))
		}
	}
	return files, nil
}
