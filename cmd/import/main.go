// Command import ingests exported answer-sheet text files into the question
// bank database. It is the only writer; the web server reads the database it
// produces.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/41243144/system-question-bank/internal/errors"
	"github.com/41243144/system-question-bank/internal/importer"
	"github.com/41243144/system-question-bank/internal/logging"
	"github.com/41243144/system-question-bank/internal/repositories"
	"github.com/41243144/system-question-bank/internal/sqlite"
)

var (
	dbPath          string
	chapterOverride string
)

var chapterFlagPattern = regexp.MustCompile(`^ch\d{1,2}$`)

var rootCmd = &cobra.Command{
	Use:   "import [paths...]",
	Short: "Import exported answer sheets into the question bank",
	Long: `Import parses exported answer-sheet text files (題目：/正確答案： blocks)
and inserts the questions with their correct answers into the SQLite
database. Directories are walked recursively for *.txt files. Questions are
deduplicated per chapter on their normalized text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "./questions.sqlite", "SQLite database file")
	rootCmd.Flags().StringVar(&chapterOverride, "chapter", "",
		"override the chapter code detected from file paths (e.g. ch0..ch10)")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if chapterOverride != "" && !chapterFlagPattern.MatchString(chapterOverride) {
		return errors.New("invalid chapter code, expected ch0..ch10", slog.String("chapter", chapterOverride))
	}

	files, err := importer.GatherFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no input files found")
	}

	db, err := sqlite.NewDatabase(ctx, dbPath, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("db", dbPath))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(err))
		}
	}()

	imp := importer.New(repositories.NewQuestionRepository(db, logger), logger)

	var totals importer.Stats
	for _, file := range files {
		chapter := chapterOverride
		if chapter == "" {
			chapter = importer.DetermineChapter(file, "")
		}
		stats, err := imp.ImportFile(ctx, file, chapter)
		if err != nil {
			return errors.Wrap(err, "import file", slog.String("file", file))
		}
		cmd.Printf("[%s] -> chapter=%s inserted=%d duplicates=%d unanswered=%d answers=%d\n",
			filepath.Base(file), chapter, stats.InsertedQuestions, stats.DuplicatesSkipped,
			stats.SkippedUnanswered, stats.InsertedAnswers)
		totals.Add(stats)
	}
	cmd.Printf("TOTAL: inserted=%d duplicates=%d unanswered=%d answers=%d\n",
		totals.InsertedQuestions, totals.DuplicatesSkipped, totals.SkippedUnanswered, totals.InsertedAnswers)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
