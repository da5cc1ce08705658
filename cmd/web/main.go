package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/41243144/system-question-bank/internal/envstruct"
	"github.com/41243144/system-question-bank/internal/errors"
	"github.com/41243144/system-question-bank/internal/logging"
	"github.com/41243144/system-question-bank/internal/questionbank"
	"github.com/41243144/system-question-bank/internal/repositories"
	"github.com/41243144/system-question-bank/internal/sqlite"
)

type config struct {
	Addr      string `env:"QUESTION_BANK_ADDR" envDefault:"localhost:4000"`
	SqliteURL string `env:"QUESTION_BANK_SQLITE_URL" envDefault:"./questions.sqlite"`
}

type application struct {
	logger    *slog.Logger
	questions *questionbank.Service
}

func main() {
	ctx := context.Background()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})))

	// A .env file is optional outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.LogAttrs(ctx, slog.LevelError, "load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}

// run wires the application and serves until shutdown. lookupEnv has the
// same signature as [os.LookupEnv] so tests can inject configuration.
func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse configuration")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "connect database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(err))
		}
	}()
	go db.StartOptimizer(ctx)

	repo := repositories.NewQuestionRepository(db, logger)
	app := application{
		logger:    logger,
		questions: questionbank.NewService(repo, logger),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}
