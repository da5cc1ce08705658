package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/41243144/system-question-bank/internal/errors"
	"github.com/41243144/system-question-bank/internal/logging"
	"github.com/41243144/system-question-bank/internal/models"
	"github.com/41243144/system-question-bank/internal/repositories"
	"github.com/41243144/system-question-bank/internal/sqlite"
	"github.com/41243144/system-question-bank/internal/testhelpers"
)

// waitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func waitForReady(ctx context.Context, endpoint string) error {
	timeout := 1 * time.Second
	client := http.Client{}
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			endpoint,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(250 * time.Millisecond)
		}
	}
}

// seedDatabase creates a question bank in a temporary directory and returns
// its path. The server under test opens the same file afterwards.
func seedDatabase(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "questions.sqlite")

	db, err := sqlite.NewDatabase(ctx, path, testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()

	repo := repositories.NewQuestionRepository(db, testhelpers.NewLogger(io.Discard))
	seed := []repositories.ImportQuestion{
		{
			Chapter:    "ch1",
			Text:       "Which scheduling algorithm serves the shortest job first?",
			Type:       models.TypeMultipleChoice,
			SourceFile: "seed.txt",
			Answers:    []string{"SJF"},
		},
		{
			Chapter:    "ch1",
			Text:       "The ＬＲＵ policy evicts the least recently used page.",
			Type:       models.TypeFillInTheBlank,
			SourceFile: "seed.txt",
			Answers:    []string{"least recently used"},
		},
		{
			Chapter:    "ch1",
			Text:       "What does a semaphore protect?",
			Type:       models.TypeMultipleChoice,
			SourceFile: "seed.txt",
			Answers:    []string{"critical section"},
		},
		{
			Chapter:    "ch2",
			Text:       "Which allocation strategy picks the smallest hole that fits?",
			Type:       models.TypeMultipleChoice,
			SourceFile: "seed.txt",
			Answers:    []string{"best fit"},
		},
		{
			Chapter:    "ch2",
			Text:       "Paging divides memory into fixed size frames.",
			Type:       models.TypeFillInTheBlank,
			SourceFile: "seed.txt",
			Answers:    []string{"frames"},
		},
		{
			Chapter:    "ch10",
			Text:       "Deadlock requires circular wait among processes.",
			Type:       models.TypeMultipleChoice,
			SourceFile: "seed.txt",
			Answers:    []string{"circular wait"},
		},
	}
	for _, question := range seed {
		_, err = repo.Import(ctx, question)
		require.NoError(t, err)
	}
	return path
}

func newTestLookupEnv(dbPath string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		switch key {
		case "QUESTION_BANK_ADDR":
			return "localhost:0", true
		case "QUESTION_BANK_SQLITE_URL":
			return dbPath, true
		default:
			return "", false
		}
	}
}

type testServer struct {
	url    string
	client http.Client
}

// startTestServer seeds a question bank, starts the server against it, waits
// for it to be ready, and returns a client bound to the server URL.
func startTestServer(t *testing.T, w io.Writer) testServer {
	t.Helper()
	dbPath := seedDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// We need to grab the dynamically allocated port from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "Addr" {
				addrCh <- a.Value.String()
			}
			return a
		},
	})))

	// Start the server and wait for it to be ready.
	go func() {
		if err := run(ctx, logger, newTestLookupEnv(dbPath)); err != nil {
			cancel()
			assert.NoError(t, err)
		}
	}()
	select {
	case <-ctx.Done():
		t.Fatal("server failed to start")
		return testServer{}
	case addr := <-addrCh:
		serverURL := fmt.Sprintf("http://%s", addr)
		if err := waitForReady(ctx, fmt.Sprintf("%s/api/healthy", serverURL)); err != nil {
			require.NoError(t, err)
		}
		return testServer{url: serverURL, client: http.Client{}}
	}
}

// Get fetches a URL path and returns the response.
func (s *testServer) Get(t *testing.T, urlPath string) *http.Response {
	t.Helper()
	resp, err := s.client.Get(s.url + urlPath)
	require.NoError(t, err)
	return resp
}

// GetDoc fetches a URL path and returns a goquery document.
func (s *testServer) GetDoc(t *testing.T, urlPath string) *goquery.Document {
	t.Helper()
	resp := s.Get(t, urlPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

// GetJSON fetches a URL path, asserts the expected status, and decodes the
// JSON body into target.
func (s *testServer) GetJSON(t *testing.T, urlPath string, expectedStatus int, target any) {
	t.Helper()
	resp := s.Get(t, urlPath)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, expectedStatus, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
