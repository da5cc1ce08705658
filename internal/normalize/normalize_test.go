package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \t\n ", want: ""},
		{name: "collapses runs", in: "what  is\ta\n\nprocess", want: "what is a process"},
		{name: "trims", in: "  deadlock  ", want: "deadlock"},
		{name: "lower-cases", in: "Round Robin", want: "round robin"},
		{name: "folds full-width letters", in: "ＣＰＵ排程", want: "cpu排程"},
		{name: "folds ideographic space", in: "分頁　置換", want: "分頁 置換"},
		{name: "keeps markup characters", in: "[__1__] 是什麼", want: "[__1__] 是什麼"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, String(tt.in))
		})
	}
}

func TestString_idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"  What   IS a Semaphore? ",
		"ＦＩＦＯ　排程法",
		"multi\nline\ntext",
	}
	for _, in := range inputs {
		once := String(in)
		require.Equal(t, once, String(once), "normalization must be idempotent for %q", in)
	}
}

func TestString_caseAndWidthInsensitive(t *testing.T) {
	t.Parallel()

	require.Equal(t, String("abc"), String("ABC"))
	require.Equal(t, String("abc"), String("ＡＢＣ"))
	require.Equal(t, String("cpu 排程"), String("ＣＰＵ　排程"))
}

func TestMapped_Span(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		query    string
		wantHit  string
		wantMiss bool
	}{
		{
			name:    "plain substring",
			text:    "Which scheduler picks the next process?",
			query:   "scheduler",
			wantHit: "scheduler",
		},
		{
			name:    "case fold",
			text:    "FIFO page replacement",
			query:   "fifo",
			wantHit: "FIFO",
		},
		{
			name:    "width fold",
			text:    "使用ＬＲＵ演算法",
			query:   "lru",
			wantHit: "ＬＲＵ",
		},
		{
			name:    "span covers whitespace run",
			text:    "best   fit allocation",
			query:   "best fit",
			wantHit: "best   fit",
		},
		{
			name:     "missing substring",
			text:     "semaphore",
			query:    "monitor",
			wantMiss: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewMapped(tt.text)
			norm := String(tt.query)
			idx := m.Index(norm)
			if tt.wantMiss {
				require.Equal(t, -1, idx)
				return
			}
			require.NotEqual(t, -1, idx)
			start, end, ok := m.Span(idx, idx+len(norm))
			require.True(t, ok)
			require.Equal(t, tt.wantHit, tt.text[start:end])
			// The sliced original must fold back to the query.
			require.Equal(t, norm, String(tt.text[start:end]))
		})
	}
}

func TestMapped_Span_outOfBounds(t *testing.T) {
	t.Parallel()

	m := NewMapped("abc")
	_, _, ok := m.Span(0, 0)
	require.False(t, ok)
	_, _, ok = m.Span(-1, 2)
	require.False(t, ok)
	_, _, ok = m.Span(0, 4)
	require.False(t, ok)
}
