package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbaev/commit-date-changer/internal/history"
)

func TestResult_JSONVerbatim(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf)

	res := history.Result{
		Success: true,
		Commit: &history.ResultCommit{
			Hash:     "aaaaaaa000000000000000000000000000000000",
			Message:  "second",
			OldDate:  "2025-01-15T10:00:00Z",
			NewDate:  "2025-01-15T09:00:00Z",
			IsPushed: true,
		},
	}
	require.NoError(t, f.Result(res, true))

	var decoded history.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, res, decoded)
}

func TestResult_JSONOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).Result(history.Result{
		Success:   false,
		Error:     "commit \"x\" not found",
		ErrorCode: history.CodeCommitNotFound,
	}, true))

	out := buf.String()
	assert.NotContains(t, out, "\"commit\"")
	assert.Contains(t, out, "\"errorCode\":\"COMMIT_NOT_FOUND\"")
	assert.Contains(t, out, "\"success\":false")
}

func TestResult_HumanSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).Result(history.Result{
		Success: true,
		Commit: &history.ResultCommit{
			Hash:    "bbbbbbb000000000000000000000000000000000",
			OldDate: "2025-01-15T10:00:00Z",
			NewDate: "2025-01-15T09:00:00Z",
		},
	}, false))
	assert.Equal(t, "commit bbbbbbb: 2025-01-15T10:00:00Z -> 2025-01-15T09:00:00Z\n", buf.String())

	buf.Reset()
	require.NoError(t, New(&buf).Result(history.Result{
		Error:     "date is in the future",
		ErrorCode: history.CodeDateOutOfRange,
	}, false))
	assert.Equal(t, "error (DATE_OUT_OF_RANGE): date is in the future\n", buf.String())
}

func TestListing(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Listing([]history.Commit{
		{
			ShortID:    "aaaaaaa",
			FullID:     "aaaaaaa000000000000000000000000000000000",
			Message:    "feat: subject line\n\nbody",
			AuthorName: "Alice",
			AuthorDate: mustParse(t, "2025-01-15 12:00"),
			IsPushed:   true,
		},
		{
			ShortID:    "bbbbbbb",
			FullID:     "bbbbbbb000000000000000000000000000000000",
			Message:    "initial commit",
			AuthorName: "Bob",
			AuthorDate: mustParse(t, "2025-01-15 08:00"),
		},
	})

	out := buf.String()
	assert.Contains(t, out, "1)")
	assert.Contains(t, out, "aaaaaaa")
	assert.Contains(t, out, "pushed")
	assert.Contains(t, out, "feat: subject line")
	assert.NotContains(t, out, "body")
	assert.Contains(t, out, "2)")
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	when, ok := history.ParseDate(s)
	require.True(t, ok, "parse %q", s)
	return when
}
