package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func TestComputeWindow(t *testing.T) {
	now := ts("2025-01-15T12:00:00Z")

	t.Run("both neighbors", func(t *testing.T) {
		w := ComputeWindow(tsp("2025-01-15T08:00:00Z"), tsp("2025-01-15T10:00:00Z"), now)
		require.NotNil(t, w.Lower)
		assert.Equal(t, ts("2025-01-15T08:00:00Z"), *w.Lower)
		assert.Equal(t, ts("2025-01-15T10:00:00Z"), w.Upper)
	})

	t.Run("no previous commit", func(t *testing.T) {
		w := ComputeWindow(nil, tsp("2025-01-15T10:00:00Z"), now)
		assert.Nil(t, w.Lower)
		assert.Equal(t, ts("2025-01-15T10:00:00Z"), w.Upper)
	})

	t.Run("no next commit caps at now", func(t *testing.T) {
		w := ComputeWindow(tsp("2025-01-15T08:00:00Z"), nil, now)
		assert.Equal(t, now, w.Upper)
	})

	t.Run("next commit after now caps at now", func(t *testing.T) {
		w := ComputeWindow(nil, tsp("2025-01-15T13:00:00Z"), now)
		assert.Equal(t, now, w.Upper)
	})
}

// Commits [c0 @ 12:00, c1 @ 10:00, c2 @ 08:00] newest first; rewriting c1
// admits [08:00, 12:00].
func TestValidate_NeighborWindow(t *testing.T) {
	now := ts("2025-01-15T20:00:00Z")
	prev := tsp("2025-01-15T08:00:00Z")
	next := tsp("2025-01-15T12:00:00Z")

	t.Run("inside window", func(t *testing.T) {
		out := Validate(ts("2025-01-15T09:00:00Z"), prev, next, now)
		assert.True(t, out.Valid)
		assert.Empty(t, out.Reason)
	})

	t.Run("before previous commit", func(t *testing.T) {
		out := Validate(ts("2025-01-15T07:00:00Z"), prev, next, now)
		require.False(t, out.Valid)
		assert.Contains(t, out.Reason, "earlier than previous commit")
		assert.Contains(t, out.Reason, "2025-01-15 08:00:00")
	})

	t.Run("after next commit", func(t *testing.T) {
		out := Validate(ts("2025-01-15T13:00:00Z"), prev, next, now)
		require.False(t, out.Valid)
		assert.Contains(t, out.Reason, "later than next commit")
		assert.Contains(t, out.Reason, "2025-01-15 12:00:00")
	})

	t.Run("boundaries are inclusive", func(t *testing.T) {
		assert.True(t, Validate(*prev, prev, next, now).Valid)
		assert.True(t, Validate(*next, prev, next, now).Valid)
	})
}

func TestValidate_FutureRejectedRegardlessOfNeighbors(t *testing.T) {
	now := ts("2025-01-15T10:00:00Z")
	out := Validate(ts("2025-01-15T11:00:00Z"), nil, nil, now)
	require.False(t, out.Valid)
	assert.Contains(t, out.Reason, "future")

	// Even a next-commit bound beyond now does not admit future dates.
	out = Validate(ts("2025-01-15T11:00:00Z"), nil, tsp("2025-01-15T12:00:00Z"), now)
	assert.False(t, out.Valid)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-01-15T09:30:00Z", "2025-01-15T09:30:00Z", true},
		{"2025-01-15T09:30:00+02:00", "2025-01-15T07:30:00Z", true},
		{"2025-01-15T09:30:00+0200", "2025-01-15T07:30:00Z", true}, // colon-less offset
		{"2025-01-15 09:30-0500", "2025-01-15T14:30:00Z", true},
		{"2025-01-15T09:30:00", "2025-01-15T09:30:00Z", true}, // naive means UTC
		{"2025-01-15 09:30:00", "2025-01-15T09:30:00Z", true},
		{"2025-01-15 09:30", "2025-01-15T09:30:00Z", true},
		{"2025-01-15", "2025-01-15T00:00:00Z", true},
		{"15/01/2025", "", false},
		{"2025-13-40", "", false},
		{"", "", false},
		{"yesterday", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseDate(tc.in)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, got.Equal(ts(tc.want)), "got %v want %v", got, ts(tc.want))
			}
		})
	}
}

func TestValidDateSyntax(t *testing.T) {
	assert.True(t, ValidDateSyntax("2025-01-15 09:30"))
	assert.True(t, ValidDateSyntax("2025-01-15T09:30:00Z"))
	assert.True(t, ValidDateSyntax("2025-01-15T09:30:00+02:00"))
	assert.True(t, ValidDateSyntax("2025-01-15T09:30:00+0200"))
	assert.True(t, ValidDateSyntax("2025-01-15"))
	assert.False(t, ValidDateSyntax("15/01/2025"))
	assert.False(t, ValidDateSyntax("2025-01-15 09"))
	assert.False(t, ValidDateSyntax("next tuesday"))
}

// format(parse(s)) normalizes fractional seconds and the UTC marker away.
func TestFormatDate_Normalization(t *testing.T) {
	parsed, ok := ParseDate("2025-01-15T09:30:00Z")
	require.True(t, ok)
	assert.Equal(t, "2025-01-15 09:30:00", FormatDate(parsed))

	withOffset, ok := ParseDate("2025-01-15T09:30:00+02:00")
	require.True(t, ok)
	assert.Equal(t, "2025-01-15 07:30:00", FormatDate(withOffset))

	fractional := ts("2025-01-15T09:30:00Z").Add(250 * time.Millisecond)
	assert.Equal(t, "2025-01-15 09:30:00", FormatDate(fractional))
}

func TestFormatISO(t *testing.T) {
	assert.Equal(t, "2025-01-15T07:30:00Z", FormatISO(ts("2025-01-15T09:30:00+02:00")))
}

func TestSameMinute(t *testing.T) {
	base := ts("2025-01-15T09:30:10Z")
	assert.True(t, SameMinute(base, ts("2025-01-15T09:30:59Z")))
	assert.True(t, SameMinute(base, ts("2025-01-15T10:30:10+01:00")))
	assert.False(t, SameMinute(base, ts("2025-01-15T09:31:00Z")))
}
