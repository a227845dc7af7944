// Package history implements the date-constrained rewrite engine: commit
// enumeration with push-status classification, the chronological constraint
// validator, the rewrite orchestrator, and the session controller that ties
// them together.
package history

import (
	"strings"
	"time"
)

// Commit is a metadata snapshot taken at query time. A successful rewrite
// changes the hash of the rewritten commit and of every descendant, so
// snapshots must be re-fetched after every mutation and never cached across
// one.
type Commit struct {
	ShortID    string
	FullID     string
	Message    string
	AuthorName string

	// AuthorDate and CommitterDate are treated as one logical timestamp:
	// a rewrite always sets both, never one of them.
	AuthorDate    time.Time
	CommitterDate time.Time

	// IsPushed is true iff the commit is reachable from at least one
	// remote-tracking reference; RemoteRefs names those references.
	IsPushed   bool
	RemoteRefs []string
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// Matches reports whether token identifies this commit: full id, short id,
// or an id prefix. First match wins in a listing; there is no ambiguity
// detection beyond "starts with".
func (c Commit) Matches(token string) bool {
	if token == "" {
		return false
	}
	return token == c.FullID || token == c.ShortID || strings.HasPrefix(c.FullID, token)
}
