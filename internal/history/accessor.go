package history

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arbaev/commit-date-changer/internal/git"
)

// Scope selects which commits a listing covers.
type Scope int

const (
	// ScopeUnpushed lists commits reachable from HEAD but not from the
	// upstream tracking branch; when no upstream exists it falls back to the
	// most recent commits.
	ScopeUnpushed Scope = iota
	// ScopeAll lists the most recent commits regardless of push status.
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeUnpushed:
		return "unpushed"
	case ScopeAll:
		return "all"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Accessor queries the repository for commit listings. It is strictly
// read-only; queries are not retried because repository state is assumed
// stable for the duration of one logical operation.
type Accessor struct {
	backend git.Backend
	logger  *logrus.Logger
}

func NewAccessor(backend git.Backend, logger *logrus.Logger) *Accessor {
	return &Accessor{backend: backend, logger: logger}
}

// ListCommits returns up to limit commits, newest first, each classified by
// push status. Push status costs one reachability query per commit, so the
// cost is linear in the result size, not the repository size.
func (a *Accessor) ListCommits(scope Scope, limit int) ([]Commit, error) {
	exclude := ""
	if scope == ScopeUnpushed {
		branch, err := a.backend.CurrentBranch()
		if err != nil {
			return nil, err
		}
		upstream, ok, err := a.backend.UpstreamOf(branch)
		if err != nil {
			return nil, err
		}
		if ok {
			exclude = upstream
		}
		a.logger.WithFields(logrus.Fields{
			"branch":   branch,
			"upstream": upstream,
		}).Debug("resolved listing scope")
	}

	raw, err := a.backend.ListCommits(exclude, limit)
	if err != nil {
		return nil, err
	}

	commits := make([]Commit, 0, len(raw))
	for _, rc := range raw {
		refs, err := a.backend.RemoteRefsContaining(rc.Hash)
		if err != nil {
			return nil, err
		}
		commits = append(commits, Commit{
			ShortID:       rc.ShortHash,
			FullID:        rc.Hash,
			Message:       rc.Message,
			AuthorName:    rc.Author.Name,
			AuthorDate:    rc.Author.When,
			CommitterDate: rc.Committer.When,
			IsPushed:      len(refs) > 0,
			RemoteRefs:    refs,
		})
	}
	a.logger.WithFields(logrus.Fields{
		"scope": scope.String(),
		"count": len(commits),
	}).Debug("listed commits")
	return commits, nil
}

// FindByIdentifier resolves token against the scoped listing.
func (a *Accessor) FindByIdentifier(token string, scope Scope, limit int) (Commit, bool, error) {
	commits, err := a.ListCommits(scope, limit)
	if err != nil {
		return Commit{}, false, err
	}
	if i := matchIndex(commits, token); i >= 0 {
		return commits[i], true, nil
	}
	return Commit{}, false, nil
}

// matchIndex returns the listing position of the first commit token
// identifies, or -1.
func matchIndex(commits []Commit, token string) int {
	for i, c := range commits {
		if c.Matches(token) {
			return i
		}
	}
	return -1
}
