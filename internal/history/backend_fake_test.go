package history

import (
	"errors"
	"time"

	"github.com/arbaev/commit-date-changer/internal/git"
)

type rewriteCall struct {
	hash string
	when time.Time
}

type fakeBackend struct {
	path       string
	commits    []*git.Commit
	remoteRefs map[string][]string
	branch     string
	upstream   string
	changes    git.LocalChanges

	// pushed hashes dropped from the listing when an exclude revision is
	// given, the way upstream..HEAD hides reachable commits.
	excluded map[string]bool

	listErr    error
	rewriteErr error

	listCalls    []string // exclude argument per call
	rewriteCalls []rewriteCall
	cleanupCalls int

	// onRewrite lets tests mutate the fake listing the way a real rewrite
	// invalidates hashes.
	onRewrite func(hash string, when time.Time)
}

func (f *fakeBackend) RepoPath() string { return f.path }

func (f *fakeBackend) ListCommits(exclude string, max int) ([]*git.Commit, error) {
	f.listCalls = append(f.listCalls, exclude)
	if f.listErr != nil {
		return nil, f.listErr
	}
	commits := f.commits
	if exclude != "" && f.excluded != nil {
		filtered := make([]*git.Commit, 0, len(commits))
		for _, c := range commits {
			if !f.excluded[c.Hash] {
				filtered = append(filtered, c)
			}
		}
		commits = filtered
	}
	if max > 0 && len(commits) > max {
		commits = commits[:max]
	}
	return commits, nil
}

func (f *fakeBackend) RemoteRefsContaining(hash string) ([]string, error) {
	return f.remoteRefs[hash], nil
}

func (f *fakeBackend) CurrentBranch() (string, error) {
	if f.branch == "" {
		return "HEAD", nil
	}
	return f.branch, nil
}

func (f *fakeBackend) UpstreamOf(branch string) (string, bool, error) {
	if f.upstream == "" {
		return "", false, nil
	}
	return f.upstream, true, nil
}

func (f *fakeBackend) LocalChanges() (git.LocalChanges, error) {
	return f.changes, nil
}

func (f *fakeBackend) RewriteCommitDate(hash string, when time.Time) error {
	f.rewriteCalls = append(f.rewriteCalls, rewriteCall{hash: hash, when: when})
	if f.rewriteErr != nil {
		return f.rewriteErr
	}
	if f.onRewrite != nil {
		f.onRewrite(hash, when)
	}
	return nil
}

func (f *fakeBackend) DeleteBackupRefs() error {
	f.cleanupCalls++
	return nil
}

var errBackendDown = errors.New("git exploded")
