package git

import (
	"fmt"
	"time"
)

// BackendKind selects how repository data is accessed and mutated.
type BackendKind string

const (
	// BackendGitCLI shells out to the git executable.
	BackendGitCLI BackendKind = "gitcli"
	// BackendNative uses go-git and never spawns a subprocess.
	BackendNative BackendKind = "native"
)

// Backend abstracts access to repository data.
//
// The default implementation shells out to the git executable, but the interface
// allows alternative implementations (e.g. pure-Go) without changing the callers.
type Backend interface {
	RepoPath() string

	// ListCommits returns up to max commits reachable from HEAD, newest first.
	// When exclude is non-empty, commits reachable from that revision are omitted.
	ListCommits(exclude string, max int) ([]*Commit, error)

	// RemoteRefsContaining returns the short names of remote-tracking branches
	// that contain the given commit.
	RemoteRefsContaining(hash string) ([]string, error)

	// CurrentBranch returns the short name of the checked-out branch, or "HEAD"
	// when detached.
	CurrentBranch() (string, error)

	// UpstreamOf returns the short name of the upstream tracking branch of the
	// given local branch, or ok=false when none is configured.
	UpstreamOf(branch string) (upstream string, ok bool, err error)

	LocalChanges() (LocalChanges, error)

	// RewriteCommitDate sets both the author and the committer timestamp of
	// exactly the given commit to when, replaying its descendants so their
	// ancestry stays intact. Descendant content, messages and timestamps are
	// preserved; their hashes necessarily change.
	RewriteCommitDate(hash string, when time.Time) error

	// DeleteBackupRefs removes refs/original/* left behind by a rewrite.
	// Missing backup refs are not an error.
	DeleteBackupRefs() error
}

// Open opens the repository containing repoPath with the requested backend.
func Open(repoPath string, kind BackendKind) (Backend, error) {
	switch kind {
	case BackendGitCLI, "":
		return openRepo(repoPath)
	case BackendNative:
		return openNative(repoPath)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
