package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// nativeBackend implements Backend on top of go-git without spawning git.
type nativeBackend struct {
	path string
	repo *gitlib.Repository
}

func openNative(repoPath string) (*nativeBackend, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &nativeBackend{path: abs, repo: repo}, nil
}

func (n *nativeBackend) RepoPath() string {
	return n.path
}

func (n *nativeBackend) ListCommits(exclude string, max int) ([]*Commit, error) {
	head, err := n.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	headCommit, err := n.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("read HEAD commit: %w", err)
	}
	// The exclusion must cover the revision's entire ancestry, not just its
	// tip: after a rewrite the local branch diverges from its upstream, and
	// excluded commits stay reachable from HEAD through the replayed chain.
	var seen map[plumbing.Hash]bool
	if exclude = strings.TrimSpace(exclude); exclude != "" {
		h, err := n.repo.ResolveRevision(plumbing.Revision(exclude))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", exclude, err)
		}
		excludeCommit, err := n.repo.CommitObject(*h)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", exclude, err)
		}
		seen = make(map[plumbing.Hash]bool)
		walker := object.NewCommitPreorderIter(excludeCommit, nil, nil)
		err = walker.ForEach(func(c *object.Commit) error {
			seen[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", exclude, err)
		}
	}

	var commits []*Commit
	iter := object.NewCommitIterCTime(headCommit, seen, nil)
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, convertCommit(c))
		if max > 0 && len(commits) >= max {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate commits: %w", err)
	}
	return commits, nil
}

func convertCommit(c *object.Commit) *Commit {
	hash := c.Hash.String()
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return &Commit{
		Hash:         hash,
		ShortHash:    hash[:7],
		ParentHashes: parents,
		Author:       Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer:    Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:      strings.TrimRight(c.Message, "\n"),
	}
}

func (n *nativeBackend) RemoteRefsContaining(hash string) ([]string, error) {
	target, err := n.repo.CommitObject(plumbing.NewHash(strings.TrimSpace(hash)))
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	refs, err := n.repo.References()
	if err != nil {
		return nil, err
	}
	defer refs.Close()

	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() {
			return nil
		}
		short := ref.Name().Short()
		// origin/HEAD is a symref alias, not a branch of its own.
		if strings.HasSuffix(short, "/HEAD") {
			return nil
		}
		tip, err := n.repo.CommitObject(ref.Hash())
		if err != nil {
			return nil
		}
		ok, err := target.IsAncestor(tip)
		if err != nil {
			return err
		}
		if ok {
			names = append(names, short)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (n *nativeBackend) CurrentBranch() (string, error) {
	head, err := n.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return "HEAD", nil
}

func (n *nativeBackend) UpstreamOf(branch string) (string, bool, error) {
	if branch == "" || branch == "HEAD" {
		return "", false, nil
	}
	cfg, err := n.repo.Branch(branch)
	if err != nil {
		if errors.Is(err, gitlib.ErrBranchNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if cfg.Remote == "" || cfg.Merge == "" {
		return "", false, nil
	}
	if cfg.Remote == "." {
		return cfg.Merge.Short(), true, nil
	}
	return cfg.Remote + "/" + cfg.Merge.Short(), true, nil
}

func (n *nativeBackend) LocalChanges() (LocalChanges, error) {
	var res LocalChanges
	wt, err := n.repo.Worktree()
	if err != nil {
		return res, err
	}
	status, err := wt.Status()
	if err != nil {
		return res, err
	}
	for _, st := range status {
		if st.Staging != gitlib.Unmodified && st.Staging != gitlib.Untracked {
			res.HasStaged = true
		}
		if st.Worktree != gitlib.Unmodified && st.Worktree != gitlib.Untracked {
			res.HasWorktree = true
		}
		if res.HasWorktree && res.HasStaged {
			break
		}
	}
	return res, nil
}

// RewriteCommitDate replays the target and every commit whose ancestry
// contains it, mapping parent hashes along the way. A backup ref under
// refs/original/ records the pre-rewrite head, mirroring what filter-branch
// leaves behind, so DeleteBackupRefs behaves the same on both backends.
func (n *nativeBackend) RewriteCommitDate(hash string, when time.Time) error {
	target := plumbing.NewHash(strings.TrimSpace(hash))
	headRef, err := n.repo.Head()
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}
	memo := make(map[plumbing.Hash]plumbing.Hash)
	newHead, err := n.replay(headRef.Hash(), target, when, memo)
	if err != nil {
		return err
	}
	if newHead == headRef.Hash() {
		return fmt.Errorf("commit %s is not reachable from HEAD", hash)
	}

	backupName := plumbing.ReferenceName("refs/original/" + headRef.Name().String())
	if err := n.repo.Storer.SetReference(plumbing.NewHashReference(backupName, headRef.Hash())); err != nil {
		return fmt.Errorf("write backup ref: %w", err)
	}
	if err := n.repo.Storer.SetReference(plumbing.NewHashReference(headRef.Name(), newHead)); err != nil {
		return fmt.Errorf("update %s: %w", headRef.Name(), err)
	}
	return nil
}

func (n *nativeBackend) replay(h, target plumbing.Hash, when time.Time, memo map[plumbing.Hash]plumbing.Hash) (plumbing.Hash, error) {
	if nh, ok := memo[h]; ok {
		return nh, nil
	}
	c, err := n.repo.CommitObject(h)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("read commit %s: %w", h, err)
	}
	newParents := make([]plumbing.Hash, len(c.ParentHashes))
	changed := false
	for i, p := range c.ParentHashes {
		np, err := n.replay(p, target, when, memo)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		newParents[i] = np
		if np != p {
			changed = true
		}
	}
	if h != target && !changed {
		memo[h] = h
		return h, nil
	}

	rewritten := *c
	rewritten.ParentHashes = newParents
	if h == target {
		rewritten.Author.When = when
		rewritten.Committer.When = when
	}
	// A replayed commit's signature no longer verifies; drop it like
	// filter-branch does.
	rewritten.PGPSignature = ""

	obj := n.repo.Storer.NewEncodedObject()
	if err := rewritten.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode commit: %w", err)
	}
	nh, err := n.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store commit: %w", err)
	}
	memo[h] = nh
	return nh, nil
}

func (n *nativeBackend) DeleteBackupRefs() error {
	refs, err := n.repo.References()
	if err != nil {
		return err
	}
	defer refs.Close()

	var backups []plumbing.ReferenceName
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if strings.HasPrefix(ref.Name().String(), "refs/original/") {
			backups = append(backups, ref.Name())
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, name := range backups {
		// Best effort; a ref that is already gone is fine.
		_ = n.repo.Storer.RemoveReference(name)
	}
	return nil
}
