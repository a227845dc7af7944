package git

import "time"

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

type Commit struct {
	Hash         string
	ShortHash    string
	ParentHashes []string
	Author       Signature
	Committer    Signature
	Message      string
}

// LocalChanges reports whether the worktree or the index differ from HEAD.
// Untracked files do not count as changes.
type LocalChanges struct {
	HasWorktree bool
	HasStaged   bool
}

func (c LocalChanges) Dirty() bool {
	return c.HasWorktree || c.HasStaged
}
