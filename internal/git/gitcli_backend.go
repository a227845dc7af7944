package git

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NUL-delimited records; commit message cannot contain NUL.
const logRecordFormat = "%H%n%h%n%P%n%an%n%ae%n%aI%n%cn%n%ce%n%cI%n%B%x00"

func (r repo) ListCommits(exclude string, max int) ([]*Commit, error) {
	rev := "HEAD"
	if exclude = strings.TrimSpace(exclude); exclude != "" {
		rev = exclude + "..HEAD"
	}
	args := []string{
		"--no-pager",
		"log",
		"--no-color",
		"--no-decorate",
		"--date-order",
		"--no-patch",
		// tformat avoids git log adding an extra newline after each record.
		"--pretty=tformat:" + logRecordFormat,
	}
	if max > 0 {
		args = append(args, "--max-count="+strconv.Itoa(max))
	}
	args = append(args, rev)
	out, err := r.runGitCommand(args, false, "git log")
	if err != nil {
		return nil, err
	}
	return parseLogRecords(out)
}

func parseLogRecords(out string) ([]*Commit, error) {
	var commits []*Commit
	for _, rec := range strings.Split(out, "\x00") {
		// git log prints a newline between records even when the format ends
		// with NUL, so subsequent records can start with '\n'.
		rec = strings.TrimLeft(rec, "\r\n")
		if rec == "" {
			continue
		}
		commit, err := parseLogRecord(rec)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

func parseLogRecord(rec string) (*Commit, error) {
	parts := strings.Split(rec, "\n")
	if len(parts) < 9 {
		return nil, fmt.Errorf("unexpected git log record: got %d lines", len(parts))
	}
	hash := strings.TrimSpace(parts[0])
	if hash == "" {
		return nil, fmt.Errorf("missing commit hash")
	}
	var parents []string
	if parentLine := strings.TrimSpace(parts[2]); parentLine != "" {
		parents = append(parents, strings.Fields(parentLine)...)
	}
	authorWhen, err := time.Parse(time.RFC3339, parts[5])
	if err != nil {
		return nil, fmt.Errorf("parse author date %q: %w", parts[5], err)
	}
	committerWhen, err := time.Parse(time.RFC3339, parts[8])
	if err != nil {
		return nil, fmt.Errorf("parse committer date %q: %w", parts[8], err)
	}
	message := ""
	if len(parts) > 9 {
		message = strings.Join(parts[9:], "\n")
	}
	return &Commit{
		Hash:         hash,
		ShortHash:    strings.TrimSpace(parts[1]),
		ParentHashes: parents,
		Author:       Signature{Name: parts[3], Email: parts[4], When: authorWhen},
		Committer:    Signature{Name: parts[6], Email: parts[7], When: committerWhen},
		Message:      strings.TrimRight(message, "\n"),
	}, nil
}

func (r repo) RemoteRefsContaining(hash string) ([]string, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, fmt.Errorf("commit not specified")
	}
	out, err := r.runGitCommand(
		[]string{"branch", "--remotes", "--contains", hash, "--format=%(refname:short)"},
		false,
		"git branch",
	)
	if err != nil {
		return nil, err
	}
	return parseRemoteBranches(out), nil
}

func parseRemoteBranches(out string) []string {
	var refs []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		// origin/HEAD is a symref alias, not a branch of its own.
		if strings.HasSuffix(name, "/HEAD") {
			continue
		}
		refs = append(refs, name)
	}
	return refs
}

func (r repo) CurrentBranch() (string, error) {
	out, err := r.runGitCommand([]string{"symbolic-ref", "-q", "--short", "HEAD"}, true, "git symbolic-ref")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(out)
	if branch == "" {
		branch = "HEAD"
	}
	return branch, nil
}

func (r repo) UpstreamOf(branch string) (string, bool, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" || branch == "HEAD" {
		return "", false, nil
	}
	out, err := r.runGitCommand(
		[]string{"for-each-ref", "--format=%(upstream:short)", "refs/heads/" + branch},
		false,
		"git for-each-ref",
	)
	if err != nil {
		return "", false, err
	}
	upstream := strings.TrimSpace(out)
	if upstream == "" {
		return "", false, nil
	}
	return upstream, true, nil
}

func (r repo) LocalChanges() (LocalChanges, error) {
	var res LocalChanges
	out, err := r.runGitCommand([]string{"status", "--porcelain=v2"}, false, "git status")
	if err != nil {
		return res, err
	}
	res, err = parseStatusPorcelainV2(strings.NewReader(out))
	if err != nil {
		return res, fmt.Errorf("parse git status: %w", err)
	}
	return res, nil
}

// RewriteCommitDate replays the target commit and everything after it with a
// timestamp override applied only to the target. git filter-branch keeps
// descendant content and messages byte-for-byte; only their hashes change
// because the ancestry changed.
func (r repo) RewriteCommitDate(hash string, when time.Time) error {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return fmt.Errorf("commit not specified")
	}
	parent, err := r.runGitCommand(
		[]string{"rev-parse", "--verify", "--quiet", hash + "^"},
		true,
		"git rev-parse",
	)
	if err != nil {
		return err
	}
	parent = strings.TrimSpace(parent)

	date := when.Format("2006-01-02T15:04:05-07:00")
	filter := fmt.Sprintf(
		`if [ "$GIT_COMMIT" = "%s" ]; then export GIT_AUTHOR_DATE="%s"; export GIT_COMMITTER_DATE="%s"; fi`,
		hash, date, date,
	)
	args := []string{"filter-branch", "-f", "--env-filter", filter}
	if parent != "" {
		args = append(args, parent+"..HEAD")
	} else {
		// Root commit: anchor the rewrite at the start of history.
		args = append(args, "HEAD")
	}
	_, err = r.runGitCommandEnv(args, []string{"FILTER_BRANCH_SQUELCH_WARNING=1"}, false, "git filter-branch")
	return err
}

func (r repo) DeleteBackupRefs() error {
	out, err := r.runGitCommand(
		[]string{"for-each-ref", "--format=%(refname)", "refs/original/"},
		false,
		"git for-each-ref",
	)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(out, "\n") {
		ref := strings.TrimSpace(line)
		if ref == "" {
			continue
		}
		// Best effort; a ref that is already gone is fine.
		_, _ = r.runGitCommand([]string{"update-ref", "-d", ref}, true, "git update-ref")
	}
	return nil
}
