package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type repo struct {
	path string
}

func (r repo) RepoPath() string {
	return r.path
}

func openRepo(repoPath string) (repo, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return repo{}, err
	}
	tmp := repo{path: abs}
	root, err := tmp.runGitCommand([]string{"rev-parse", "--show-toplevel"}, false, "git rev-parse")
	if err != nil {
		return repo{}, fmt.Errorf("open repository: %w", err)
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return repo{}, fmt.Errorf("open repository: git rev-parse returned empty root")
	}
	return repo{path: root}, nil
}

func (r repo) runGitCommand(args []string, allowExit1 bool, context string) (string, error) {
	return r.runGitCommandEnv(args, nil, allowExit1, context)
}

func (r repo) runGitCommandEnv(args []string, extraEnv []string, allowExit1 bool, context string) (string, error) {
	if r.path == "" {
		return "", fmt.Errorf("repository root not set")
	}
	cmdArgs := append([]string{"-C", r.path}, args...)
	cmd := exec.Command("git", cmdArgs...)
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if allowExit1 && errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && stderr.Len() == 0 {
			// exit code 1 without stderr means "no result" for queries like
			// rev-parse --verify -q; treat as success with empty output
		} else {
			if stderr.Len() > 0 {
				return "", fmt.Errorf("%s: %v: %s", context, err, strings.TrimSpace(stderr.String()))
			}
			return "", fmt.Errorf("%s: %w", context, err)
		}
	}
	return stdout.String(), nil
}
