// Package git keeps the library directory in a git repository so the
// element and history tables can be backed up and shared across
// machines. It shells out to the git binary; when the directory is not
// a repository, every operation is a quiet no-op.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Sync synchronizes a library directory with its git remote.
type Sync struct {
	baseDir string
	enabled bool
}

// NewSync creates a Sync for the given library directory. Call
// Initialize to detect whether the directory is a configured repository.
func NewSync(baseDir string) *Sync {
	return &Sync{baseDir: baseDir}
}

// Initialize enables sync when the directory is a git repository with a
// remote configured. A plain directory is not an error, just disabled.
func (s *Sync) Initialize() {
	s.enabled = s.isRepository() && s.hasRemote()
}

// IsEnabled reports whether sync operations will do anything.
func (s *Sync) IsEnabled() bool {
	return s.enabled
}

// SetupRepository initializes the library as a git repository pointed at
// repoURL, commits the current tables and pushes them.
func (s *Sync) SetupRepository(repoURL string) error {
	if repoURL == "" {
		return fmt.Errorf("repository URL cannot be empty")
	}

	if !s.isRepository() {
		if err := s.runGit("init"); err != nil {
			return fmt.Errorf("failed to initialize repository: %w", err)
		}
	}

	if s.hasRemote() {
		current, err := s.remoteURL()
		if err == nil && current != repoURL {
			if err := s.runGit("remote", "set-url", "origin", repoURL); err != nil {
				return fmt.Errorf("failed to update remote URL: %w", err)
			}
		}
	} else {
		if err := s.runGit("remote", "add", "origin", repoURL); err != nil {
			return fmt.Errorf("failed to add remote: %w", err)
		}
	}

	if !s.hasCommits() {
		readme := filepath.Join(s.baseDir, "README.md")
		if _, err := os.Stat(readme); os.IsNotExist(err) {
			content := []byte("# Promptdeck Library\n\nPrompt elements and history synchronized by promptdeck.\n")
			if err := os.WriteFile(readme, content, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not create README: %v\n", err)
			}
		}

		if err := s.runGit("add", "-A"); err != nil {
			return fmt.Errorf("failed to stage library: %w", err)
		}
		if err := s.runGit("commit", "-m", "Initial promptdeck library commit"); err != nil {
			if !strings.Contains(err.Error(), "nothing to commit") {
				return fmt.Errorf("failed to create initial commit: %w", err)
			}
		}
	}

	if err := s.runGit("push", "-u", "origin", s.currentBranch()); err != nil {
		if strings.Contains(err.Error(), "could not read Username") ||
			strings.Contains(err.Error(), "Authentication failed") ||
			strings.Contains(err.Error(), "Permission denied") {
			return fmt.Errorf("authentication failed for %s (use an SSH URL or a token URL)", repoURL)
		}
		return fmt.Errorf("failed to push: %w", err)
	}

	s.enabled = true
	return nil
}

// SyncChanges stages, commits and pushes everything in the library.
// Nothing to commit is not an error.
func (s *Sync) SyncChanges(message string) error {
	if !s.enabled {
		return nil
	}

	if err := s.runGit("add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	hasChanges, err := s.hasStagedChanges()
	if err != nil {
		return fmt.Errorf("failed to check for changes: %w", err)
	}
	if !hasChanges {
		return nil
	}

	commitMessage := fmt.Sprintf("%s - %s", message, time.Now().Format("2006-01-02 15:04:05"))
	if err := s.runGit("commit", "-m", commitMessage); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}

	if err := s.runGit("push"); err != nil {
		return fmt.Errorf("committed locally but failed to push: %w", err)
	}
	return nil
}

// PullChanges brings the library up to date with the remote. Falls back
// to a rebase when a plain pull fails; conflicts are left for the user.
func (s *Sync) PullChanges() error {
	if !s.enabled {
		return nil
	}

	if err := s.runGitTimeout(30*time.Second, "fetch", "origin"); err != nil {
		return fmt.Errorf("failed to fetch from remote: %w", err)
	}

	behind, err := s.isBehindRemote()
	if err != nil {
		return fmt.Errorf("failed to compare with remote: %w", err)
	}
	if !behind {
		return nil
	}

	branch := s.currentBranch()
	if err := s.runGit("pull", "origin", branch); err != nil {
		if rebaseErr := s.runGit("pull", "--rebase", "origin", branch); rebaseErr != nil {
			return fmt.Errorf("pull failed, resolve manually in %s: %w", s.baseDir, err)
		}
	}
	return nil
}

// Status gives a one-line summary for display.
func (s *Sync) Status() string {
	if !s.isRepository() {
		return "Not a git repository"
	}
	if !s.hasRemote() {
		return "No remote configured"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain", "--branch")
	cmd.Dir = s.baseDir
	output, err := cmd.Output()
	if err != nil {
		return "Git status unknown"
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		if strings.Contains(lines[0], "[ahead") {
			return "Changes need to be pushed"
		}
		if strings.Contains(lines[0], "[behind") {
			return "Remote has new changes"
		}
	}
	if len(lines) > 1 && lines[1] != "" {
		return "Uncommitted changes"
	}
	return "In sync"
}

func (s *Sync) isRepository() bool {
	_, err := os.Stat(filepath.Join(s.baseDir, ".git"))
	return err == nil
}

func (s *Sync) hasRemote() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote")
	cmd.Dir = s.baseDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) != ""
}

func (s *Sync) remoteURL() (string, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = s.baseDir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

func (s *Sync) hasCommits() bool {
	cmd := exec.Command("git", "rev-list", "-n", "1", "--all")
	cmd.Dir = s.baseDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) != ""
}

// hasStagedChanges reports whether a commit would have content. git diff
// --cached --quiet exits 1 exactly when staged changes exist.
func (s *Sync) hasStagedChanges() (bool, error) {
	cmd := exec.Command("git", "diff", "--cached", "--quiet")
	cmd.Dir = s.baseDir
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

func (s *Sync) currentBranch() string {
	cmd := exec.Command("git", "branch", "--show-current")
	cmd.Dir = s.baseDir
	output, err := cmd.Output()
	if err != nil {
		return "master"
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "master"
	}
	return branch
}

// isBehindRemote reports whether the local head is an ancestor of the
// remote head.
func (s *Sync) isBehindRemote() (bool, error) {
	branch := s.currentBranch()

	remoteCmd := exec.Command("git", "rev-parse", "origin/"+branch)
	remoteCmd.Dir = s.baseDir
	remoteOut, err := remoteCmd.Output()
	if err != nil {
		// Remote branch does not exist yet
		return false, nil
	}
	remoteHash := strings.TrimSpace(string(remoteOut))

	localCmd := exec.Command("git", "rev-parse", "HEAD")
	localCmd.Dir = s.baseDir
	localOut, err := localCmd.Output()
	if err != nil {
		return false, err
	}
	localHash := strings.TrimSpace(string(localOut))

	if remoteHash == localHash {
		return false, nil
	}

	ancestorCmd := exec.Command("git", "merge-base", "--is-ancestor", localHash, remoteHash)
	ancestorCmd.Dir = s.baseDir
	return ancestorCmd.Run() == nil, nil
}

func (s *Sync) runGit(args ...string) error {
	return s.runGitTimeout(10*time.Second, args...)
}

func (s *Sync) runGitTimeout(timeout time.Duration, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.baseDir

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("git %s timed out after %v", strings.Join(args, " "), timeout)
		}
		return fmt.Errorf("git %s failed: %s", strings.Join(args, " "), strings.TrimSpace(string(output)))
	}
	return nil
}
