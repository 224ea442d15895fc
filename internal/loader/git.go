package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// DefaultBranch is checked out when a RepoRef has no branch.
const DefaultBranch = "main"

// GitLoader clones a repository and loads its documents.
// Locators that name an existing local directory are read in place.
type GitLoader struct {
	dir    *DirLoader
	logger *slog.Logger
}

// NewGitLoader creates a git-backed loader.
func NewGitLoader(logger *slog.Logger) *GitLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GitLoader{dir: NewDirLoader(logger), logger: logger}
}

// Load clones repo into a temporary directory, loads it and removes the clone.
func (g *GitLoader) Load(ctx context.Context, repo core.RepoRef, exts []string) ([]core.Document, error) {
	if strings.TrimSpace(repo.Locator) == "" {
		return nil, fmt.Errorf("repository locator is required")
	}
	if info, err := os.Stat(repo.Locator); err == nil && info.IsDir() {
		g.logger.Info("loading local repository", "path", repo.Locator)
		return g.dir.Load(ctx, repo, exts)
	}

	branch := repo.Branch
	if branch == "" {
		branch = DefaultBranch
	}

	cloneDir, err := os.MkdirTemp("", "joinlineage-clone-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create clone directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(cloneDir); err != nil {
			g.logger.Warn("failed to remove clone directory", "path", cloneDir, "error", err)
		}
	}()

	g.logger.Info("cloning repository", "repo", repo.Locator, "branch", branch)
	cmd := exec.CommandContext(ctx, "git", "clone", "--quiet", "--depth", "1",
		"--branch", branch, "--", repo.Locator, cloneDir)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("git clone %s (branch %s) failed: %w: %s",
			repo.Locator, branch, err, strings.TrimSpace(string(out)))
	}

	return g.dir.Load(ctx, core.RepoRef{Locator: cloneDir, Branch: branch}, exts)
}
