// Package loader turns a repository into the in-memory code corpus.
//
// A Loader returns every accepted source file of a repository as a
// core.Document; a Splitter cuts documents into bounded, overlapping
// chunks for extraction.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/afs"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// DefaultExtensions are the file extensions scanned when none are given.
var DefaultExtensions = []string{".py", ".sql", ".scala", ".ipynb"}

// Loader loads the documents of a repository.
// An error means the corpus is unavailable; there is no partial result.
type Loader interface {
	Load(ctx context.Context, repo core.RepoRef, exts []string) ([]core.Document, error)
}

// DirLoader loads documents from a local directory tree.
type DirLoader struct {
	fs     afs.Service
	logger *slog.Logger
}

// NewDirLoader creates a loader for local directories.
func NewDirLoader(logger *slog.Logger) *DirLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DirLoader{fs: afs.New(), logger: logger}
}

// Load reads every file under repo.Locator whose extension is accepted.
// Documents are sorted by slash-separated path relative to the root.
func (l *DirLoader) Load(ctx context.Context, repo core.RepoRef, exts []string) ([]core.Document, error) {
	root := repo.Locator
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var paths []string
	err = doublestar.GlobWalk(os.DirFS(root), GlobPattern(exts), func(p string, d fs.DirEntry) error {
		if d.IsDir() || isVCSPath(p) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(paths)

	docs := make([]core.Document, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := l.fs.DownloadWithURL(ctx, filepath.Join(root, filepath.FromSlash(p)))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		docs = append(docs, core.Document{Path: p, Content: string(content)})
	}

	l.logger.Debug("loaded documents", "root", root, "count", len(docs))
	return docs, nil
}

// GlobPattern builds a doublestar pattern matching files with any of exts
// at any depth. Empty exts means DefaultExtensions.
func GlobPattern(exts []string) string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	names := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			names = append(names, ext)
		}
	}
	switch len(names) {
	case 0:
		return "**/*"
	case 1:
		return "**/*." + names[0]
	default:
		return "**/*.{" + strings.Join(names, ",") + "}"
	}
}

func isVCSPath(p string) bool {
	for _, part := range strings.Split(path.Dir(p), "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}
