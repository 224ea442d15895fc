package loader

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/joinlineage/internal/testutil"
	"github.com/leapstack-labs/joinlineage/pkg/core"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestGlobPattern(t *testing.T) {
	tests := []struct {
		name string
		exts []string
		want string
	}{
		{name: "defaults", exts: nil, want: "**/*.{py,sql,scala,ipynb}"},
		{name: "single", exts: []string{".sql"}, want: "**/*.sql"},
		{name: "without dots", exts: []string{"py", " scala "}, want: "**/*.{py,scala}"},
		{name: "only blanks", exts: []string{" ", "."}, want: "**/*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GlobPattern(tt.exts))
		})
	}
}

func TestDirLoader_Load(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"jobs/etl.py":        "df = spark.read.table('orders')",
		"models/orders.sql":  "select * from orders",
		"README.md":          "# docs",
		".git/hooks/hook.py": "print('not source')",
		"notebooks/a.ipynb":  "{}",
	})

	l := NewDirLoader(testutil.NewTestLogger(t))
	docs, err := l.Load(context.Background(), core.RepoRef{Locator: root}, nil)
	require.NoError(t, err)

	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}
	assert.Equal(t, []string{"jobs/etl.py", "models/orders.sql", "notebooks/a.ipynb"}, paths)
	assert.Equal(t, "df = spark.read.table('orders')", docs[0].Content)
}

func TestDirLoader_Load_Errors(t *testing.T) {
	l := NewDirLoader(nil)

	_, err := l.Load(context.Background(), core.RepoRef{Locator: filepath.Join(t.TempDir(), "missing")}, nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.py")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = l.Load(context.Background(), core.RepoRef{Locator: file}, nil)
	assert.Error(t, err)
}

func TestGitLoader_LocalDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"etl.py": "x = 1"})

	docs, err := NewGitLoader(testutil.NewTestLogger(t)).Load(context.Background(), core.RepoRef{Locator: root}, []string{".py"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "etl.py", docs[0].Path)
}

func TestGitLoader_EmptyLocator(t *testing.T) {
	_, err := NewGitLoader(nil).Load(context.Background(), core.RepoRef{}, nil)
	assert.Error(t, err)
}

func TestGitLoader_CloneFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-repo")
	_, err := NewGitLoader(nil).Load(context.Background(), core.RepoRef{Locator: missing + ".git"}, nil)
	assert.Error(t, err)
}

func TestGitLoader_OptionLikeLocator(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	marker := filepath.Join(t.TempDir(), "marker")
	locator := "--upload-pack=touch " + marker + ";"

	_, err := NewGitLoader(testutil.NewTestLogger(t)).Load(context.Background(), core.RepoRef{Locator: locator}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), locator)
	assert.NoFileExists(t, marker)
}

func TestGitLoader_Clone(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	src := t.TempDir()
	writeFiles(t, src, map[string]string{"jobs/etl.py": "orders.createOrReplaceTempView('stg_orders')"})

	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = src
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	git("init", "--quiet")
	git("checkout", "--quiet", "-b", "feature")
	git("add", ".")
	git("commit", "--quiet", "-m", "init")

	docs, err := NewGitLoader(testutil.NewTestLogger(t)).Load(context.Background(),
		core.RepoRef{Locator: "file://" + filepath.ToSlash(src), Branch: "feature"}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "jobs/etl.py", docs[0].Path)
}
