package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rubyExts = []string{".rb", ".rake"}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(root, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("puts 1\n"), 0o644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestFileWalker_DiscoverSortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"app/models/user.rb",
		"app/models/account.rb",
		"lib/tasks/seed.rake",
		"lib/tasks/README.md",
		"config.ru",
		"Gemfile",
		"vendor/bundle/gem.rb",
		"node_modules/pkg/index.rb",
		".hidden/secret.rb",
	)

	files, err := NewFileWalker().Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"app/models/account.rb",
		"app/models/user.rb",
		"lib/tasks/seed.rake",
	}, rel(t, root, files))
}

func TestFileWalker_DiscoverIsStable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b.rb", "a.rb", "c/d.rb", "c/a.rb")

	walker := NewFileWalker()
	first, err := walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}})
	require.NoError(t, err)
	second, err := walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a.rb", "b.rb", "c/a.rb", "c/d.rb"}, rel(t, root, first))
}

func TestFileWalker_IncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"app/models/user.rb",
		"app/controllers/users_controller.rb",
		"spec/models/user_spec.rb",
	)

	walker := NewFileWalker()

	files, err := walker.Discover(context.Background(), FileScope{
		Extensions: rubyExts,
		Paths:      []string{root},
		Exclude:    []string{"**/spec/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"app/controllers/users_controller.rb", "app/models/user.rb"}, rel(t, root, files))

	files, err = walker.Discover(context.Background(), FileScope{
		Extensions: rubyExts,
		Paths:      []string{root},
		Include:    []string{"*_controller.rb"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"app/controllers/users_controller.rb"}, rel(t, root, files))
}

func TestFileWalker_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "app/user.rb", "generated/schema.rb", "db/old.rb")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated/\nold.rb\n"), 0o644))

	walker := NewFileWalker()

	files, err := walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}})
	require.NoError(t, err)
	assert.Equal(t, []string{"app/user.rb"}, rel(t, root, files))

	files, err = walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}, NoGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"app/user.rb", "db/old.rb", "generated/schema.rb"}, rel(t, root, files))
}

func TestFileWalker_ExplicitFilesAndRootOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "z.rb", "a/b.rb", "notes.txt")

	z := filepath.Join(root, "z.rb")
	files, err := NewFileWalker().Discover(context.Background(), FileScope{
		Extensions: rubyExts,
		Paths:      []string{z, filepath.Join(root, "a"), z, filepath.Join(root, "notes.txt")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"z.rb", "a/b.rb"}, rel(t, root, files))
}

func TestFileWalker_Limits(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.rb", "b.rb", "deep/er/c.rb")
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.rb"), make([]byte, 2048), 0o644))

	walker := NewFileWalker()

	files, err := walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}, MaxBytes: 1024})
	require.NoError(t, err)
	assert.NotContains(t, rel(t, root, files), "big.rb")

	files, err = walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}, MaxFiles: 2})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}, MaxDepth: 1})
	require.NoError(t, err)
	assert.NotContains(t, rel(t, root, files), "deep/er/c.rb")
}

func TestFileWalker_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.rb", "b.erb", "c.RB")

	files, err := NewFileWalker().Discover(context.Background(), FileScope{
		Paths:      []string{root},
		Extensions: []string{"erb", ".rb"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rb", "b.erb", "c.RB"}, rel(t, root, files))
}

func TestFileWalker_Symlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, root, "a.rb")
	writeTree(t, outside, "linked.rb")
	if err := os.Symlink(outside, filepath.Join(root, "shared")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	walker := NewFileWalker()

	files, err := walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rb"}, rel(t, root, files))

	files, err = walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{root}, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rb", "shared/linked.rb"}, rel(t, root, files))
}

func TestFileWalker_Errors(t *testing.T) {
	walker := NewFileWalker()

	_, err := walker.Discover(context.Background(), FileScope{Extensions: rubyExts})
	assert.Error(t, err)

	_, err = walker.Discover(context.Background(), FileScope{Paths: []string{t.TempDir()}})
	assert.ErrorContains(t, err, "extension")

	_, err = walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{"/nonexistent/directory"}})
	assert.Error(t, err)

	_, err = walker.Discover(context.Background(), FileScope{Extensions: rubyExts, Paths: []string{t.TempDir()}, Include: []string{"[unclosed"}})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = walker.Discover(ctx, FileScope{Extensions: rubyExts, Paths: []string{t.TempDir()}})
	assert.ErrorIs(t, err, context.Canceled)
}
