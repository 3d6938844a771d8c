package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = []string{".git", "vendor", "node_modules", "tmp", "log", "coverage"}

// FileWalker discovers source files below a set of roots. Results are
// returned in a stable order: roots in the order given, entries within a
// root in lexical order.
type FileWalker struct{}

// NewFileWalker creates a new file walker
func NewFileWalker() *FileWalker {
	return &FileWalker{}
}

// walkState carries per-root traversal state
type walkState struct {
	root      string
	scope     FileScope
	gitignore *ignore.GitIgnore
	visited   map[string]struct{}
	seen      map[string]struct{}
	files     []string
}

// Discover returns every file in scope. A path that is itself a regular
// file is returned as long as it passes the filters.
func (fw *FileWalker) Discover(ctx context.Context, scope FileScope) ([]string, error) {
	if err := fw.validateScope(scope); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var files []string
	for _, root := range scope.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		state := &walkState{
			root:  root,
			scope: scope,
			seen:  seen,
		}
		if scope.FollowSymlinks {
			state.visited = make(map[string]struct{})
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot access path %s: %w", root, err)
		}

		if !info.IsDir() {
			if fw.accept(state, root, info) {
				state.add(root)
			}
		} else {
			if !scope.NoGitignore {
				state.gitignore = loadGitignore(root)
			}
			if state.visited != nil {
				if resolved, err := filepath.EvalSymlinks(root); err == nil {
					state.visited[resolved] = struct{}{}
				}
			}
			if err := fw.scanDirectory(ctx, state, root, 0); err != nil {
				return nil, err
			}
		}

		files = append(files, state.files...)
		if scope.MaxFiles > 0 && len(files) >= scope.MaxFiles {
			return files[:scope.MaxFiles], nil
		}
	}

	return files, nil
}

func (s *walkState) add(path string) {
	if _, dup := s.seen[path]; dup {
		return
	}
	s.seen[path] = struct{}{}
	s.files = append(s.files, path)
}

// scanDirectory recursively discovers files matching the scope
func (fw *FileWalker) scanDirectory(ctx context.Context, state *walkState, dirPath string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.scope.MaxDepth > 0 && depth > state.scope.MaxDepth {
		return nil
	}
	if state.scope.MaxFiles > 0 && len(state.files) >= state.scope.MaxFiles {
		return nil
	}

	// os.ReadDir returns entries sorted by filename
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil // Skip directories we can't read
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		if fw.isExcluded(fullPath, state.scope.Exclude) || state.ignored(fullPath, entry.IsDir()) {
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 {
			if !state.scope.FollowSymlinks {
				continue
			}
			resolved, err := filepath.EvalSymlinks(fullPath)
			if err != nil || resolved == "" {
				continue
			}
			info, err := os.Stat(resolved)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if _, seen := state.visited[resolved]; seen {
					continue
				}
				state.visited[resolved] = struct{}{}
				if err := fw.scanDirectory(ctx, state, fullPath, depth+1); err != nil {
					return err
				}
				continue
			}
			if fw.accept(state, fullPath, info) {
				state.add(fullPath)
			}
			continue
		}

		if entry.IsDir() {
			if shouldSkipDirectory(entry.Name()) {
				continue
			}
			if state.visited != nil {
				if resolved, err := filepath.EvalSymlinks(fullPath); err == nil {
					if _, seen := state.visited[resolved]; seen {
						continue
					}
					state.visited[resolved] = struct{}{}
				}
			}
			if err := fw.scanDirectory(ctx, state, fullPath, depth+1); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if fw.accept(state, fullPath, info) {
			state.add(fullPath)
			if state.scope.MaxFiles > 0 && len(state.files) >= state.scope.MaxFiles {
				return nil
			}
		}
	}
	return nil
}

// accept applies extension, size and include/exclude filters to one file
func (fw *FileWalker) accept(state *walkState, path string, info fs.FileInfo) bool {
	if !hasExtension(path, state.scope.Extensions) {
		return false
	}
	if state.scope.MaxBytes > 0 && info.Size() > state.scope.MaxBytes {
		return false
	}
	if fw.isExcluded(path, state.scope.Exclude) {
		return false
	}
	return fw.isIncluded(path, state.scope.Include)
}

func (s *walkState) ignored(path string, isDir bool) bool {
	if s.gitignore == nil {
		return false
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return s.gitignore.MatchesPath(rel)
}

// loadGitignore compiles root/.gitignore, or returns nil when there is none
func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}

func shouldSkipDirectory(name string) bool {
	if slices.Contains(skipDirs, name) {
		return true
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		want = strings.ToLower(want)
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if ext == want {
			return true
		}
	}
	return false
}

// isIncluded checks if file matches include patterns
func (fw *FileWalker) isIncluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true // Include all if no patterns specified
	}

	for _, pattern := range patterns {
		if fw.matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// isExcluded checks if file matches exclude patterns
func (fw *FileWalker) isExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if fw.matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchPattern performs glob-style pattern matching with ** support
func (fw *FileWalker) matchPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	if matched, err := doublestar.Match(pattern, path); err == nil && matched {
		return true
	}

	// Patterns like "**/spec/**" should also match relative to the cwd
	if rel := strings.TrimPrefix(path, "./"); rel != path {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}

	// Try basename for simple patterns without path separators
	if !strings.Contains(pattern, "/") {
		if matched, err := doublestar.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}

// validateScope validates FileScope parameters
func (fw *FileWalker) validateScope(scope FileScope) error {
	if len(scope.Paths) == 0 {
		return fmt.Errorf("at least one path is required")
	}
	if len(scope.Extensions) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	for _, pattern := range append(slices.Clone(scope.Include), scope.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return nil
}
