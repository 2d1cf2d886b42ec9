package analyze

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/errors"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
)

// gitignoreFile is the per-directory ignore file honored by the walk.
const gitignoreFile = ".gitignore"

// ignoreScope is one .gitignore in effect for a subtree. Patterns are
// matched against paths relative to the directory that owns the file.
type ignoreScope struct {
	base    string
	matcher *ignore.GitIgnore
}

func (s ignoreScope) ignores(path string) bool {
	rel, err := filepath.Rel(s.base, path)
	if err != nil {
		return false
	}
	return s.matcher.MatchesPath(rel)
}

// walkEntry is one directory waiting to be expanded, together with the
// ignore scopes inherited from its ancestors.
type walkEntry struct {
	parent graph.NodeID
	path   string
	scopes []ignoreScope
}

// populateFileStructure walks the tree under rootPath and adds one
// Folder or File node per entry, each connected to its parent with an
// is_parent_of edge. Hidden entries (dotfiles) and entries matched by
// any .gitignore in scope are skipped, whole subtrees included.
// Returns the root folder's node ID.
//
// Directory entries are visited in name order, so the same tree always
// produces the same node IDs.
func populateFileStructure(s *graph.Store, rootPath string, logger *log.Logger) (graph.NodeID, error) {
	if err := errors.ValidateWorkspacePath(rootPath); err != nil {
		return 0, err
	}

	root := s.AddNode(graph.Folder{
		Name: filepath.Base(rootPath),
		Path: rootPath,
	})

	stack := []walkEntry{{parent: root, path: rootPath}}
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		scopes := entry.scopes
		if matcher, err := loadGitignore(entry.path); err != nil {
			return 0, err
		} else if matcher != nil {
			scopes = append(scopes[:len(scopes):len(scopes)], ignoreScope{base: entry.path, matcher: matcher})
		}

		dirEntries, err := os.ReadDir(entry.path)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "read directory %s", entry.path)
		}
		for _, de := range dirEntries {
			name := de.Name()
			path := filepath.Join(entry.path, name)
			if hidden(name) || ignored(scopes, path) {
				logger.Debug("ignoring path", "path", path)
				continue
			}

			var node graph.NodeID
			if de.IsDir() {
				node = s.AddNode(graph.Folder{Name: name, Path: path})
			} else {
				node = s.AddNode(graph.File{Name: name, Path: path})
			}
			if _, err := s.AddEdge(graph.EdgeData{From: entry.parent, To: node, Relation: graph.RelationIsParentOf}); err != nil {
				return 0, err
			}
			if de.IsDir() {
				stack = append(stack, walkEntry{parent: node, path: path, scopes: scopes})
			}
		}
	}
	return root, nil
}

func hidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

func ignored(scopes []ignoreScope, path string) bool {
	for _, s := range scopes {
		if s.ignores(path) {
			return true
		}
	}
	return false
}

// loadGitignore compiles dir's .gitignore, or returns nil if the
// directory has none.
func loadGitignore(dir string) (*ignore.GitIgnore, error) {
	path := filepath.Join(dir, gitignoreFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	matcher, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "parse %s", path)
	}
	return matcher, nil
}
