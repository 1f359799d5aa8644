package splice

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

type file struct {
	data  []byte
	mode  fs.FileMode
	dirty bool
}

// tree caches the project files the splicer touches. Edits are staged per
// pallet and committed only when every edit of that pallet succeeded; files
// are written back once, at the end of the run.
type tree struct {
	root  string
	files map[string]*file
}

func newTree(root string) *tree {
	return &tree{root: root, files: make(map[string]*file)}
}

func (t *tree) read(rel string) ([]byte, error) {
	if f, ok := t.files[rel]; ok {
		return f.data, nil
	}
	path := filepath.Join(t.root, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t.files[rel] = &file{data: data, mode: info.Mode().Perm()}
	return data, nil
}

// dirtyPaths returns the modified files in lexical order.
func (t *tree) dirtyPaths() []string {
	var paths []string
	for rel, f := range t.files {
		if f.dirty {
			paths = append(paths, rel)
		}
	}
	sort.Strings(paths)
	return paths
}

func (t *tree) write(rel string) error {
	f := t.files[rel]
	if err := os.WriteFile(filepath.Join(t.root, filepath.FromSlash(rel)), f.data, f.mode); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// stage is the set of edits for one pallet.
type stage struct {
	tree    *tree
	changes map[string][]byte
}

func (t *tree) stage() *stage {
	return &stage{tree: t, changes: make(map[string][]byte)}
}

func (s *stage) get(rel string) ([]byte, error) {
	if data, ok := s.changes[rel]; ok {
		return data, nil
	}
	return s.tree.read(rel)
}

func (s *stage) set(rel string, data []byte) {
	s.changes[rel] = data
}

func (s *stage) commit() {
	for rel, data := range s.changes {
		f := s.tree.files[rel]
		if bytes.Equal(f.data, data) {
			continue
		}
		f.data = data
		f.dirty = true
	}
}
