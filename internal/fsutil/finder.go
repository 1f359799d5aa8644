// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths in
// lexical order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	return walkFiles(rootPath, func(name string) bool {
		return strings.HasSuffix(name, extension)
	})
}

// FindFilesExcluding recursively lists every regular file under rootPath whose
// name does not end with skipExtension. Paths are relative to rootPath, use
// forward slashes, and come back in lexical order. An empty skipExtension
// excludes nothing.
func FindFilesExcluding(rootPath string, skipExtension string) ([]string, error) {
	abs, err := walkFiles(rootPath, func(name string) bool {
		return skipExtension == "" || !strings.HasSuffix(name, skipExtension)
	})
	if err != nil {
		return nil, err
	}

	rel := make([]string, 0, len(abs))
	for _, p := range abs {
		r, err := filepath.Rel(rootPath, p)
		if err != nil {
			return nil, err
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel, nil
}

func walkFiles(rootPath string, keep func(name string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && keep(d.Name()) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
