package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// findSourceFiles returns path itself when it is a file, or every .py and
// .pyi file below it when it is a directory. Hidden directories are skipped.
func findSourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "accessing path %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if p != path && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if ext := filepath.Ext(p); ext == ".py" || ext == ".pyi" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "finding source files in %s", path)
	}

	sort.Strings(files)
	return files, nil
}
