package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Collect turns paths into file handles. Files are taken as given;
// folders are walked recursively in lexical order and contribute the
// audio files they contain, skipping hidden entries. Paths that cannot be
// read are reported in the joined error while the rest are still returned.
func Collect(paths []string) ([]*File, error) {
	var (
		files []*File
		errs  []error
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.IsDir() {
			f, err := FromPath(p)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			files = append(files, f)
			continue
		}

		found, err := scanFolder(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("scan %s: %w", p, err))
		}
		files = append(files, found...)
	}
	return files, errors.Join(errs...)
}

func scanFolder(root string) ([]*File, error) {
	var files []*File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil //nolint:nilerr // skip unreadable entries, keep walking
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasPrefix(TypeByExtension(path), "audio/") {
			return nil
		}
		f, err := FromPath(path)
		if err != nil {
			return nil //nolint:nilerr // file vanished or unreadable
		}
		files = append(files, f)
		return nil
	})
	return files, err
}
