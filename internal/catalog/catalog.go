package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gallery/internal/model"
	"gallery/internal/sandbox"
)

var Extensions = map[string]struct{}{
	`.png`:  {},
	`.jpg`:  {},
	`.jpeg`: {},
	`.gif`:  {},
}

func IsImage(name string) bool {
	_, ok := Extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Scan walks the tree under folder (relative to root) on every call. A folder
// that does not exist, or is not a directory, yields model.ErrNotFound rather
// than an empty listing. Symlinked entries are not followed.
func Scan(ctx context.Context, root sandbox.Root, folder string, urlFor func(string) string) ([]model.ImageRecord, error) {
	base, err := root.Resolve(folder)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(base); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(`folder "%s": %w`, folder, model.ErrNotFound)
		}
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf(`folder "%s" is not a directory: %w`, folder, model.ErrNotFound)
	}

	records := []model.ImageRecord{}
	err = filepath.WalkDir(base, func(target string, entry fs.DirEntry, err error) error {
		if err != nil {
			if target == base {
				return err
			}
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() || !IsImage(entry.Name()) {
			return nil
		}
		rel, err := root.Rel(target)
		if err != nil {
			return nil
		}
		record := model.ImageRecord{
			Name: entry.Name(),
			Path: rel,
		}
		if urlFor != nil {
			record.Url = urlFor(rel)
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
