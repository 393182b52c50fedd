package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"gallery/internal/model"
)

// Root is the single directory every image operation is confined to. The
// directory is canonicalized once, when the root is opened.
type Root struct {
	abs string
}

func Open(dir string) (Root, error) {
	if dir == `` {
		return Root{}, fmt.Errorf(`root must not be empty`)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Root{}, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Root{}, err
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Root{}, err
	}
	info, err := os.Stat(real)
	if err != nil {
		return Root{}, err
	}
	if !info.IsDir() {
		return Root{}, fmt.Errorf(`root "%s" is not a directory`, dir)
	}
	root := Root{
		abs: real,
	}
	return root, nil
}

func (root Root) Dir() string {
	return root.abs
}

// Resolve maps an untrusted root-relative path onto the filesystem. Both the
// root and the candidate are canonicalized, symlinks included, before the
// containment check; components that do not exist yet are appended verbatim
// to the deepest existing ancestor.
func (root Root) Resolve(rel string) (string, error) {
	if strings.ContainsRune(rel, 0) {
		return ``, fmt.Errorf(`path contains NUL: %w`, model.ErrInvalidPath)
	}
	rel = strings.ReplaceAll(rel, `\`, `/`)
	if path.IsAbs(rel) || filepath.IsAbs(rel) || filepath.VolumeName(rel) != `` {
		return ``, fmt.Errorf(`path "%s" is absolute: %w`, rel, model.ErrInvalidPath)
	}
	target := filepath.Join(root.abs, filepath.FromSlash(rel))
	real, err := canonical(target)
	if err != nil {
		return ``, err
	}
	if !root.contains(real) {
		return ``, fmt.Errorf(`path "%s" escapes root: %w`, rel, model.ErrInvalidPath)
	}
	return real, nil
}

// Rel returns the forward-slash path of abs relative to the root, or the empty
// string for the root itself.
func (root Root) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(root.abs, abs)
	if err != nil {
		return ``, err
	}
	if rel == `.` {
		return ``, nil
	}
	if !root.contains(abs) {
		return ``, fmt.Errorf(`path "%s" escapes root: %w`, abs, model.ErrInvalidPath)
	}
	return filepath.ToSlash(rel), nil
}

func (root Root) contains(target string) bool {
	rel, err := filepath.Rel(root.abs, target)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != `..` && !strings.HasPrefix(rel, `..`+string(filepath.Separator))
}

func canonical(target string) (string, error) {
	tail := []string{}
	current := target
	for {
		real, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{real}, tail...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return ``, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ``, err
		}
		tail = append([]string{filepath.Base(current)}, tail...)
		current = parent
	}
}

// Servable turns a root-relative path into the escaped form used in public urls.
func Servable(rel string) string {
	segments := []string{}
	for _, name := range strings.Split(filepath.ToSlash(rel), `/`) {
		if name == `` || name == `.` {
			continue
		}
		segments = append(segments, url.PathEscape(name))
	}
	return strings.Join(segments, `/`)
}
