package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"gallery/internal/catalog"
	"gallery/internal/control"
	"gallery/internal/model"
	"gallery/internal/sandbox"
)

const ServePrefix = `/images/serve/`

// Gallery performs every image operation through the sandbox root. The
// filesystem is the only state; nothing is cached between calls.
type Gallery struct {
	root    sandbox.Root
	baseUrl string
	wand    Wand
	logger  control.Logger
	metrics *Metrics
}

func New(root sandbox.Root, baseUrl string, logger control.Logger, metrics *Metrics) Gallery {
	gallery := Gallery{
		root:    root,
		baseUrl: strings.TrimRight(baseUrl, `/`),
		wand:    Magic(),
		logger:  logger,
		metrics: metrics,
	}
	return gallery
}

func (gallery Gallery) Root() sandbox.Root {
	return gallery.root
}

func (gallery Gallery) URL(rel string) string {
	return gallery.baseUrl + ServePrefix + sandbox.Servable(rel)
}

func (gallery Gallery) List(ctx context.Context, folder string) ([]model.ImageRecord, error) {
	records, err := catalog.Scan(ctx, gallery.root, folder, gallery.URL)
	gallery.metrics.observe(`list`, err)
	return records, err
}

// Upload stores data under folder/filename. The bytes are written to a
// temporary file in the target directory and published with a hard link, so
// the final name either holds the complete content or does not exist, and an
// existing file is never replaced.
func (gallery Gallery) Upload(ctx context.Context, folder string, filename string, data io.Reader) (record model.ImageRecord, err error) {
	defer func() { gallery.metrics.observe(`upload`, err) }()

	name, err := cleanName(filename)
	if err != nil {
		return model.ImageRecord{}, err
	}
	if !catalog.IsImage(name) {
		return model.ImageRecord{}, fmt.Errorf(`file "%s": %w`, name, model.ErrInvalidFormat)
	}
	rel := name
	if strings.Trim(folder, `/\`) != `` {
		rel = folder + `/` + name
	}
	target, err := gallery.root.Resolve(rel)
	if err != nil {
		return model.ImageRecord{}, err
	}
	if _, err := os.Lstat(target); err == nil {
		return model.ImageRecord{}, fmt.Errorf(`file "%s": %w`, rel, model.ErrAlreadyExists)
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		if errors.Is(err, syscall.ENOTDIR) || errors.Is(err, fs.ErrExist) {
			return model.ImageRecord{}, fmt.Errorf(`folder "%s": %w`, folder, model.ErrInvalidPath)
		}
		return model.ImageRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.ImageRecord{}, err
	}

	tmpName := filepath.Join(dir, `.upload-`+uuid.NewString())
	tmp, err := os.OpenFile(tmpName, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return model.ImageRecord{}, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()
	size, err := io.Copy(tmp, data)
	if err != nil {
		return model.ImageRecord{}, fmt.Errorf(`write "%s": %w`, rel, err)
	}
	if err := tmp.Sync(); err != nil {
		return model.ImageRecord{}, err
	}
	if err := tmp.Close(); err != nil {
		return model.ImageRecord{}, err
	}
	if err := os.Link(tmpName, target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return model.ImageRecord{}, fmt.Errorf(`file "%s": %w`, rel, model.ErrAlreadyExists)
		}
		return model.ImageRecord{}, fmt.Errorf(`publish "%s": %w`, rel, err)
	}

	stored, err := gallery.root.Rel(target)
	if err != nil {
		return model.ImageRecord{}, err
	}
	gallery.logger.Audit(`gallery.upload path=%s size=%d`, stored, size)
	return gallery.record(stored), nil
}

// Rename moves an image to newName inside its own directory. The destination
// is linked before the source is removed, so an existing file is never
// overwritten.
func (gallery Gallery) Rename(ctx context.Context, oldRel string, newName string) (record model.ImageRecord, err error) {
	defer func() { gallery.metrics.observe(`rename`, err) }()

	source, err := gallery.root.Resolve(oldRel)
	if err != nil {
		return model.ImageRecord{}, err
	}
	if info, err := os.Stat(source); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return model.ImageRecord{}, fmt.Errorf(`file "%s": %w`, oldRel, model.ErrNotFound)
		}
		return model.ImageRecord{}, err
	} else if !info.Mode().IsRegular() {
		return model.ImageRecord{}, fmt.Errorf(`file "%s" is not a regular file: %w`, oldRel, model.ErrNotFound)
	}
	name, err := cleanName(newName)
	if err != nil {
		return model.ImageRecord{}, err
	}
	if !catalog.IsImage(name) {
		return model.ImageRecord{}, fmt.Errorf(`file "%s": %w`, name, model.ErrInvalidFormat)
	}
	parent, err := gallery.root.Rel(filepath.Dir(source))
	if err != nil {
		return model.ImageRecord{}, err
	}
	target, err := gallery.root.Resolve(path.Join(parent, name))
	if err != nil {
		return model.ImageRecord{}, err
	}
	if target == source {
		return model.ImageRecord{}, fmt.Errorf(`file "%s": %w`, name, model.ErrAlreadyExists)
	}
	if err := ctx.Err(); err != nil {
		return model.ImageRecord{}, err
	}
	if err := os.Link(source, target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return model.ImageRecord{}, fmt.Errorf(`file "%s": %w`, name, model.ErrAlreadyExists)
		}
		return model.ImageRecord{}, fmt.Errorf(`rename "%s": %w`, oldRel, err)
	}
	if err := os.Remove(source); err != nil {
		_ = os.Remove(target)
		return model.ImageRecord{}, fmt.Errorf(`rename "%s": %w`, oldRel, err)
	}

	from, _ := gallery.root.Rel(source)
	stored, err := gallery.root.Rel(target)
	if err != nil {
		return model.ImageRecord{}, err
	}
	gallery.logger.Audit(`gallery.rename path=%s to=%s`, from, stored)
	return gallery.record(stored), nil
}

func (gallery Gallery) Delete(ctx context.Context, rel string) (err error) {
	defer func() { gallery.metrics.observe(`delete`, err) }()
	return gallery.remove(ctx, rel)
}

// BulkDelete attempts every distinct path on its own. Each one ends up in
// exactly one of the two result lists, in first-seen order.
func (gallery Gallery) BulkDelete(ctx context.Context, rels []string) model.BulkResult {
	result := model.BulkResult{
		Removed: []string{},
		Missing: []string{},
	}
	seen := map[string]struct{}{}
	for _, rel := range rels {
		if _, ok := seen[rel]; ok {
			continue
		}
		seen[rel] = struct{}{}
		err := gallery.remove(ctx, rel)
		gallery.metrics.observe(`bulk_delete`, err)
		if err != nil {
			if Outcome(err) == `error` {
				gallery.logger.Warn(`gallery.bulk-delete path=%s error: %s`, rel, err)
			}
			result.Missing = append(result.Missing, rel)
			continue
		}
		result.Removed = append(result.Removed, rel)
	}
	return result
}

func (gallery Gallery) remove(ctx context.Context, rel string) error {
	target, err := gallery.root.Resolve(rel)
	if err != nil {
		return err
	}
	if info, err := os.Lstat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return fmt.Errorf(`file "%s": %w`, rel, model.ErrNotFound)
		}
		return err
	} else if info.IsDir() {
		return fmt.Errorf(`file "%s" is a directory: %w`, rel, model.ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf(`file "%s": %w`, rel, model.ErrNotFound)
		}
		return err
	}
	gallery.logger.Audit(`gallery.delete path=%s`, rel)
	return nil
}

// Open returns a readable handle on a stored file. The caller closes Data.
func (gallery Gallery) Open(ctx context.Context, rel string) (file model.ImageFile, err error) {
	defer func() { gallery.metrics.observe(`serve`, err) }()

	target, err := gallery.root.Resolve(rel)
	if err != nil {
		return model.ImageFile{}, err
	}
	data, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return model.ImageFile{}, fmt.Errorf(`file "%s": %w`, rel, model.ErrNotFound)
		}
		return model.ImageFile{}, err
	}
	info, err := data.Stat()
	if err != nil {
		data.Close()
		return model.ImageFile{}, err
	}
	if !info.Mode().IsRegular() {
		data.Close()
		return model.ImageFile{}, fmt.Errorf(`file "%s" is not a regular file: %w`, rel, model.ErrNotFound)
	}
	stored, err := gallery.root.Rel(target)
	if err != nil {
		data.Close()
		return model.ImageFile{}, err
	}
	return model.ImageFile{
		Name:     info.Name(),
		Path:     stored,
		Modified: info.ModTime(),
		MimeType: gallery.wand.Zap(info.Name(), data),
		Size:     info.Size(),
		Data:     data,
	}, nil
}

func (gallery Gallery) record(rel string) model.ImageRecord {
	return model.ImageRecord{
		Name: path.Base(rel),
		Path: rel,
		Url:  gallery.URL(rel),
	}
}

// cleanName accepts a bare file name only. Names are stored in NFC so that
// the same name typed on different platforms maps to one file.
func cleanName(raw string) (string, error) {
	name := norm.NFC.String(strings.TrimSpace(raw))
	switch {
	case name == ``, name == `.`, name == `..`:
		return ``, fmt.Errorf(`file name "%s": %w`, raw, model.ErrInvalidPath)
	case strings.ContainsAny(name, "/\\\x00"):
		return ``, fmt.Errorf(`file name "%s" must not contain separators: %w`, raw, model.ErrInvalidPath)
	}
	return name, nil
}
