package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"gallery/internal/model"
	"gallery/internal/sandbox"
)

func seed(t *testing.T, files ...string) sandbox.Root {
	t.Helper()
	root, err := sandbox.Open(filepath.Join(t.TempDir(), `images`))
	if err != nil {
		t.Fatalf(`open: %v`, err)
	}
	for _, name := range files {
		target := filepath.Join(root.Dir(), filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(target, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func paths(records []model.ImageRecord) []string {
	list := make([]string, len(records))
	for i, record := range records {
		list[i] = record.Path
	}
	sort.Strings(list)
	return list
}

func equal(one []string, two []string) bool {
	if len(one) != len(two) {
		return false
	}
	for i := range one {
		if one[i] != two[i] {
			return false
		}
	}
	return true
}

func TestIsImage(t *testing.T) {
	testCases := map[string]bool{
		`a.png`:           true,
		`A.PNG`:           true,
		`b.JpEg`:          true,
		`c.jpg`:           true,
		`d.gif`:           true,
		`doc.txt`:         false,
		`png`:             false,
		`archive.png.zip`: false,
		`noext`:           false,
		`.gif`:            true,
	}
	for name, want := range testCases {
		if got := IsImage(name); got != want {
			t.Errorf(`IsImage(%q) = %v; want %v`, name, got, want)
		}
	}
}

func TestScanFiltersByExtension(t *testing.T) {
	root := seed(t, `photos/a.png`, `photos/sub/b.jpg`, `doc.txt`)

	records, err := Scan(context.Background(), root, ``, func(rel string) string { return `http://x/` + rel })
	if err != nil {
		t.Fatalf(`scan: %v`, err)
	}
	if got, want := paths(records), []string{`photos/a.png`, `photos/sub/b.jpg`}; !equal(got, want) {
		t.Fatalf(`got %v want %v`, got, want)
	}
	for _, record := range records {
		if record.Url != `http://x/`+record.Path {
			t.Errorf(`record %+v has wrong url`, record)
		}
		if record.Name != filepath.Base(record.Path) {
			t.Errorf(`record %+v has wrong name`, record)
		}
	}
}

func TestScanSubfolder(t *testing.T) {
	root := seed(t, `photos/a.png`, `photos/sub/b.jpg`, `other/c.gif`)

	records, err := Scan(context.Background(), root, `photos`, nil)
	if err != nil {
		t.Fatalf(`scan: %v`, err)
	}
	if got, want := paths(records), []string{`photos/a.png`, `photos/sub/b.jpg`}; !equal(got, want) {
		t.Fatalf(`got %v want %v`, got, want)
	}
}

func TestScanDistinguishesEmptyFromMissing(t *testing.T) {
	root := seed(t, `photos/a.png`, `notes.txt`)
	if err := os.MkdirAll(filepath.Join(root.Dir(), `empty`), 0o755); err != nil {
		t.Fatal(err)
	}

	records, err := Scan(context.Background(), root, `empty`, nil)
	if err != nil {
		t.Fatalf(`scan empty: %v`, err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf(`expected empty non-nil listing, got %#v`, records)
	}

	for _, folder := range []string{`missing`, `notes.txt`, `photos/a.png`} {
		if _, err := Scan(context.Background(), root, folder, nil); !errors.Is(err, model.ErrNotFound) {
			t.Errorf(`Scan(%q) err = %v; want ErrNotFound`, folder, err)
		}
	}
}

func TestScanRejectsEscape(t *testing.T) {
	root := seed(t)
	if _, err := Scan(context.Background(), root, `../`, nil); !errors.Is(err, model.ErrInvalidPath) {
		t.Fatalf(`expected ErrInvalidPath, got %v`, err)
	}
}

func TestScanIsRestartable(t *testing.T) {
	root := seed(t, `a.png`)
	first, err := Scan(context.Background(), root, ``, nil)
	if err != nil || len(first) != 1 {
		t.Fatalf(`first scan: %v %v`, first, err)
	}
	if err := os.WriteFile(filepath.Join(root.Dir(), `b.gif`), []byte(`b`), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := Scan(context.Background(), root, ``, nil)
	if err != nil {
		t.Fatalf(`second scan: %v`, err)
	}
	if got, want := paths(second), []string{`a.png`, `b.gif`}; !equal(got, want) {
		t.Fatalf(`got %v want %v`, got, want)
	}
}

func TestScanSkipsSymlinks(t *testing.T) {
	root := seed(t, `a.png`)
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, `secret.png`), []byte(`s`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root.Dir(), `link`)); err != nil {
		t.Skipf(`symlinks unavailable: %v`, err)
	}
	records, err := Scan(context.Background(), root, ``, nil)
	if err != nil {
		t.Fatalf(`scan: %v`, err)
	}
	if got, want := paths(records), []string{`a.png`}; !equal(got, want) {
		t.Fatalf(`got %v want %v`, got, want)
	}
}

func TestScanHonorsCancellation(t *testing.T) {
	root := seed(t, `a.png`, `b.png`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, root, ``, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf(`expected context.Canceled, got %v`, err)
	}
}
