package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gallery/internal/model"
)

func openRoot(t *testing.T) Root {
	t.Helper()
	root, err := Open(filepath.Join(t.TempDir(), `images`))
	if err != nil {
		t.Fatalf(`open: %v`, err)
	}
	return root
}

func TestOpenCreatesMissingRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), `a`, `b`)
	root, err := Open(dir)
	if err != nil {
		t.Fatalf(`open: %v`, err)
	}
	info, err := os.Stat(root.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf(`root not created: %v`, err)
	}
}

func TestOpenRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), `plain`)
	if err := os.WriteFile(file, []byte(`x`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(file); err == nil {
		t.Fatalf(`expected error opening a regular file as root`)
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	root := openRoot(t)
	sibling := root.Dir() + `-evil`
	if err := os.MkdirAll(sibling, 0o755); err != nil {
		t.Fatal(err)
	}

	testCases := []string{
		`../../etc/passwd`,
		`..`,
		`../`,
		`a/../../b.png`,
		`photos/../../../x.png`,
		`../images-evil/x.png`,
		`..\..\windows\win.ini`,
		`/etc/passwd`,
		"a\x00b.png",
	}
	for _, rel := range testCases {
		if got, err := root.Resolve(rel); !errors.Is(err, model.ErrInvalidPath) {
			t.Errorf(`Resolve(%q) = %q, %v; want ErrInvalidPath`, rel, got, err)
		}
	}
}

func TestResolveNormalizes(t *testing.T) {
	root := openRoot(t)

	direct, err := root.Resolve(`a.png`)
	if err != nil {
		t.Fatalf(`resolve: %v`, err)
	}
	dotted, err := root.Resolve(`sub/../a.png`)
	if err != nil {
		t.Fatalf(`resolve: %v`, err)
	}
	if direct != dotted {
		t.Fatalf(`sub/../a.png resolved to %q, a.png to %q`, dotted, direct)
	}
	if want := filepath.Join(root.Dir(), `a.png`); direct != want {
		t.Fatalf(`got %q want %q`, direct, want)
	}

	self, err := root.Resolve(``)
	if err != nil || self != root.Dir() {
		t.Fatalf(`empty path resolved to %q, %v`, self, err)
	}
	nested, err := root.Resolve(`./x//y/./z.gif`)
	if err != nil || nested != filepath.Join(root.Dir(), `x`, `y`, `z.gif`) {
		t.Fatalf(`nested resolved to %q, %v`, nested, err)
	}
}

func TestResolveRejectsSymlinkEscape(t *testing.T) {
	root := openRoot(t)
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, `secret.png`), []byte(`s`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root.Dir(), `link`)); err != nil {
		t.Skipf(`symlinks unavailable: %v`, err)
	}
	for _, rel := range []string{`link/secret.png`, `link`, `link/new/file.png`} {
		if _, err := root.Resolve(rel); !errors.Is(err, model.ErrInvalidPath) {
			t.Errorf(`Resolve(%q) err = %v; want ErrInvalidPath`, rel, err)
		}
	}
}

func TestResolveFollowsInternalSymlink(t *testing.T) {
	root := openRoot(t)
	if err := os.MkdirAll(filepath.Join(root.Dir(), `real`), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root.Dir(), `real`), filepath.Join(root.Dir(), `alias`)); err != nil {
		t.Skipf(`symlinks unavailable: %v`, err)
	}
	got, err := root.Resolve(`alias/a.png`)
	if err != nil {
		t.Fatalf(`resolve: %v`, err)
	}
	if want := filepath.Join(root.Dir(), `real`, `a.png`); got != want {
		t.Fatalf(`got %q want %q`, got, want)
	}
}

func TestRel(t *testing.T) {
	root := openRoot(t)
	rel, err := root.Rel(filepath.Join(root.Dir(), `photos`, `sub`, `b.jpg`))
	if err != nil || rel != `photos/sub/b.jpg` {
		t.Fatalf(`rel = %q, %v`, rel, err)
	}
	if rel, err := root.Rel(root.Dir()); err != nil || rel != `` {
		t.Fatalf(`root rel = %q, %v`, rel, err)
	}
	if _, err := root.Rel(filepath.Dir(root.Dir())); !errors.Is(err, model.ErrInvalidPath) {
		t.Fatalf(`expected ErrInvalidPath for parent, got %v`, err)
	}
}

func TestServable(t *testing.T) {
	testCases := []struct {
		rel  string
		want string
	}{
		{`a.png`, `a.png`},
		{`photos/sub/b.jpg`, `photos/sub/b.jpg`},
		{`/photos//x y.png`, `photos/x%20y.png`},
		{`fotos/año 1/ñ#1.gif`, `fotos/a%C3%B1o%201/%C3%B1%231.gif`},
	}
	for _, tc := range testCases {
		if got := Servable(tc.rel); got != tc.want {
			t.Errorf(`Servable(%q) = %q; want %q`, tc.rel, got, tc.want)
		}
	}
}
