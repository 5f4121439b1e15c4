package discover

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func newTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fs, "/site/"+f, []byte("<html></html>"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	return fs
}

func TestHTMLFilesExcludesDirectories(t *testing.T) {
	fs := newTree(t,
		"about.html",
		"node_modules/x.html",
		".git/hooks/index.html",
		"scripts/report.html",
		"vendor/.github/ci.htm",
		"__pycache__/cache.html",
	)

	got, err := HTMLFiles(fs, "/site", nil)
	if err != nil {
		t.Fatalf("HTMLFiles: %v", err)
	}
	if diff := cmp.Diff([]string{"about.html"}, got); diff != "" {
		t.Errorf("HTMLFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLFilesSortedAndFiltered(t *testing.T) {
	fs := newTree(t,
		"zeta.htm",
		"index.html",
		"blog/index.html",
		"blog/post-b.html",
		"blog/post-a.html",
		"assets/app.js",
		"assets/logo.png",
		"UPPER.HTML",
		"notes.html.bak",
	)

	got, err := HTMLFiles(fs, "/site", nil)
	if err != nil {
		t.Fatalf("HTMLFiles: %v", err)
	}
	want := []string{
		"blog/index.html",
		"blog/post-a.html",
		"blog/post-b.html",
		"index.html",
		"zeta.htm",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("HTMLFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLFilesExcludedNameAsFile(t *testing.T) {
	// Only directory components are matched against the exclusion set.
	fs := newTree(t, "docs/scripts.html")

	got, err := HTMLFiles(fs, "/site", nil)
	if err != nil {
		t.Fatalf("HTMLFiles: %v", err)
	}
	if diff := cmp.Diff([]string{"docs/scripts.html"}, got); diff != "" {
		t.Errorf("HTMLFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLFilesEmpty(t *testing.T) {
	fs := newTree(t, "robots.txt")

	got, err := HTMLFiles(fs, "/site", nil)
	if err != nil {
		t.Fatalf("HTMLFiles: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("HTMLFiles() = %#v, want empty non-nil slice", got)
	}
}

func TestHTMLFilesMissingRoot(t *testing.T) {
	if _, err := HTMLFiles(afero.NewMemMapFs(), "/nowhere", nil); err == nil {
		t.Error("HTMLFiles on a missing root: expected error")
	}
}

// deniedFs refuses to open one directory, like a tree with a folder the
// deploy user cannot read.
type deniedFs struct {
	afero.Fs
	denied string
}

func (d deniedFs) Open(name string) (afero.File, error) {
	if name == d.denied {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return d.Fs.Open(name)
}

func TestHTMLFilesSkipsUnreadableDirectory(t *testing.T) {
	fs := deniedFs{Fs: newTree(t, "about.html", "private/x.html", "zz/page.html"), denied: "/site/private"}

	var warnings []string
	warn := func(format string, v ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, v...))
	}

	got, err := HTMLFiles(fs, "/site", warn)
	if err != nil {
		t.Fatalf("HTMLFiles: %v", err)
	}
	if diff := cmp.Diff([]string{"about.html", "zz/page.html"}, got); diff != "" {
		t.Errorf("HTMLFiles() mismatch (-want +got):\n%s", diff)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %q, want one for /site/private", warnings)
	}
}

func TestHTMLFilesUnreadableRoot(t *testing.T) {
	fs := deniedFs{Fs: newTree(t, "about.html"), denied: "/site"}

	if _, err := HTMLFiles(fs, "/site", nil); err == nil {
		t.Error("HTMLFiles on an unreadable root: expected error")
	}
}

func TestRelPath(t *testing.T) {
	got, err := relPath("/site", "/site/blog/post.html")
	if err != nil {
		t.Fatalf("relPath: %v", err)
	}
	if got != "blog/post.html" {
		t.Errorf("relPath() = %q, want blog/post.html", got)
	}

	if _, err := relPath("/site", "blog/post.html"); err == nil {
		t.Error("relPath with a relative path under an absolute root: expected error")
	}
}
