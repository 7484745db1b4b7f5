package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, debounce time.Duration, excludeDirs, excludeFiles []string) (*Watcher, chan []string) {
	t.Helper()
	changed := make(chan []string, 16)
	w, err := NewWatcher(debounce, excludeDirs, excludeFiles, func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, changed
}

func waitFor(t *testing.T, changed chan []string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change to %s", want)
		}
	}
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadPattern(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, []string{"[a"}, nil, func([]string) {}); err == nil {
		t.Fatal("expected invalid glob to be rejected")
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()
	w, changed := newTestWatcher(t, 100*time.Millisecond, []string{"exclude_dir"}, []string{"*Generated.java"})
	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "Main.java")
	if err := os.WriteFile(testFile, []byte("class Main {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changed, testFile, 2*time.Second)

	// Excluded and non-Java files stay silent.
	for _, name := range []string{"FooGenerated.java", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case paths := <-changed:
		t.Errorf("unexpected change batch %v", paths)
	case <-time.After(400 * time.Millisecond):
	}

	// New directories are watched and their files reported.
	subdir := filepath.Join(tmpDir, "shapes")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "Shape.java")
	if err := os.WriteFile(subFile, []byte("interface Shape {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changed, subFile, 2*time.Second)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()
	w, changed := newTestWatcher(t, 100*time.Millisecond, nil, nil)
	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "Old.java")
	newPath := filepath.Join(tmpDir, "New.java")
	if err := os.WriteFile(oldPath, []byte("class Old {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changed, newPath, 2*time.Second)
}

func TestWatcher_IgnoredRoots(t *testing.T) {
	tmpDir := t.TempDir()
	reports := filepath.Join(tmpDir, "reports")
	if err := os.MkdirAll(reports, 0o755); err != nil {
		t.Fatal(err)
	}

	w, _ := newTestWatcher(t, 10*time.Millisecond, nil, nil)
	w.IgnoreRoots(reports)

	if !w.shouldExcludeDir(reports) {
		t.Fatal("expected report directory to be excluded")
	}
	if !w.shouldExcludeFile(filepath.Join(reports, "Copy.java")) {
		t.Fatal("expected files under the report directory to be excluded")
	}
	if w.shouldExcludeFile(filepath.Join(tmpDir, "Main.java")) {
		t.Fatal("expected sources outside the report directory to pass")
	}
}

func TestWatcher_LanguageFilters(t *testing.T) {
	w, _ := newTestWatcher(t, 10*time.Millisecond, nil, nil)

	if !w.shouldExcludeFile("Main.py") {
		t.Fatal("expected non-Java files to be excluded by default")
	}
	if w.shouldExcludeFile("ShapeTest.java") {
		t.Fatal("expected tests to be included by default")
	}

	w.SetLanguageFilters([]string{".java"}, []string{"Test.java"}, false)
	if !w.shouldExcludeFile("ShapeTest.java") {
		t.Fatal("expected test files to be excluded when tests are off")
	}
	if w.shouldExcludeFile("Shape.java") {
		t.Fatal("expected regular sources to pass")
	}
}
