package fs

import (
	"os"
	"path/filepath"
	"testing"

	"scanrecon/internal/scan"
)

func TestParseJunkFile(t *testing.T) {
	t.Run("reads names from file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "junk.txt")
		content := "desktop.ini\n# comment\n\nIcon\r\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		names, err := ParseJunkFile(path)
		if err != nil {
			t.Fatalf("ParseJunkFile() error = %v", err)
		}
		if len(names) != 4 { // includes blank and comment lines; filtering is NewJunkSet's job
			t.Fatalf("expected 4 raw lines, got %d", len(names))
		}

		set := scan.NewJunkSet(names...)
		if !set.Contains("desktop.ini") {
			t.Error("expected desktop.ini to be junk")
		}
		if !set.Contains("Icon") {
			t.Error("expected Icon to be junk after trimming")
		}
		if set.Contains("# comment") {
			t.Error("comment lines must not become junk names")
		}
		if !set.Contains("Thumbs.db") {
			t.Error("defaults must always be included")
		}
	})

	t.Run("returns nil for missing file", func(t *testing.T) {
		t.Parallel()
		names, err := ParseJunkFile("/nonexistent/junk.txt")
		if err != nil {
			t.Fatalf("ParseJunkFile() error = %v", err)
		}
		if names != nil {
			t.Errorf("expected nil names, got %v", names)
		}
	})
}
