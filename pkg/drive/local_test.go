package drive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
)

func TestLocalFolder(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"PTR Sprint 1.xlsx":   "one",
		"PTR Sprint 2.XLSX":   "two",
		"~$PTR Sprint 1.xlsx": "lock",
		"notes.txt":           "skip",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	store := NewLocalFolder(dir)
	ctx := context.Background()

	files, err := store.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2: %+v", len(files), files)
	}
	if files[0].ID != "PTR Sprint 1.xlsx" || files[1].ID != "PTR Sprint 2.XLSX" {
		t.Errorf("unexpected files: %+v", files)
	}

	data, err := store.Download(ctx, "PTR Sprint 2.XLSX")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if string(data) != "two" {
		t.Errorf("Download() = %q, want two", data)
	}

	for _, id := range []string{"missing.xlsx", "../etc/passwd", "", ".."} {
		if _, err := store.Download(ctx, id); !errors.Is(err, ptrboard.ErrFileNotFound) {
			t.Errorf("Download(%q) error = %v, want ErrFileNotFound", id, err)
		}
	}
}
