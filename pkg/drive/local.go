package drive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
)

// LocalFolder serves the .xlsx files of a directory as a file store.
// File IDs are the base names of the files.
type LocalFolder struct {
	Dir string
}

// NewLocalFolder creates a store over dir.
func NewLocalFolder(dir string) *LocalFolder {
	return &LocalFolder{Dir: dir}
}

// ListFiles returns the workbooks in the directory, sorted by name.
// Office lock files ("~$...") are skipped.
func (l *LocalFolder) ListFiles(ctx context.Context) ([]models.RemoteFile, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var files []models.RemoteFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		files = append(files, models.RemoteFile{
			Name:         name,
			ID:           name,
			ModifiedTime: info.ModTime().UTC(),
		})
	}
	return files, nil
}

// Download reads a workbook from the directory.
func (l *LocalFolder) Download(ctx context.Context, id string) ([]byte, error) {
	if id == "" || filepath.Base(id) != id || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: %s", ptrboard.ErrFileNotFound, id)
	}

	data, err := os.ReadFile(filepath.Join(l.Dir, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ptrboard.ErrFileNotFound, id)
		}
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return data, nil
}
