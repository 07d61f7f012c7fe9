package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner interface for download directories
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan lists every regular file directly inside dir except metadata
// sidecars, sorted by path. Files of unknown kind are returned too; the
// metadata reader rejects them.
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]ScannedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	var files []ScannedFile
	for _, entry := range entries {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path := filepath.Join(dir, entry.Name())
		if IsCacheFile(path) {
			continue
		}

		// Follow symlinks, skip directories and anything vanished meanwhile
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		kind := s.DetectKind(path)
		logrus.Debugf("Found %s artifact: %s", kind, path)

		files = append(files, ScannedFile{
			Path: path,
			Kind: kind,
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	logrus.Debugf("Found %d artifacts in %s", len(files), dir)
	return files, nil
}

// DetectKind determines the archive kind of a file
func (s *FileSystemScanner) DetectKind(path string) ArchiveKind {
	return DetectKind(path)
}
