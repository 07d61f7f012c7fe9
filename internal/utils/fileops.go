package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a file from src to dst
func CopyFile(src, dst string) error {
	// Create destination directory if it doesn't exist
	dstDir := filepath.Dir(dst)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	// Sync to disk
	return dstFile.Sync()
}

// WriteFile writes data to a file, creating directories as needed
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, perm)
}

// EnsureDir ensures a directory exists, creating it if necessary
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// LinkRelative creates dst as a symlink to src, expressed relative to the
// directory of dst. An existing dst is left untouched and reported as
// created=false.
func LinkRelative(src, dst string) (bool, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return false, err
	}
	absDir, err := filepath.Abs(filepath.Dir(dst))
	if err != nil {
		return false, err
	}
	target, err := filepath.Rel(absDir, absSrc)
	if err != nil {
		return false, err
	}

	if err := os.Symlink(target, dst); err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveIfExists removes path; a missing file is not an error
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ShouldCopyFile determines if src needs to be copied over dst.
// A symlink at dst always needs replacing. Otherwise the copy is skipped
// when dst exists with the same size and, if sha256 is known, the same
// content hash.
// Returns: (needsCopy, dstIsSymlink, error)
func ShouldCopyFile(src, dst, sha256 string) (bool, bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, false, fmt.Errorf("cannot stat source: %w", err)
	}

	dstInfo, err := os.Lstat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return true, false, nil
		}
		return false, false, fmt.Errorf("cannot stat destination: %w", err)
	}

	if dstInfo.Mode()&os.ModeSymlink != 0 {
		return true, true, nil
	}

	// Different sizes = need copy
	if srcInfo.Size() != dstInfo.Size() {
		return true, false, nil
	}

	if sha256 != "" {
		dstChecksum, err := CalculateChecksum(dst)
		if err != nil {
			// Can't calculate checksum, copy to be safe
			return true, false, nil
		}
		if dstChecksum.SHA256 != sha256 {
			return true, false, nil
		}
	}

	return false, false, nil
}
