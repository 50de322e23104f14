// internal/util/util.go
package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WriteError reports a failed page write that could not be recovered by
// creating the missing parent directories.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadFile returns the whole file as a string.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes content to path. If the parent directory is missing it is
// created and the write retried once; any other failure is a *WriteError.
func WriteFile(path, content string) error {
	err := os.WriteFile(path, []byte(content), 0644)
	if errors.Is(err, fs.ErrNotExist) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0755); mkErr != nil {
			return &WriteError{Path: path, Err: mkErr}
		}
		err = os.WriteFile(path, []byte(content), 0644)
	}
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// ComputeBackRef returns one "../" per path separator in relPath, so that
// root-relative asset paths resolve from a page at any depth.
// For example, "a/b/page.md" gets "../../".
func ComputeBackRef(relPath string) string {
	depth := strings.Count(filepath.ToSlash(relPath), "/")
	return strings.Repeat("../", depth)
}
