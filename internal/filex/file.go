// Package filex holds small filesystem helpers: data directory setup and
// size-capped reads of local attachments before upload.
package filex

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultMaxBlobSize caps a single attachment read.
const DefaultMaxBlobSize = 20 << 20

var ErrTooLarge = errors.New("file too large")

// EnsureParentDir creates the directory holding path, so a database file can
// be opened there.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// BlobReader reads local attachments such as photos and cover images.
type BlobReader struct {
	MaxSize int64
}

func NewBlobReader(maxSize int64) *BlobReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxBlobSize
	}
	return &BlobReader{MaxSize: maxSize}
}

// Read returns the file content and its sniffed content type.
func (r *BlobReader) Read(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, r.MaxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > r.MaxSize {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, path, r.MaxSize)
	}
	return data, http.DetectContentType(data), nil
}
