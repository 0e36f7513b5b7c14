package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"ArticleSeeder/internal/ports"
)

// FileSink writes the rendered seed to a UTF-8 file.
type FileSink struct {
	path string
}

var _ ports.SeedSink = (*FileSink)(nil)

// NewFileSink targets path; parent directories are created on write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the destination file.
func (s *FileSink) Path() string {
	return s.path
}

// Write replaces the destination file with content.
func (s *FileSink) Write(content string) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	return nil
}
