// Package sink stores finished archives.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink writes an archive under the given file name and reports where it went.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (location string, err error)
}

// Dir writes archives to a local directory, creating it if needed.
type Dir struct {
	Path string
}

// Write stores data as <Path>/<name>, replacing any previous archive with that name.
func (d Dir) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid archive name %q", name)
	}

	dir := d.Path
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}

	dest := filepath.Join(dir, name)
	// Written to a temporary file and renamed, so dest is never left truncated.
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move archive to %q: %w", dest, err)
	}

	return dest, nil
}
