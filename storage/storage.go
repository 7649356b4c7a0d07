// Package storage keeps exported creatives in object storage, either an s3
// bucket or a local directory served by the web server
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore uploads and copies objects by key, returning their public url.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Copy(ctx context.Context, srcKey, dstKey string) (string, error)
	URL(key string) string
}

func cleanKey(key string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(key, "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return clean, nil
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}

// Local stores objects as files under a root directory.
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{root: root, baseURL: baseURL}, nil
}

func (l *Local) Root() string {
	return l.root
}

func (l *Local) URL(key string) string {
	return joinURL(l.baseURL, key)
}

func (l *Local) path(key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *Local) Upload(ctx context.Context, key string, body []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	return l.URL(key), nil
}

func (l *Local) Copy(ctx context.Context, srcKey, dstKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := l.path(srcKey)
	if err != nil {
		return "", err
	}
	dst, err := l.path(dstKey)
	if err != nil {
		return "", err
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open object %s: %w", srcKey, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create object %s: %w", dstKey, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to copy object %s: %w", srcKey, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close object %s: %w", dstKey, err)
	}
	return l.URL(dstKey), nil
}
