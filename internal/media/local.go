package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalHost implements Host using the local filesystem.
// Files are served by the router under baseURL.
type LocalHost struct {
	basePath string // Root directory for file storage (e.g., "./uploads")
	baseURL  string // URL prefix for serving files (e.g., "/uploads")
}

// NewLocalHost creates a filesystem image host, creating basePath if needed.
func NewLocalHost(basePath, baseURL string) (*LocalHost, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &LocalHost{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload writes the image to disk.
func (h *LocalHost) Upload(ctx context.Context, filename string, content io.Reader, contentType string) (string, error) {
	key := objectKey(filename)
	fullPath := filepath.Join(h.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(h.baseURL, key), nil
}

// Delete removes the file behind url.
func (h *LocalHost) Delete(ctx context.Context, url string) error {
	key := KeyFromURL(url, h.baseURL)
	if key == "" {
		return fmt.Errorf("%q is not served from %s", url, h.baseURL)
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("invalid media key %q", key)
	}

	err := os.Remove(filepath.Join(h.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// Dir is the directory files are written to.
func (h *LocalHost) Dir() string {
	return h.basePath
}

// URLPrefix is the URL prefix files are served under.
func (h *LocalHost) URLPrefix() string {
	return h.baseURL
}
