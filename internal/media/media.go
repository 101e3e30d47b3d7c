// Package media hosts product images on an external image host and hands
// back the public URL stored on the product.
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/dukerupert/forever/internal"
	"github.com/google/uuid"
)

// Host stores images and removes them again by the URL it returned.
type Host interface {
	// Upload stores content and returns its public URL.
	Upload(ctx context.Context, filename string, content io.Reader, contentType string) (string, error)

	// Delete removes the image previously returned as url.
	// Deleting an image that no longer exists is not an error.
	Delete(ctx context.Context, url string) error
}

// New creates the Host selected by cfg.Provider.
func New(ctx context.Context, cfg internal.MediaConfig) (Host, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalHost(cfg.LocalPath, cfg.LocalURL)
	case "cloudinary":
		return NewCloudinaryHost(CloudinaryConfig{
			URL:       cfg.CloudinaryURL,
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		})
	case "s3":
		return NewS3Host(ctx, S3Config{
			Endpoint:    cfg.S3Endpoint,
			Region:      cfg.S3Region,
			AccessKeyID: cfg.S3AccessKey,
			SecretKey:   cfg.S3SecretKey,
			Bucket:      cfg.S3Bucket,
			PublicURL:   cfg.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown media provider: %s", cfg.Provider)
	}
}

// objectKey names a new upload: products/<uuid><ext>.
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "products/" + uuid.NewString() + ext
}

// PublicIDFromURL derives a Cloudinary public id from a delivery URL.
//
// For https://res.cloudinary.com/demo/image/upload/v1712/forever/products/abc.jpg
// it returns "forever/products/abc". URLs without an /upload/ segment fall
// back to the last path segment without its extension.
func PublicIDFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}

	if i := strings.Index(p, "/upload/"); i >= 0 {
		rest := p[i+len("/upload/"):]
		if seg, after, ok := strings.Cut(rest, "/"); ok && isVersion(seg) {
			rest = after
		}
		return strings.TrimSuffix(rest, path.Ext(rest))
	}

	last := path.Base(p)
	if i := strings.Index(last, "."); i >= 0 {
		last = last[:i]
	}
	return last
}

func isVersion(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	for _, r := range seg[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// KeyFromURL strips baseURL from an object URL, leaving the object key.
// Returns "" when url is not under baseURL.
func KeyFromURL(raw, baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/") + "/"
	if !strings.HasPrefix(raw, base) {
		return ""
	}
	return strings.TrimPrefix(raw, base)
}
