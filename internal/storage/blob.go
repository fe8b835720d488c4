// Package storage persists uploaded proof images and hands back their
// public URLs.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore saves an object and returns the URL clients use to fetch it.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

// LocalStore writes objects under root, which the HTTP server exposes at
// publicURL.
type LocalStore struct {
	root      string
	publicURL string
	prefix    string
	now       func() time.Time
}

func NewLocalStore(root, publicURL string) *LocalStore {
	return &LocalStore{
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/"),
		prefix:    "deposits",
		now:       time.Now,
	}
}

func (s *LocalStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	key := path.Join(s.prefix, fmt.Sprintf("proof_%d_%s.%s", s.now().Unix(), uuid.NewString(), ext))
	fp := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// O_EXCL so a name clash can never overwrite someone else's proof.
	file, err := os.OpenFile(fp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(fp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(fp)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return s.publicURL + "/" + key, nil
}

// Remove deletes an object previously returned by Put. URLs that do not
// belong to this store are ignored.
func (s *LocalStore) Remove(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
