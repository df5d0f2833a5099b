// Package media stores product images on disk and derives their public URLs.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
)

// allowedTypes are the image MIME types accepted for upload.
var allowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	hyphenRun       = regexp.MustCompile(`-+`)
)

// Slug turns a product name into a file-name-safe slug: "Gold & Honey Soap" becomes "gold-and-honey-soap".
func Slug(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = strings.ReplaceAll(s, "&", " and ")
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DefaultImageURL is the conventional image location for a product without an uploaded image.
func DefaultImageURL(urlPrefix, productName string) string {
	return path.Join(urlPrefix, Slug(productName)+".jpg")
}

// Store writes uploads into a directory served under a URL prefix.
type Store struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

func NewStore(cfg config.MediaConfig) *Store {
	return &Store{dir: cfg.Dir, urlPrefix: cfg.URLPrefix, maxBytes: cfg.MaxFileBytes}
}

// Dir is the directory images are written to.
func (s *Store) Dir() string {
	return s.dir
}

// URLPrefix is the path images are served under.
func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

// Save stores the image read from r under the product's slug and returns its public URL.
// The extension follows the sniffed content type, not the client supplied file name.
func (s *Store) Save(productName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrImageTooLarge
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
	}

	slug := Slug(productName)
	if slug == "" {
		slug = "product"
	}
	filename := slug + mt.Extension()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := writeFile(filepath.Join(s.dir, filename), data); err != nil {
		return "", err
	}
	return path.Join(s.urlPrefix, filename), nil
}

// writeFile replaces dst atomically so readers never see a partial image.
func writeFile(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set image permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to store image: %w", err)
	}
	return nil
}

// Delete removes the file behind a URL previously returned by Save.
// URLs outside the prefix and files that are already gone are ignored.
func (s *Store) Delete(url string) error {
	if url == "" || !strings.HasPrefix(url, strings.TrimSuffix(s.urlPrefix, "/")+"/") {
		return nil
	}
	name := path.Base(url)
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
