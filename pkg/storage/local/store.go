package local

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store persists uploaded media under a root directory, mirroring the layout
// the storefront serves: product previews and gallery images live under a
// per-product directory, order receipts under a shared one.
type Store struct {
	root string
}

// NewStore ensures the root directory exists and returns a store over it.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("media root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &Store{root: root}, nil
}

// ProductPreviewPath returns the relative storage path for a product preview.
func ProductPreviewPath(productID uint, filename string) string {
	return fmt.Sprintf("products/product_%d/preview/%s", productID, sanitize(filename))
}

// ProductImagePath returns the relative storage path for a gallery image.
func ProductImagePath(productID uint, filename string) string {
	return fmt.Sprintf("products/product_%d/images/%s", productID, sanitize(filename))
}

// OrderReceiptPath returns the relative storage path for an order receipt.
func OrderReceiptPath(filename string) string {
	return fmt.Sprintf("orders/receipts/%s", sanitize(filename))
}

// Save writes the content to the relative path, creating parent directories.
// It returns the relative path as stored on the entity record.
func (s *Store) Save(relPath string, content io.Reader) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return relPath, nil
}

// Open returns a reader over the stored file.
func (s *Store) Open(relPath string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.FromSlash(relPath)))
}

// Remove deletes the stored file; missing files are not an error.
func (s *Store) Remove(relPath string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitize strips any path components from an uploaded filename.
func sanitize(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "upload"
	}
	return name
}
