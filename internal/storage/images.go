// Package storage keeps uploaded center images on the local filesystem
// and hands out preview handles for them. A preview is an owned
// reference: it stays valid until it is explicitly released, and every
// preview must be released when its image is removed or the owning form
// session ends.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"center-onboard/internal/form"
)

// ImageStore implements image and preview storage on the local
// filesystem.
type ImageStore struct {
	mu       sync.RWMutex
	dir      string
	files    map[string]string // image id -> file path
	previews map[string]string // preview id -> file path
}

// NewImageStore creates an ImageStore rooted at dir.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &ImageStore{
		dir:      dir,
		files:    make(map[string]string),
		previews: make(map[string]string),
	}, nil
}

// Save writes one uploaded image to disk and derives a preview handle
// for it.
func (s *ImageStore) Save(name string, r io.Reader) (form.Image, error) {
	id := uuid.New().String()
	path := filepath.Join(s.dir, id)

	f, err := os.Create(path)
	if err != nil {
		return form.Image{}, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return form.Image{}, fmt.Errorf("writing file: %w", err)
	}

	previewID := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = path
	s.previews[previewID] = path

	return form.Image{
		ID:        id,
		Name:      name,
		Size:      size,
		PreviewID: previewID,
	}, nil
}

// PreviewPath resolves a preview handle to the file it references.
// Released handles no longer resolve.
func (s *ImageStore) PreviewPath(previewID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.previews[previewID]
	if !ok {
		return "", fmt.Errorf("preview not found: %s", previewID)
	}
	return path, nil
}

// ReleasePreview revokes a preview handle. Releasing an already released
// handle is a no-op.
func (s *ImageStore) ReleasePreview(previewID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.previews, previewID)
}

// PreviewCount returns the number of live preview handles.
func (s *ImageStore) PreviewCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}

// Remove deletes a stored image file. The image's preview must be
// released separately.
func (s *ImageStore) Remove(imageID string) error {
	s.mu.Lock()
	path, ok := s.files[imageID]
	if ok {
		delete(s.files, imageID)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("image not found: %s", imageID)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// Open returns a reader for a stored image.
func (s *ImageStore) Open(imageID string) (io.ReadCloser, error) {
	s.mu.RLock()
	path, ok := s.files[imageID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("image not found: %s", imageID)
	}
	return os.Open(path)
}

// Discard releases an image's preview and deletes its file. Used when a
// form discards images wholesale on teardown.
func (s *ImageStore) Discard(img form.Image) {
	s.ReleasePreview(img.PreviewID)
	_ = s.Remove(img.ID)
}
