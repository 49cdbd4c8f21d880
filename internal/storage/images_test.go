package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImageStore_SaveAndPreview(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageStore() error = %v", err)
	}

	img, err := store.Save("front.jpg", strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if img.Name != "front.jpg" {
		t.Errorf("Name = %q, want front.jpg", img.Name)
	}
	if img.Size != int64(len("jpeg bytes")) {
		t.Errorf("Size = %d, want %d", img.Size, len("jpeg bytes"))
	}
	if img.ID == "" || img.PreviewID == "" {
		t.Error("image and preview ids must be populated")
	}

	path, err := store.PreviewPath(img.PreviewID)
	if err != nil {
		t.Fatalf("PreviewPath() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading preview target: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("preview content = %q", data)
	}
}

func TestImageStore_ReleasePreview(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageStore() error = %v", err)
	}

	img, err := store.Save("a.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	store.ReleasePreview(img.PreviewID)

	if _, err := store.PreviewPath(img.PreviewID); err == nil {
		t.Error("released preview should no longer resolve")
	}
	if n := store.PreviewCount(); n != 0 {
		t.Errorf("PreviewCount() = %d, want 0", n)
	}

	// Releasing twice is harmless.
	store.ReleasePreview(img.PreviewID)
}

func TestImageStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	if err != nil {
		t.Fatalf("NewImageStore() error = %v", err)
	}

	img, err := store.Save("a.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Remove(img.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, img.ID)); !os.IsNotExist(err) {
		t.Error("image file still on disk after Remove")
	}
	if err := store.Remove(img.ID); err == nil {
		t.Error("removing an unknown image should fail")
	}
}

func TestImageStore_RepeatedAddRemoveDoesNotLeak(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	if err != nil {
		t.Fatalf("NewImageStore() error = %v", err)
	}

	for i := 0; i < 50; i++ {
		img, err := store.Save("cycle.png", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		store.Discard(img)
	}

	if n := store.PreviewCount(); n != 0 {
		t.Errorf("PreviewCount() = %d after add/remove cycles, want 0", n)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("%d files left on disk after add/remove cycles, want 0", len(entries))
	}
}

func TestImageStore_Open(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageStore() error = %v", err)
	}

	img, err := store.Save("a.png", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := store.Open(img.ID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want payload", data)
	}
}
