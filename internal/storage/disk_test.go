package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisk_Store(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d, err := NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk failed: %v", err)
	}

	ref, err := d.Store(context.Background(), "receipt.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if !strings.HasSuffix(ref, "_receipt.png") {
		t.Errorf("expected reference ending in _receipt.png, got %s", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored contents mismatch: %q", data)
	}
}

func TestDisk_StoreUniqueNames(t *testing.T) {
	t.Parallel()

	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk failed: %v", err)
	}

	ref1, err := d.Store(context.Background(), "same.png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	ref2, err := d.Store(context.Background(), "same.png", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if ref1 == ref2 {
		t.Error("expected unique references for repeated filenames")
	}
}

func TestDisk_EmptyDir(t *testing.T) {
	t.Parallel()

	if _, err := NewDisk(""); err == nil {
		t.Fatal("expected error for empty upload dir")
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"receipt.png", "receipt.png"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).jpg", "my_photo__1_.jpg"},
		{"", "upload"},
		{"...", "upload"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	key := objectKey("receipt.png")
	if !strings.HasPrefix(key, "uploads/") {
		t.Errorf("expected uploads/ prefix, got %s", key)
	}
	if !strings.HasSuffix(key, "_receipt.png") {
		t.Errorf("expected _receipt.png suffix, got %s", key)
	}

	if key == objectKey("receipt.png") {
		t.Error("expected unique object keys for repeated filenames")
	}
}
