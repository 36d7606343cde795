package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// A minimal PNG header is enough for content sniffing.
var pngHead = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestLocalBucketUpload(t *testing.T) {
	root := t.TempDir()
	bucket, err := NewLocalBucket(root, "/uploads/", 0)
	if err != nil {
		t.Fatalf("NewLocalBucket: %v", err)
	}

	url, err := bucket.Upload(context.Background(), "avatars", "Me & My Cat.png", "image/png", bytes.NewReader(pngHead))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/avatars/") || !strings.HasSuffix(url, "_Me---My-Cat.png") {
		t.Fatalf("unexpected url %q", url)
	}

	stored, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(url, "/uploads/")))
	if err != nil {
		t.Fatalf("reading stored object: %v", err)
	}
	if !bytes.Equal(stored, pngHead) {
		t.Errorf("stored content differs from the upload")
	}
}

func TestLocalBucketRejectsUnsupportedType(t *testing.T) {
	bucket, _ := NewLocalBucket(t.TempDir(), "", 0)
	_, err := bucket.Upload(context.Background(), "covers", "notes.txt", "text/plain", strings.NewReader("just some text"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestLocalBucketEnforcesSizeLimit(t *testing.T) {
	root := t.TempDir()
	bucket, _ := NewLocalBucket(root, "", 32)

	content := append(append([]byte{}, pngHead...), bytes.Repeat([]byte{0}, 64)...)
	_, err := bucket.Upload(context.Background(), "covers", "big.png", "image/png", bytes.NewReader(content))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "covers"))
	if len(entries) != 0 {
		t.Errorf("expected the partial object to be removed, found %d entries", len(entries))
	}
}

func TestCleanFolder(t *testing.T) {
	tests := map[string]string{
		"":              "misc",
		"avatars":       "avatars",
		"../../etc":     "etc",
		"/covers/2024/": "covers/2024",
	}
	for in, want := range tests {
		if got := cleanFolder(in); got != want {
			t.Errorf("cleanFolder(%q) = %q, want %q", in, got, want)
		}
	}
}
