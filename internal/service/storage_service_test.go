package service

import (
	"io"
	"strings"
	"testing"
)

func TestDiskStorageRoundTrip(t *testing.T) {
	s := NewDiskStorageAt(t.TempDir(), "attachments")

	if err := s.Upload("key-1", "text/plain", strings.NewReader("hello")); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	r, err := s.Download("key-1")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("got %q, want hello", data)
	}
}

func TestDiskStorageCopy(t *testing.T) {
	s := NewDiskStorageAt(t.TempDir(), "attachments")

	if err := s.Upload("src", "text/plain", strings.NewReader("payload")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := s.Copy("src", "dst"); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	r, err := s.Download("dst")
	if err != nil {
		t.Fatalf("Download copy: %v", err)
	}
	data, _ := io.ReadAll(r)
	r.Close()
	if string(data) != "payload" {
		t.Fatalf("copy = %q, want payload", data)
	}
}

func TestDiskStorageDelete(t *testing.T) {
	s := NewDiskStorageAt(t.TempDir(), "attachments")

	if err := s.Upload("key", "text/plain", strings.NewReader("x")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := s.Delete("key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Download("key"); err == nil {
		t.Fatal("blob still readable after delete")
	}

	// deleting a missing key is not an error
	if err := s.Delete("key"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestDiskStorageMissingKey(t *testing.T) {
	s := NewDiskStorageAt(t.TempDir(), "attachments")

	if _, err := s.Download("nope"); err == nil {
		t.Fatal("Download of missing key succeeded")
	}
	if err := s.Copy("nope", "dst"); err == nil {
		t.Fatal("Copy of missing key succeeded")
	}
}
