package pdf

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	dir := t.TempDir()
	service, err := NewService(1024*1024, dir)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service, dir
}

func TestNewServiceEmptyDirectory(t *testing.T) {
	if _, err := NewService(1024, ""); err == nil {
		t.Fatal("expected error for empty configured directory")
	}
}

func TestServiceRejectsPathsOutsideDirectory(t *testing.T) {
	service, _ := newTestService(t)

	outside := filepath.Join(t.TempDir(), "outside.pdf")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := service.ExtractPages(context.Background(), outside); err == nil ||
		!strings.Contains(err.Error(), "security validation failed") {
		t.Errorf("ExtractPages should reject outside path, got %v", err)
	}
	if _, err := service.ValidateFile(outside); err == nil ||
		!strings.Contains(err.Error(), "security validation failed") {
		t.Errorf("ValidateFile should reject outside path, got %v", err)
	}
	if _, err := service.FileStats(outside); err == nil ||
		!strings.Contains(err.Error(), "security validation failed") {
		t.Errorf("FileStats should reject outside path, got %v", err)
	}
}

func TestServiceNormalizePath(t *testing.T) {
	service, dir := newTestService(t)

	got, err := service.NormalizePath("bank.pdf")
	if err != nil {
		t.Fatalf("NormalizePath failed: %v", err)
	}
	want := filepath.Join(dir, "bank.pdf")
	if got != want {
		t.Errorf("NormalizePath = %q, want %q", got, want)
	}

	if _, err := service.NormalizePath(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := service.NormalizePath("../escape.pdf"); err == nil {
		t.Error("expected error for path escaping the configured directory")
	}
}

func TestServiceSearchDefaultsToConfiguredDirectory(t *testing.T) {
	service, dir := newTestService(t)
	writeTestFiles(t, dir, "one.pdf", "two.pdf")

	result, err := service.SearchDirectory(SearchRequest{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", result.TotalCount)
	}
	if result.Directory != dir {
		t.Errorf("Directory = %q, want %q", result.Directory, dir)
	}

	count, err := service.CountPDFsInDirectory(dir)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestServiceAccessors(t *testing.T) {
	service, dir := newTestService(t)

	if service.MaxFileSize() != 1024*1024 {
		t.Errorf("MaxFileSize = %d, want %d", service.MaxFileSize(), 1024*1024)
	}
	if service.ConfiguredDirectory() != dir {
		t.Errorf("ConfiguredDirectory = %q, want %q", service.ConfiguredDirectory(), dir)
	}
}
