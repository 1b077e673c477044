package modelstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalResolverFindsExistingFile(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "ggml-tiny.bin")
	if err := os.WriteFile(modelPath, []byte("fake model"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	r := LocalResolver{BaseDir: dir}
	path, err := r.Resolve(context.Background(), "ggml-tiny.bin")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if path != modelPath {
		t.Errorf("Resolve() = %q, want %q", path, modelPath)
	}
}

func TestLocalResolverMissingFile(t *testing.T) {
	r := LocalResolver{BaseDir: t.TempDir()}
	if _, err := r.Resolve(context.Background(), "missing.bin"); err == nil {
		t.Fatal("expected an error for a missing model file")
	}
}

func TestHTTPResolverDownloadsAndCaches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("model bytes"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	resolver := NewHTTPResolver(server.URL, cacheDir)

	path, err := resolver.Resolve(context.Background(), "ggml-base.bin")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read cached file: %v", err)
	}
	if string(data) != "model bytes" {
		t.Errorf("cached content = %q, want %q", data, "model bytes")
	}

	// Second resolve should hit the cache, not the server.
	server.Close()
	path2, err := resolver.Resolve(context.Background(), "ggml-base.bin")
	if err != nil {
		t.Fatalf("cached Resolve failed: %v", err)
	}
	if path2 != path {
		t.Errorf("expected cached path %q, got %q", path, path2)
	}
}

func TestHTTPResolverNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := NewHTTPResolver(server.URL, t.TempDir())
	if _, err := resolver.Resolve(context.Background(), "missing.bin"); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}
