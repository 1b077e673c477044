// Package modelstore defines the narrow interface pkg/transcription depends
// on for resolving a model identifier to a local file path, plus a reference
// HTTP-backed implementation. It stands in for the out-of-scope
// download/cache manager: HTTPResolver caches to disk but verifies no
// checksums and does not resume partial downloads.
package modelstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// defaultTimeout matches the core's documented 30s network timeout for
// external collaborators (model download, license validation).
const defaultTimeout = 30 * time.Second

// ModelResolver resolves a model identifier (a filename convention like
// "ggml-base.en.bin", or an opaque ID understood by the backing store) to a
// path on local disk that pkg/transcription.LoadModel can open.
type ModelResolver interface {
	Resolve(ctx context.Context, modelID string) (path string, err error)
}

// LocalResolver resolves a modelID by looking it up directly under a base
// directory — no network involved. Useful when models are pre-provisioned.
type LocalResolver struct {
	BaseDir string
}

// Resolve returns BaseDir/modelID if the file exists, or an error otherwise.
func (r LocalResolver) Resolve(_ context.Context, modelID string) (string, error) {
	path := filepath.Join(r.BaseDir, modelID)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("modelstore: model %q not found under %s: %w", modelID, r.BaseDir, err)
	}
	return path, nil
}

// HTTPResolver downloads a model from a base URL into a local cache
// directory if it is not already present, using the standard net/http
// client. It is a reference implementation, not a production download
// manager: there is no checksum verification, resumable download, or
// concurrent-fetch de-duplication.
type HTTPResolver struct {
	BaseURL  string
	CacheDir string
	Client   *http.Client
}

// NewHTTPResolver returns an HTTPResolver configured with the core's
// standard 30s network timeout.
func NewHTTPResolver(baseURL, cacheDir string) *HTTPResolver {
	return &HTTPResolver{
		BaseURL:  baseURL,
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: defaultTimeout},
	}
}

// Resolve returns the cached local path for modelID, fetching it from
// BaseURL first if it is not already present in CacheDir.
func (r *HTTPResolver) Resolve(ctx context.Context, modelID string) (string, error) {
	cachePath := filepath.Join(r.CacheDir, modelID)
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := os.MkdirAll(r.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("modelstore: failed to create cache dir: %w", err)
	}

	url := r.BaseURL + "/" + modelID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("modelstore: failed to build request: %w", err)
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	logger.Info(logger.CategoryModel, "fetching model %q from %s", modelID, url)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("modelstore: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("modelstore: download of %q returned status %d", modelID, resp.StatusCode)
	}

	tmpPath := cachePath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("modelstore: failed to create cache file: %w", err)
	}

	_, copyErr := copyBody(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("modelstore: failed to write cache file: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("modelstore: failed to close cache file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, cachePath); err != nil {
		return "", fmt.Errorf("modelstore: failed to finalize cache file: %w", err)
	}

	logger.Info(logger.CategoryModel, "cached model %q at %s", modelID, cachePath)
	return cachePath, nil
}

func copyBody(dst io.Writer, src io.Reader) (int64, error) {
	return io.Copy(dst, src)
}
