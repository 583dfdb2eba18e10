// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package attach retrieves the files a record declares so the converter can
// patch its file-attachment references. Each file URL is fetched into the
// destination folder; the resulting RecordFile list joins back to the
// record's _fft entries by basename. A file that cannot be retrieved is a
// warning, not a failure: the converter will drop its reference.
package attach

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

// retryBaseDelay controls the backoff on HTTP 429 responses; it doubles on
// each attempt. Tests override this to avoid real sleeps.
var retryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// FetchAll retrieves every URL into cfg.FilesDir, printing per-file status
// to w. Files that fail to fetch are reported and skipped.
func FetchAll(client *http.Client, urls []string, cfg types.AttachConfig, w io.Writer) []types.RecordFile {
	if len(urls) == 0 {
		return nil
	}
	if err := os.MkdirAll(cfg.FilesDir, 0o755); err != nil {
		fmt.Fprintf(w, "warning: creating files directory %s: %v\n", cfg.FilesDir, err)
		return nil
	}

	var files []types.RecordFile
	for _, rawURL := range urls {
		file, err := fetchOne(client, rawURL, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: could not fetch %s: %v\n", rawURL, err)
			continue
		}
		fmt.Fprintf(w, "fetched: %s\n", file.Name)
		files = append(files, file)
	}
	return files
}

// fetchOne retrieves a single URL. http(s) URLs are downloaded; file URLs
// and bare paths are copied from the local filesystem.
func fetchOne(client *http.Client, rawURL string, cfg types.AttachConfig) (types.RecordFile, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return types.RecordFile{}, fmt.Errorf("parsing URL: %w", err)
	}

	var name, src string
	switch u.Scheme {
	case "http", "https":
		name = path.Base(u.Path)
	case "file":
		name = filepath.Base(u.Path)
		src = u.Path
	case "":
		name = filepath.Base(rawURL)
		src = rawURL
	default:
		return types.RecordFile{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if name == "" || name == "." || name == "/" {
		return types.RecordFile{}, fmt.Errorf("cannot derive file name from %q", rawURL)
	}
	dest := filepath.Join(cfg.FilesDir, name)

	if src != "" {
		if err := copyFile(src, dest); err != nil {
			return types.RecordFile{}, err
		}
	} else {
		if err := download(client, rawURL, dest, cfg); err != nil {
			return types.RecordFile{}, err
		}
	}
	return types.RecordFile{Name: name, Path: dest}, nil
}

// download fetches url to destPath through a temporary file, renaming on
// success. HTTP 429 responses are retried with doubling backoff.
func download(client *http.Client, rawURL, destPath string, cfg types.AttachConfig) error {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequest(http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err = client.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			break
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		time.Sleep(retryBaseDelay << attempt)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}
	return writeAtomic(resp.Body, destPath)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer in.Close()
	return writeAtomic(in, dest)
}

// writeAtomic streams r into destPath via a temporary file in the same
// directory, renaming on success.
func writeAtomic(r io.Reader, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".attach-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing file: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
