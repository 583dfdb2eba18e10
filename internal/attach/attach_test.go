// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package attach

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

func init() {
	// Use a tiny base delay so retry tests finish quickly.
	retryBaseDelay = 1 * time.Millisecond
}

const fakePDFContent = "%PDF-1.4 fake"

func testCfg(t *testing.T) types.AttachConfig {
	t.Helper()
	return types.AttachConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		FilesDir: t.TempDir(),
	}
}

func TestFetchAllDownloadsHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, fakePDFContent)
	}))
	defer ts.Close()

	cfg := testCfg(t)
	var buf bytes.Buffer
	files := FetchAll(ts.Client(), []string{ts.URL + "/desy/paper.pdf"}, cfg, &buf)

	require.Len(t, files, 1)
	assert.Equal(t, "paper.pdf", files[0].Name)
	assert.Equal(t, filepath.Join(cfg.FilesDir, "paper.pdf"), files[0].Path)

	data, err := os.ReadFile(files[0].Path)
	require.NoError(t, err)
	assert.Equal(t, fakePDFContent, string(data))
}

func TestFetchAllRetriesOn429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, fakePDFContent)
	}))
	defer ts.Close()

	var buf bytes.Buffer
	files := FetchAll(ts.Client(), []string{ts.URL + "/paper.pdf"}, testCfg(t), &buf)

	require.Len(t, files, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchAllSkipsFailedDownloads(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	var buf bytes.Buffer
	files := FetchAll(ts.Client(), []string{ts.URL + "/missing.pdf"}, testCfg(t), &buf)

	assert.Empty(t, files)
	assert.Contains(t, buf.String(), "warning: could not fetch")
}

func TestFetchAllCopiesLocalFiles(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "paper.pdf")
	require.NoError(t, os.WriteFile(srcPath, []byte(fakePDFContent), 0o644))

	cfg := testCfg(t)
	var buf bytes.Buffer

	tests := []struct {
		name string
		url  string
	}{
		{"bare path", srcPath},
		{"file url", "file://" + srcPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := FetchAll(http.DefaultClient, []string{tt.url}, cfg, &buf)
			require.Len(t, files, 1)
			assert.Equal(t, "paper.pdf", files[0].Name)

			data, err := os.ReadFile(files[0].Path)
			require.NoError(t, err)
			assert.Equal(t, fakePDFContent, string(data))
		})
	}
}

func TestFetchAllEmptyURLList(t *testing.T) {
	assert.Nil(t, FetchAll(http.DefaultClient, nil, testCfg(t), &bytes.Buffer{}))
}
