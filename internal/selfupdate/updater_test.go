package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	for _, tt := range []struct {
		goos, goarch string
		want         string
	}{
		{"darwin", "amd64", "carhythm_Darwin_all.tar.gz"},
		{"darwin", "arm64", "carhythm_Darwin_all.tar.gz"},
		{"linux", "amd64", "carhythm_Linux_x86_64.tar.gz"},
		{"linux", "arm64", "carhythm_Linux_arm64.tar.gz"},
		{"linux", "386", "carhythm_Linux_i386.tar.gz"},
		{"windows", "amd64", "carhythm_Windows_x86_64.zip"},
		{"windows", "arm64", "carhythm_Windows_arm64.zip"},
	} {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := assetNameFor("freebsd", "amd64")
		assert.Error(t, err)
		_, err = assetNameFor("linux", "mips")
		assert.Error(t, err)
	})
}

func TestParseChecksums(t *testing.T) {
	input := "abc123  carhythm_Darwin_all.tar.gz\n" +
		"badline\n" +
		"  \n" +
		"foo  bar  baz\n" +
		"def456  carhythm_Linux_x86_64.tar.gz\n"

	sums := parseChecksums([]byte(input))

	assert.Equal(t, map[string]string{
		"carhythm_Darwin_all.tar.gz":   "abc123",
		"carhythm_Linux_x86_64.tar.gz": "def456",
	}, sums, "malformed lines should be skipped")

	assert.Empty(t, parseChecksums(nil))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	h := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(h[:])))

	err := verifyChecksum(data, "0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	content := []byte("#!/bin/sh\necho carhythm")

	got, err := extractBinary(buildTarGz(t, "carhythm", content), "carhythm_Darwin_all.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = extractBinary(buildTarGz(t, "other-file", content), "carhythm_Darwin_all.tar.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestApplyUpdatePreservesMode(t *testing.T) {
	target := filepath.Join(t.TempDir(), "carhythm")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

	newData := []byte("new-binary-content")
	h := sha256.Sum256(newData)
	require.NoError(t, applyUpdate(newData, target, h[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, newData, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

// releaseFixture serves the latest-release endpoint plus download URLs
// for one asset and its checksums file.
func releaseFixture(t *testing.T, tag, asset string, archive, checksums []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/carhythm/carhythm/releases/latest":
			fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
		case fmt.Sprintf("/carhythm/carhythm/releases/download/%s/%s", tag, asset):
			_, _ = w.Write(archive)
		case fmt.Sprintf("/carhythm/carhythm/releases/download/%s/checksums.txt", tag):
			_, _ = w.Write(checksums)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdate(t *testing.T) {
	// Update resolves the asset for the platform it runs on, so the
	// fixture has to serve that name.
	asset, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	require.NoError(t, err)
	if strings.HasSuffix(asset, ".zip") {
		t.Skip("fixture builds tar.gz archives only")
	}

	binaryContent := []byte("new-carhythm-binary")
	archive := buildTarGz(t, "carhythm", binaryContent)
	archiveHash := sha256.Sum256(archive)
	goodSums := []byte(fmt.Sprintf("%s  %s\n", hex.EncodeToString(archiveHash[:]), asset))

	t.Run("replaces the running binary", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "carhythm")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

		srv := releaseFixture(t, "v2.0.0", asset, archive, goodSums)
		checker := NewChecker(
			WithBaseURL(srv.URL),
			WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []string
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseFixture(t, "v1.0.0", asset, archive, goodSums)
		checker := NewChecker(WithBaseURL(srv.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch aborts before apply", func(t *testing.T) {
		badSums := []byte(fmt.Sprintf("%s  %s\n",
			"0000000000000000000000000000000000000000000000000000000000000000", asset))
		srv := releaseFixture(t, "v2.0.0", asset, archive, badSums)
		checker := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("missing asset", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/carhythm/carhythm/releases/latest" {
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		checker := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

// buildTarGz packs a single file into a gzipped tar archive.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Size: int64(len(content)),
		Mode: 0755,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
