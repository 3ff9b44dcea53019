package updater

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kestrelmods/cfsync/internal/curse"
)

// fakeDownloader serves canned bodies by URL.
type fakeDownloader struct {
	bodies map[string]io.ReadCloser
	calls  int
}

func (d *fakeDownloader) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	d.calls++
	body, ok := d.bodies[url]
	if !ok {
		return nil, errors.New("unexpected url: " + url)
	}
	return body, nil
}

// truncatedReader fails mid-stream after yielding some bytes.
type truncatedReader struct {
	data []byte
	read bool
}

func (r *truncatedReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		n := copy(p, r.data)
		return n, nil
	}
	return 0, errors.New("connection reset mid-stream")
}

func (r *truncatedReader) Close() error { return nil }

func TestFetch_NoDownloadURL(t *testing.T) {
	t.Parallel()
	d := &fakeDownloader{}
	f := NewFetcher(d, nil)

	_, err := f.Fetch(context.Background(), &curse.File{ID: 1, FileName: "pack.zip"}, t.TempDir())
	if !errors.Is(err, ErrNoDownloadURL) {
		t.Fatalf("err = %v, want ErrNoDownloadURL", err)
	}
	if d.calls != 0 {
		t.Errorf("download attempted %d times, want 0", d.calls)
	}
}

func TestFetch_WritesArtifact(t *testing.T) {
	t.Parallel()
	content := []byte("the server pack bytes")
	d := &fakeDownloader{bodies: map[string]io.ReadCloser{
		"https://cdn.example/pack.zip": io.NopCloser(bytes.NewReader(content)),
	}}
	dir := t.TempDir()

	written, err := NewFetcher(d, nil).Fetch(context.Background(), &curse.File{
		ID:          1,
		FileName:    "pack.zip",
		DownloadURL: "https://cdn.example/pack.zip",
	}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if written != int64(len(content)) {
		t.Errorf("written = %d, want %d", written, len(content))
	}

	got, err := os.ReadFile(filepath.Join(dir, "pack.zip"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("artifact content = %q, want %q", got, content)
	}
}

func TestFetch_CreatesDownloadDir(t *testing.T) {
	t.Parallel()
	d := &fakeDownloader{bodies: map[string]io.ReadCloser{
		"https://cdn.example/pack.zip": io.NopCloser(bytes.NewReader([]byte("x"))),
	}}
	dir := filepath.Join(t.TempDir(), "nested", "downloads")

	_, err := NewFetcher(d, nil).Fetch(context.Background(), &curse.File{
		FileName:    "pack.zip",
		DownloadURL: "https://cdn.example/pack.zip",
	}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "pack.zip")); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}

func TestFetch_MidStreamFailureLeavesNoArtifact(t *testing.T) {
	t.Parallel()
	d := &fakeDownloader{bodies: map[string]io.ReadCloser{
		"https://cdn.example/pack.zip": &truncatedReader{data: []byte("partial data")},
	}}
	dir := t.TempDir()

	_, err := NewFetcher(d, nil).Fetch(context.Background(), &curse.File{
		FileName:    "pack.zip",
		DownloadURL: "https://cdn.example/pack.zip",
	}, dir)
	if err == nil {
		t.Fatal("expected an error from the truncated stream")
	}

	if _, statErr := os.Stat(filepath.Join(dir, "pack.zip")); !os.IsNotExist(statErr) {
		t.Errorf("a partial artifact was left behind (stat err: %v)", statErr)
	}
}

func TestFetch_DownloadErrorPropagates(t *testing.T) {
	t.Parallel()
	d := &fakeDownloader{} // knows no URLs
	_, err := NewFetcher(d, nil).Fetch(context.Background(), &curse.File{
		FileName:    "pack.zip",
		DownloadURL: "https://cdn.example/unknown.zip",
	}, t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
}
