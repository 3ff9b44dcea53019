package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/sirupsen/logrus"

	"github.com/kestrelmods/cfsync/internal/curse"
)

// ErrNoDownloadURL is returned when the catalog record forbids direct
// download. No network call is attempted in that case.
var ErrNoDownloadURL = errors.New("no download URL available for this file")

// Downloader opens a streaming reader for a download URL.
type Downloader interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Fetcher streams selected files into the download directory.
type Fetcher struct {
	source Downloader
	log    *logrus.Logger
}

// NewFetcher creates a Fetcher reading from the given source.
func NewFetcher(source Downloader, log *logrus.Logger) *Fetcher {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Fetcher{source: source, log: log}
}

// Fetch downloads the selected file into dir and returns the number of
// bytes written. The body is streamed to a temporary file and renamed into
// place only after a complete copy, so a transport or storage failure
// mid-stream never leaves a truncated artifact at the target path.
//
// Fetch does not touch the ledger; recording the download is the caller's
// responsibility.
func (f *Fetcher) Fetch(ctx context.Context, selected *curse.File, dir string) (int64, error) {
	if selected.DownloadURL == "" {
		return 0, ErrNoDownloadURL
	}
	if selected.FileName == "" {
		return 0, fmt.Errorf("remote record %d has no file name", selected.ID)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating download directory: %w", err)
	}

	f.log.WithFields(logrus.Fields{
		"file": selected.FileName,
		"url":  selected.DownloadURL,
	}).Debug("starting download")

	body, err := f.source.Download(ctx, selected.DownloadURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	target := filepath.Join(dir, selected.FileName)
	counter := &countingReader{r: body}

	if err := atomic.WriteFile(target, counter); err != nil {
		return 0, fmt.Errorf("writing %s: %w", target, err)
	}

	f.log.WithFields(logrus.Fields{
		"file":  selected.FileName,
		"bytes": counter.n,
	}).Debug("download complete")

	return counter.n, nil
}

// countingReader counts bytes as they stream through.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
