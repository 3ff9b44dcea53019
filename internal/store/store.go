// Package store persists the download ledger: which file builds have been
// fetched into a download directory, and the metadata they were fetched with.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// MetadataFile is the ledger's file name inside the download directory.
const MetadataFile = "download_metadata.json"

// Record is the remembered state of one successfully downloaded file,
// keyed in SyncState by the decimal file ID.
type Record struct {
	FileName     string  `json:"fileName"`
	FileDate     string  `json:"fileDate"`
	DownloadedAt string  `json:"downloadedAt"`
	Hash         *string `json:"hash"`
	FileLength   int64   `json:"fileLength"`
	DisplayName  string  `json:"displayName,omitempty"`
}

// SyncState maps file IDs (as strings) to their last-downloaded metadata.
// It is a cache of what was retrieved, never a source of truth for what
// the catalog currently offers.
type SyncState map[string]Record

// NewRecord builds a ledger record for a file downloaded just now.
func NewRecord(fileName, fileDate string, fileLength int64, hash *string, displayName string) Record {
	return Record{
		FileName:     fileName,
		FileDate:     fileDate,
		DownloadedAt: time.Now().UTC().Format(time.RFC3339),
		Hash:         hash,
		FileLength:   fileLength,
		DisplayName:  displayName,
	}
}

// Load reads the ledger from dir. A missing ledger is an empty state with
// no error. A ledger that exists but cannot be read or parsed is also
// treated as empty, with a non-nil warning returned alongside — the sync
// pass proceeds and the freshness checks against the real files on disk
// remain the safety net.
func Load(dir string) (SyncState, error) {
	path := filepath.Join(dir, MetadataFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SyncState{}, nil
		}
		return SyncState{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var state SyncState
	if err := json.Unmarshal(data, &state); err != nil {
		return SyncState{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if state == nil {
		state = SyncState{}
	}

	return state, nil
}

// Save rewrites the entire ledger under dir. The document is written to a
// temp file and renamed into place so a crash mid-write never leaves a
// truncated ledger.
func Save(dir string, state SyncState) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	path := filepath.Join(dir, MetadataFile)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
