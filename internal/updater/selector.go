// Package updater holds the synchronization decision engine: selecting the
// build that should be installed, deciding whether it needs downloading,
// and fetching it.
package updater

import (
	"time"

	"github.com/kestrelmods/cfsync/internal/curse"
)

// ResolveFunc resolves a file ID into its full catalog record. It is how
// the selector follows a serverPackFileId back-reference without owning an
// API client.
type ResolveFunc func(fileID int) (*curse.File, error)

// SelectInstallTarget picks the single file that represents the build to
// install. Server-targeted builds always win: a direct server pack beats
// any regular file regardless of age, and a regular file's published
// server-pack counterpart supersedes it when it can be resolved.
//
// Returns nil when files is empty. The result is deterministic for a fixed
// input and resolver. A missing download URL on the chosen record is not a
// selection concern; it surfaces at fetch time.
func SelectInstallTarget(files []curse.File, resolve ResolveFunc) *curse.File {
	if len(files) == 0 {
		return nil
	}

	var serverPacks []curse.File
	for _, f := range files {
		if f.IsServerPack {
			serverPacks = append(serverPacks, f)
		}
	}
	if len(serverPacks) > 0 {
		return newestFile(serverPacks)
	}

	latest := newestFile(files)
	if latest.ServerPackFileID == 0 {
		return latest
	}

	// The newest regular file advertises a server-pack counterpart.
	// Prefer it when it resolves; otherwise fall back to the regular file.
	if resolve != nil {
		if resolved, err := resolve(latest.ServerPackFileID); err == nil && resolved != nil {
			return resolved
		}
	}
	return latest
}

// newestFile returns the file with the greatest fileDate, breaking exact
// ties by highest file ID so selection is stable across runs.
func newestFile(files []curse.File) *curse.File {
	best := 0
	for i := 1; i < len(files); i++ {
		switch compareFileDates(files[i].FileDate, files[best].FileDate) {
		case 1:
			best = i
		case 0:
			if files[i].ID > files[best].ID {
				best = i
			}
		}
	}
	return &files[best]
}

// compareFileDates orders two catalog timestamps, returning -1, 0 or 1.
// The catalog emits uniform ISO-8601 timestamps, so lexicographic order
// matches chronological order; when both sides parse as RFC 3339 the
// parsed instants are compared instead, which also tolerates a timezone
// representation change.
func compareFileDates(a, b string) int {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA == nil && errB == nil {
		return ta.Compare(tb)
	}

	// Fall back to the documented lexicographic invariant.
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
