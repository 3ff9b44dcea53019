package updater

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/kestrelmods/cfsync/internal/curse"
	"github.com/kestrelmods/cfsync/internal/store"
)

// Catalog is the remote query surface the updater needs. *curse.Client
// implements it; tests substitute fakes.
type Catalog interface {
	Mod(ctx context.Context, modID int) (*curse.Mod, error)
	ModFiles(ctx context.Context, modID int, filters curse.FileFilters) ([]curse.File, error)
	ModFile(ctx context.Context, modID, fileID int) (*curse.File, error)
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Updater runs sync passes for a single mod against a download directory.
type Updater struct {
	catalog Catalog
	modID   int
	dir     string
	filters curse.FileFilters
	out     io.Writer
	log     *logrus.Logger
}

// Options configures an Updater.
type Options struct {
	Catalog     Catalog
	ModID       int
	DownloadDir string
	Filters     curse.FileFilters
	Out         io.Writer // progress output, defaults to os.Stdout
	Logger      *logrus.Logger
}

// New creates an Updater.
func New(opts Options) *Updater {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetLevel(logrus.WarnLevel)
	}
	return &Updater{
		catalog: opts.Catalog,
		modID:   opts.ModID,
		dir:     opts.DownloadDir,
		filters: opts.Filters,
		out:     opts.Out,
		log:     opts.Logger,
	}
}

// Status is the outcome of a sync or check pass.
type Status struct {
	Selected     *curse.File
	NeedsFetch   bool
	Reason       Reason
	BytesWritten int64 // only set after a real download
}

// selectTarget queries the catalog and picks the install target.
func (u *Updater) selectTarget(ctx context.Context) (*curse.File, error) {
	mod, err := u.catalog.Mod(ctx, u.modID)
	if err != nil {
		return nil, fmt.Errorf("fetching mod info: %w", err)
	}
	fmt.Fprintf(u.out, "✅ Found mod: %s (by %s)\n", mod.Name, mod.AuthorName())

	files, err := u.catalog.ModFiles(ctx, u.modID, u.filters)
	if err != nil {
		return nil, fmt.Errorf("fetching mod files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("mod %d has no downloadable files", u.modID)
	}

	selected := SelectInstallTarget(files, func(fileID int) (*curse.File, error) {
		f, err := u.catalog.ModFile(ctx, u.modID, fileID)
		if err != nil {
			u.log.WithError(err).WithField("file_id", fileID).
				Warn("could not resolve server pack reference, using regular file")
		}
		return f, err
	})
	if selected == nil {
		return nil, fmt.Errorf("mod %d has no installable file", u.modID)
	}

	kind := "file"
	if selected.IsServerPack {
		kind = "server pack"
	}
	fmt.Fprintf(u.out, "📄 Latest %s: %s (%s, %s)\n",
		kind, selected.FileName, selected.FileDate, humanize.Bytes(uint64(selected.FileLength)))

	return selected, nil
}

// loadState loads the ledger, downgrading a corrupt document to a warning.
func (u *Updater) loadState() store.SyncState {
	state, err := store.Load(u.dir)
	if err != nil {
		fmt.Fprintf(u.out, "⚠️  Could not load download metadata (treating as empty): %s\n", err)
	}
	return state
}

// Check evaluates freshness without downloading anything.
func (u *Updater) Check(ctx context.Context) (*Status, error) {
	selected, err := u.selectTarget(ctx)
	if err != nil {
		return nil, err
	}

	needs, reason := NeedsDownload(selected, u.dir, u.loadState())
	return &Status{Selected: selected, NeedsFetch: needs, Reason: reason}, nil
}

// Run executes one full sync pass: query, select, evaluate, and download
// when required, recording the result in the ledger.
func (u *Updater) Run(ctx context.Context) (*Status, error) {
	selected, err := u.selectTarget(ctx)
	if err != nil {
		return nil, err
	}

	state := u.loadState()
	needs, reason := NeedsDownload(selected, u.dir, state)
	status := &Status{Selected: selected, NeedsFetch: needs, Reason: reason}

	if !needs {
		fmt.Fprintf(u.out, "✅ %s\n", reason)
		return status, nil
	}

	fmt.Fprintf(u.out, "📥 Download needed: %s\n", reason)

	fetcher := NewFetcher(u.catalog, u.log)
	written, err := fetcher.Fetch(ctx, selected, u.dir)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", selected.FileName, err)
	}
	status.BytesWritten = written
	fmt.Fprintf(u.out, "✅ Downloaded %s (%s)\n", selected.FileName, humanize.Bytes(uint64(written)))

	u.record(selected, state)
	return status, nil
}

// record updates the ledger for a completed download. A failed save is
// reported but does not undo the download: the artifact is present and the
// next pass's size/hash checks still confirm freshness.
func (u *Updater) record(selected *curse.File, state store.SyncState) {
	var hash *string
	if v, ok := selected.SHA1(); ok {
		hash = &v
	}

	state[strconv.Itoa(selected.ID)] = store.NewRecord(
		selected.FileName, selected.FileDate, selected.FileLength, hash, selected.DisplayName)

	if err := store.Save(u.dir, state); err != nil {
		fmt.Fprintf(u.out, "⚠️  Download succeeded but metadata was not recorded: %s\n", err)
		u.log.WithError(err).Warn("failed to persist download metadata")
	}
}
