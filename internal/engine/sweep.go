package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
)

// SweepResult summarizes a single retention sweep.
type SweepResult struct {
	// Scanned is the number of regular files inspected.
	Scanned int
	// Removed lists the paths of deleted files.
	Removed []string
	// Freed is the total size of the deleted files in bytes.
	Freed int64
}

// Sweep deletes every regular file in the upload root whose age exceeds the max age.
// A failure to list the root aborts the sweep. A failure to remove a single file
// is logged, the sweep continues and the error is returned at the end.
func (e *Engine) Sweep(ctx context.Context) (SweepResult, error) {
	return e.SweepOlderThan(ctx, e.cfg.MaxAge)
}

// SweepOlderThan is Sweep with an explicit max age.
func (e *Engine) SweepOlderThan(ctx context.Context, maxAge time.Duration) (SweepResult, error) {
	var res SweepResult

	entries, err := os.ReadDir(e.root)
	if err != nil {
		return res, fmt.Errorf("failed to list upload directory: %w", err)
	}

	now := e.now()
	var errs []error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		path := filepath.Join(e.root, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			// removed between listing and stat
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			e.logger.Error("Failed to stat file", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		res.Scanned++

		age := now.Sub(info.ModTime())
		if age <= maxAge {
			continue
		}

		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			e.logger.Error("Failed to remove old file", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}

		res.Removed = append(res.Removed, path)
		res.Freed += info.Size()
		e.logger.Info("removed old file",
			"path", path,
			"size", humanize.Bytes(safeUint64(info.Size())),
			"modified", timediff.TimeDiff(info.ModTime(), timediff.WithStartTime(now)),
		)
	}

	if len(res.Removed) > 0 {
		e.logger.Debug("Retention sweep finished", "scanned", res.Scanned, "removed", len(res.Removed), "freed", humanize.Bytes(safeUint64(res.Freed)))
	}

	return res, errors.Join(errs...)
}

func safeUint64(value int64) uint64 {
	v, err := safecast.Convert[uint64](value)
	if err != nil {
		return 0
	}
	return v
}
