package media

import (
	"fmt"

	"github.com/spf13/afero"
)

// UndoReport summarizes a restore pass over the ledger.
type UndoReport struct {
	Restored []RenameRecord
	// Missing records point at renamed files that no longer exist. They stay
	// in the ledger because nothing was restored.
	Missing []RenameRecord
	// Failed records could not be moved back; they also stay in the ledger.
	Failed []UndoFailure
}

// UndoFailure pairs a record with the error that prevented its restoration.
type UndoFailure struct {
	Record RenameRecord
	Err    error
}

// Retained returns how many records remain in the ledger after the pass.
func (r *UndoReport) Retained() int {
	return len(r.Missing) + len(r.Failed)
}

// UndoEngine replays the ledger in reverse to restore original filenames.
type UndoEngine struct {
	fs     afero.Fs
	ledger Ledger
	logger Logger
}

func NewUndoEngine(fsys afero.Fs, ledger Ledger, logger Logger) *UndoEngine {
	return &UndoEngine{fs: fsys, ledger: ledger, logger: logger}
}

// RestoreAll moves every recorded file back to its original path, newest
// rename first, then rewrites the ledger to hold only the records that were
// not restored. The original location may be overwritten since that is the
// state being restored.
func (u *UndoEngine) RestoreAll() (*UndoReport, error) {
	records, err := u.ledger.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	report := &UndoReport{}
	keep := make([]bool, len(records))

	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]

		exists, err := afero.Exists(u.fs, rec.NewPath)
		if err != nil {
			u.logger.Error("undo failed", "path", rec.NewPath, "error", err)
			report.Failed = append(report.Failed, UndoFailure{Record: rec, Err: err})
			keep[i] = true
			continue
		}
		if !exists {
			u.logger.Warn("renamed file missing, keeping record", "path", rec.NewPath, "original", rec.OriginalPath)
			report.Missing = append(report.Missing, rec)
			keep[i] = true
			continue
		}

		if err := u.fs.Rename(rec.NewPath, rec.OriginalPath); err != nil {
			u.logger.Error("undo failed", "path", rec.NewPath, "error", err)
			report.Failed = append(report.Failed, UndoFailure{Record: rec, Err: fmt.Errorf("restoring %s: %w", rec.OriginalPath, err)})
			keep[i] = true
			continue
		}

		u.logger.Info("restored", "from", rec.NewPath, "to", rec.OriginalPath)
		report.Restored = append(report.Restored, rec)
	}

	var remaining []RenameRecord
	for i, rec := range records {
		if keep[i] {
			remaining = append(remaining, rec)
		}
	}

	if err := u.ledger.Rewrite(remaining); err != nil {
		return report, fmt.Errorf("rewriting ledger: %w", err)
	}

	u.logger.Info("undo finished", "restored", len(report.Restored), "retained", report.Retained())
	return report, nil
}
