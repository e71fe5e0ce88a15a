package app

import (
	"media-rename/internal/journal"
	"media-rename/internal/media"
)

// Operation tracks one mutating CLI invocation. It is created in memory
// with ID=0 and gets the journal's row ID once the run is recorded.
type Operation struct {
	ID     int64
	RunID  string
	Name   string // journal.OpRename or journal.OpUndo
	Target string
	DryRun bool
	Status string
}

// NewOperation creates a new in-memory operation in the running state.
func NewOperation(runID, name, target string, dryRun bool) *Operation {
	return &Operation{
		RunID:  runID,
		Name:   name,
		Target: target,
		DryRun: dryRun,
		Status: journal.StatusRunning,
	}
}

// Persisted returns true if this operation has been saved to the journal.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// renameCounts folds a batch report into journal counts. Planned files of
// a dry run count as succeeded.
func renameCounts(r *media.BatchReport) journal.Counts {
	return journal.Counts{
		Succeeded: r.Count(media.StatusRenamed) + r.Count(media.StatusPlanned),
		Unchanged: r.Count(media.StatusUnchanged),
		Skipped:   r.Count(media.StatusSkipped),
		Failed:    r.Count(media.StatusFailed),
	}
}

func renameFailures(r *media.BatchReport) []journal.Failure {
	var out []journal.Failure
	for _, res := range r.Failures() {
		out = append(out, journal.Failure{Path: res.Source, Message: res.Err.Error()})
	}
	return out
}

// undoCounts folds an undo report into journal counts. Missing files count
// as skipped.
func undoCounts(r *media.UndoReport) journal.Counts {
	return journal.Counts{
		Succeeded: len(r.Restored),
		Skipped:   len(r.Missing),
		Failed:    len(r.Failed),
	}
}

func undoFailures(r *media.UndoReport) []journal.Failure {
	var out []journal.Failure
	for _, f := range r.Failed {
		out = append(out, journal.Failure{Path: f.Record.NewPath, Message: f.Err.Error()})
	}
	return out
}

// finalStatus maps counts to a run status.
func finalStatus(c journal.Counts) string {
	if c.Failed > 0 {
		return journal.StatusPartial
	}
	return journal.StatusSuccess
}
