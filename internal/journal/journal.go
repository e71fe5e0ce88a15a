package journal

import "time"

// Operation names recorded in the journal.
const (
	OpRename = "rename"
	OpUndo   = "undo"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusPartial = "partial" // finished with per-file failures
	StatusError   = "error"
)

// Counts summarizes the per-file outcomes of a run. For undo runs,
// Succeeded counts restored files and Skipped counts missing ones.
type Counts struct {
	Succeeded int
	Unchanged int
	Skipped   int
	Failed    int
}

// Failure is a single per-file error attached to a run.
type Failure struct {
	Path    string
	Message string
}

// Run is one recorded invocation of a mutating command.
type Run struct {
	ID         int64
	RunID      string
	Operation  string
	Target     string
	DryRun     bool
	Status     string
	Counts     Counts
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Journal records mutating invocations so they can be listed later.
type Journal interface {
	// StartRun inserts a run in the running state and returns its row ID.
	StartRun(runID, operation, target string, dryRun bool, startedAt time.Time) (int64, error)

	// FinishRun sets the final status, counts and failures of a run.
	FinishRun(id int64, status string, counts Counts, failures []Failure, finishedAt time.Time) error

	// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
	ListRuns(limit int) ([]Run, error)

	// Failures returns the failures recorded for a run.
	Failures(id int64) ([]Failure, error)

	Close() error
}

// NopJournal discards everything. It backs type = "none".
type NopJournal struct{}

var _ Journal = NopJournal{}

func (NopJournal) StartRun(string, string, string, bool, time.Time) (int64, error) { return 0, nil }
func (NopJournal) FinishRun(int64, string, Counts, []Failure, time.Time) error     { return nil }
func (NopJournal) ListRuns(int) ([]Run, error)                                     { return nil, nil }
func (NopJournal) Failures(int64) ([]Failure, error)                               { return nil, nil }
func (NopJournal) Close() error                                                    { return nil }
