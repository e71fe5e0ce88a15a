package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"media-rename/internal/archive"
	"media-rename/internal/config"
	mfs "media-rename/internal/fs"
	"media-rename/internal/journal"
	"media-rename/internal/ledger"
	"media-rename/internal/media"
	"media-rename/internal/metadata"
)

// Options carries per-invocation settings that do not live in the config file.
type Options struct {
	// Verbose sends every log level to Console instead of WARN and above.
	Verbose bool
	// Console receives console log lines. Defaults to os.Stderr.
	Console io.Writer
	// WorkDir anchors a relative ledger path. Defaults to the process working directory.
	WorkDir string

	// Test seams; nil selects the real implementation.
	Fs    afero.Fs
	Clock media.Clock
	IDs   media.IDGenerator
}

// MediaApp is the application layer between the CLI and the rename engines.
// It constructs all dependencies from config, records each mutating run in
// the journal and archives the ledger after runs that changed it.
// The caller must call Close when done.
type MediaApp struct {
	cfg       *config.Config
	fs        afero.Fs
	ledger    *ledger.FileLedger
	extractor metadata.Extractor
	journal   journal.Journal
	archive   archive.Store
	engine    *media.Engine
	undo      *media.UndoEngine
	logger    media.Logger
	clock     media.Clock
	runID     string
	logFile   *os.File
}

// NewMediaApp creates a fully wired MediaApp from the given config.
func NewMediaApp(ctx context.Context, cfg *config.Config, opts Options) (*MediaApp, error) {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	clock := opts.Clock
	if clock == nil {
		clock = media.RealClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = media.UUIDGenerator{}
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	ledgerPath, err := resolveLedgerPath(cfg.LedgerPath, opts.WorkDir)
	if err != nil {
		return nil, err
	}

	runID := ids.New()
	slogger, logFile, err := newLogger(cfg.LogDir, runID, console, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	a := &MediaApp{cfg: cfg, fs: fsys, logger: logger, clock: clock, runID: runID, logFile: logFile}

	a.extractor, err = metadata.NewExtractorFromConfig(cfg.Metadata, fsys)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating metadata extractor: %w", err)
	}

	a.journal, err = journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	a.archive, err = archive.NewStoreFromConfig(ctx, cfg.Archive)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating archive: %w", err)
	}

	a.ledger = ledger.NewFileLedger(fsys, ledgerPath)

	lister := mfs.NewMediaLister(fsys, cfg.Ignore)
	timestamps := media.NewTimestampResolver(fsys, a.extractor, mfs.StatxBirthTimer{}, logger)
	formatter := media.NewNameFormatter(media.RandomSuffix{})

	a.engine = media.NewEngine(fsys, lister, timestamps, formatter, a.ledger, logger)
	a.engine.SetWorkers(cfg.Workers)
	a.undo = media.NewUndoEngine(fsys, a.ledger, logger)

	return a, nil
}

func resolveLedgerPath(path, workDir string) (string, error) {
	if path == "" {
		path = config.DefaultLedgerName
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving ledger path: %w", err)
		}
		workDir = wd
	}
	return filepath.Join(workDir, path), nil
}

// RunID identifies this invocation in logs, the journal and archive keys.
func (a *MediaApp) RunID() string { return a.runID }

// LedgerPath returns the absolute ledger path in use.
func (a *MediaApp) LedgerPath() string { return a.ledger.Path() }

// SetProgressFunc forwards batch progress to fn.
func (a *MediaApp) SetProgressFunc(fn func(done, total int)) {
	a.engine.SetProgressFunc(fn)
}

// Rename renames the file or the media files directly inside the directory
// at rawPath. An empty opts.Prefix falls back to the configured prefix.
// The returned error is non-nil only when the path itself is unusable.
func (a *MediaApp) Rename(ctx context.Context, rawPath string, opts media.Options) (*media.BatchReport, error) {
	if opts.Prefix == "" {
		opts.Prefix = a.cfg.Prefix
	}

	target := rawPath
	if abs, err := filepath.Abs(rawPath); err == nil {
		target = abs
	}
	op := a.startOperation(journal.OpRename, target, opts.DryRun)

	report, err := a.engine.Rename(rawPath, opts)
	if err != nil {
		a.finishOperation(op, journal.StatusError, journal.Counts{},
			[]journal.Failure{{Path: target, Message: err.Error()}})
		return nil, err
	}

	counts := renameCounts(report)
	a.finishOperation(op, finalStatus(counts), counts, renameFailures(report))

	if !opts.DryRun && report.Count(media.StatusRenamed) > 0 {
		a.snapshotLedger(ctx)
	}
	return report, nil
}

// PendingUndo returns how many renames the ledger currently holds.
func (a *MediaApp) PendingUndo() (int, error) {
	recs, err := a.ledger.LoadAll()
	if err != nil {
		return 0, fmt.Errorf("loading ledger: %w", err)
	}
	return len(recs), nil
}

// Undo restores every recorded rename, newest first.
func (a *MediaApp) Undo(ctx context.Context) (*media.UndoReport, error) {
	op := a.startOperation(journal.OpUndo, a.ledger.Path(), false)

	report, err := a.undo.RestoreAll()
	if err != nil && report == nil {
		a.finishOperation(op, journal.StatusError, journal.Counts{},
			[]journal.Failure{{Path: a.ledger.Path(), Message: err.Error()}})
		return nil, err
	}

	counts := undoCounts(report)
	failures := undoFailures(report)
	status := finalStatus(counts)
	if err != nil {
		status = journal.StatusError
		failures = append(failures, journal.Failure{Path: a.ledger.Path(), Message: err.Error()})
	}
	a.finishOperation(op, status, counts, failures)

	if len(report.Restored) > 0 {
		a.snapshotLedger(ctx)
	}
	return report, err
}

// History returns the most recent journal runs, newest first.
func (a *MediaApp) History(limit int) ([]journal.Run, error) {
	return a.journal.ListRuns(limit)
}

// RunFailures returns the per-file failures recorded for a run.
func (a *MediaApp) RunFailures(id int64) ([]journal.Failure, error) {
	return a.journal.Failures(id)
}

// startOperation records the run; journal errors are logged and never
// block the rename itself.
func (a *MediaApp) startOperation(name, target string, dryRun bool) *Operation {
	op := NewOperation(a.runID, name, target, dryRun)
	id, err := a.journal.StartRun(op.RunID, op.Name, op.Target, op.DryRun, a.clock.Now())
	if err != nil {
		a.logger.Warn("journal unavailable", "error", err)
		return op
	}
	op.ID = id
	return op
}

func (a *MediaApp) finishOperation(op *Operation, status string, counts journal.Counts, failures []journal.Failure) {
	op.Status = status
	if !op.Persisted() {
		return
	}
	if err := a.journal.FinishRun(op.ID, status, counts, failures, a.clock.Now()); err != nil {
		a.logger.Warn("journal update failed", "run", op.RunID, "error", err)
	}
}

func (a *MediaApp) snapshotLedger(ctx context.Context) {
	if _, ok := a.archive.(archive.NopStore); ok {
		return
	}
	key, err := archive.SnapshotLedger(ctx, a.archive, a.fs, a.ledger.Path(), a.runID)
	if err != nil {
		a.logger.Warn("ledger snapshot failed", "error", err)
		return
	}
	a.logger.Info("ledger archived", "key", key, "location", a.archive.Location())
}

// Close releases the extractor, the journal and the log file.
func (a *MediaApp) Close() error {
	var errs []error

	if a.extractor != nil {
		if err := a.extractor.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing metadata extractor: %w", err))
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing journal: %w", err))
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}

	return errors.Join(errs...)
}
