package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Mode selects how a rename derives its timestamp.
type Mode int

const (
	// ModeStandard resolves timestamps from metadata or the filesystem.
	ModeStandard Mode = iota
	// ModeExport parses the timestamp out of platform-export filenames.
	ModeExport
)

// Options controls a rename invocation.
type Options struct {
	Prefix              string
	UseEmbeddedMetadata bool
	Mode                Mode
	DryRun              bool
}

// Lister enumerates the direct children of dir whose extension matches one
// of exts, case-insensitively. exts carry no leading dot.
type Lister interface {
	List(dir string, exts []string) ([]string, error)
}

// Engine orchestrates single-file and directory renames. Each file runs the
// pipeline timestamp -> name -> destination -> move -> record in order; a
// failure at any step ends that file's task without touching its siblings.
type Engine struct {
	fs         afero.Fs
	lister     Lister
	timestamps *TimestampResolver
	formatter  *NameFormatter
	collisions *CollisionResolver
	ledger     Ledger
	logger     Logger

	workers    int
	onProgress func(done, total int)
}

// NewEngine creates a rename engine over the given filesystem.
func NewEngine(fsys afero.Fs, lister Lister, timestamps *TimestampResolver, formatter *NameFormatter, ledger Ledger, logger Logger) *Engine {
	return &Engine{
		fs:         fsys,
		lister:     lister,
		timestamps: timestamps,
		formatter:  formatter,
		collisions: NewCollisionResolver(fsys),
		ledger:     ledger,
		logger:     logger,
	}
}

// SetWorkers caps the number of files renamed concurrently in a batch.
// n <= 0 runs one goroutine per file.
func (e *Engine) SetWorkers(n int) {
	e.workers = n
}

// SetProgressFunc registers fn to be called after each batch task finishes.
// Calls are serialized and done is strictly increasing.
func (e *Engine) SetProgressFunc(fn func(done, total int)) {
	e.onProgress = fn
}

// Rename dispatches to RenameOne or RenameBatch depending on whether path
// is a regular file or a directory. Anything else is ErrInvalidPath.
func (e *Engine) Rename(path string, opts Options) (*BatchReport, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPath, path, err)
	}

	info, err := e.fs.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPath, absPath, err)
	}

	switch {
	case info.Mode().IsRegular():
		return &BatchReport{Results: []Result{e.RenameOne(absPath, opts)}}, nil
	case info.IsDir():
		return e.RenameBatch(absPath, opts)
	default:
		return nil, fmt.Errorf("%w: not a file or directory: %s", ErrInvalidPath, absPath)
	}
}

// RenameBatch renames every media file directly inside dir concurrently.
// Individual failures are collected in the report; only a listing failure
// fails the batch.
func (e *Engine) RenameBatch(dir string, opts Options) (*BatchReport, error) {
	paths, err := e.lister.List(dir, SupportedExtensions())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	e.logger.Info("batch started", "dir", dir, "files", len(paths))

	results := make([]Result, len(paths))
	workers := e.workers
	if workers <= 0 || workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int, len(paths))
	for i := range paths {
		jobs <- i
	}
	close(jobs)

	var (
		wg         sync.WaitGroup
		progressMu sync.Mutex
		done       int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.RenameOne(paths[i], opts)

				if e.onProgress != nil {
					progressMu.Lock()
					done++
					e.onProgress(done, len(paths))
					progressMu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	report := &BatchReport{Results: results}
	e.logger.Info("batch finished",
		"dir", dir,
		"renamed", report.Count(StatusRenamed),
		"unchanged", report.Count(StatusUnchanged),
		"skipped", report.Count(StatusSkipped),
		"failed", report.Count(StatusFailed),
	)
	return report, nil
}

// RenameOne runs the rename pipeline for a single file. It never panics or
// returns an error; the outcome is carried in the Result.
func (e *Engine) RenameOne(path string, opts Options) Result {
	ext := filepath.Ext(path)
	cat, ok := Classify(ext)
	if !ok {
		e.logger.Warn("skipping non-media file", "path", path)
		return Result{Source: path, Status: StatusSkipped, Err: fmt.Errorf("%w: %q", ErrUnsupportedType, ext)}
	}
	if !Recordable(path) {
		return e.fail(path, "", fmt.Errorf("%w: %q", ErrUnrecordablePath, path))
	}

	var name string
	switch opts.Mode {
	case ModeExport:
		ts, err := ParseExportTimestamp(path)
		if err != nil {
			e.logger.Warn("skipping file without export timestamp", "path", path)
			return Result{Source: path, Status: StatusSkipped, Err: err}
		}
		name = e.formatter.FormatExport(cat, ts, opts.Prefix, ext)
	default:
		ts, err := e.timestamps.Resolve(path, cat, opts.UseEmbeddedMetadata)
		if err != nil {
			return e.fail(path, "", fmt.Errorf("resolving timestamp: %w", err))
		}
		name = e.formatter.Format(cat, ts, opts.Prefix, ext)
	}

	dest, err := e.collisions.Resolve(path, filepath.Dir(path), name)
	if err != nil {
		return e.fail(path, "", fmt.Errorf("resolving destination: %w", err))
	}

	if dest == path {
		e.logger.Info("name unchanged", "path", path)
		return Result{Source: path, Destination: dest, Status: StatusUnchanged}
	}
	if !Recordable(dest) {
		e.collisions.Release(dest)
		return e.fail(path, "", fmt.Errorf("%w: %q", ErrUnrecordablePath, dest))
	}

	// Dry runs keep their claims so a plan never shows two files sharing
	// a destination.
	if opts.DryRun {
		e.logger.Info("would rename", "from", path, "to", dest)
		return Result{Source: path, Destination: dest, Status: StatusPlanned}
	}
	defer e.collisions.Release(dest)

	if err := e.move(path, dest); err != nil {
		return e.fail(path, dest, err)
	}

	if err := e.ledger.Append(RenameRecord{OriginalPath: path, NewPath: dest}); err != nil {
		// An unrecorded rename can never be undone; put the file back.
		if rbErr := e.fs.Rename(dest, path); rbErr != nil {
			e.logger.Error("rename not recorded and could not be reverted",
				"from", path, "to", dest, "error", err, "revert_error", rbErr)
			return e.fail(path, dest, errors.Join(fmt.Errorf("recording rename: %w", err), rbErr))
		}
		return e.fail(path, dest, fmt.Errorf("recording rename: %w", err))
	}

	e.logger.Info("renamed", "from", path, "to", dest)
	return Result{Source: path, Destination: dest, Status: StatusRenamed}
}

// move renames source to dest, refusing to replace a file that appeared at
// dest after collision probing.
func (e *Engine) move(source, dest string) error {
	exists, err := afero.Exists(e.fs, dest)
	if err != nil {
		return fmt.Errorf("checking %s: %w", dest, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}
	if err := e.fs.Rename(source, dest); err != nil {
		return fmt.Errorf("moving file: %w", err)
	}
	return nil
}

func (e *Engine) fail(path, dest string, err error) Result {
	e.logger.Error("rename failed", "path", path, "error", err)
	return Result{Source: path, Destination: dest, Status: StatusFailed, Err: err}
}
