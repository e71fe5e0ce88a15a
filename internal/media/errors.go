package media

import "errors"

var (
	// ErrInvalidPath is returned when a rename target does not exist or is
	// neither a regular file nor a directory. It aborts the whole invocation.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnsupportedType marks a file whose extension has no media category.
	// It is reported as a skip, never as a failure.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrDestinationExists is returned when a destination appeared between
	// collision probing and the move.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrExportNameUnparsable marks a platform-export file whose name carries
	// no usable millisecond timestamp. The file is skipped.
	ErrExportNameUnparsable = errors.New("export filename has no parsable timestamp")

	// ErrUnrecordablePath marks a source or destination that cannot be
	// written to the ledger. The file is failed before it is moved.
	ErrUnrecordablePath = errors.New("path cannot be recorded in ledger")
)
