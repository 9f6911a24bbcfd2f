package util

import "errors"

// Sentinel errors for the ingestion failure taxonomy. Pipeline code
// wraps these with fmt.Errorf("%w: ...") and classifies with errors.Is.
var (
	// ErrInvalidInput indicates a bad path or unexpected file extension,
	// detected before any I/O
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates malformed or unparseable source content;
	// the file is skipped, never retried
	ErrExtraction = errors.New("extraction failed")

	// ErrStorage indicates a sink was unreachable or rejected a write;
	// remaining stages for the file are skipped
	ErrStorage = errors.New("storage failure")

	// ErrConfiguration indicates a missing dataset root or unusable
	// store settings; fatal to the whole batch
	ErrConfiguration = errors.New("invalid configuration")
)
