package discover

import (
	"errors"
	"fmt"
)

// ErrorClassifier allows errors to declare a stable classification for
// callers that map failures to exit codes or user messages.
type ErrorClassifier interface {
	ErrorKind() string
}

// Error kinds reported by this package.
const (
	KindNotReady     = "not_ready"
	KindParse        = "parse"
	KindUnresolvable = "unresolvable"
)

type kindError struct {
	kind string
	msg  string
}

func (e *kindError) Error() string     { return e.msg }
func (e *kindError) ErrorKind() string { return e.kind }

var (
	// ErrNotReady means the season file is not available locally yet. A
	// download may have been started; load again once it completes.
	ErrNotReady error = &kindError{kind: KindNotReady, msg: "season data not ready"}

	// ErrUnresolvable means a season entry has no identifier for the active
	// service and cannot be stored.
	ErrUnresolvable error = &kindError{kind: KindUnresolvable, msg: "no identifier for the active service"}
)

// ParseError reports a season file that exists but cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse season data: %v", e.Err)
	}
	return fmt.Sprintf("parse season data %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind implements ErrorClassifier.
func (e *ParseError) ErrorKind() string { return KindParse }

// Kind returns the classification of err, or "" when err does not carry one.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return ""
}
