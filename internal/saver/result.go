// Package saver writes raster images to the three supported destinations and
// relocates privately saved files into the granted folder.
package saver

import (
	"context"
	"errors"
	"time"

	"saf-demo/internal/documents"
	"saf-demo/internal/raster"
)

var (
	ErrPermissionDenied = errors.New("no writable folder grant")
	ErrCanceled         = errors.New("save canceled")
)

// Failure tags why a save produced no destination.
type Failure int

const (
	NoFailure Failure = iota
	PermissionDenied
	IOError
	Canceled
	ImageReleased
)

func (f Failure) String() string {
	switch f {
	case NoFailure:
		return "none"
	case PermissionDenied:
		return "permission_denied"
	case IOError:
		return "io_error"
	case Canceled:
		return "canceled"
	case ImageReleased:
		return "image_released"
	default:
		return "unknown"
	}
}

// Result is either a destination identifier or a tagged failure. Err keeps the
// cause for logging only.
type Result struct {
	Destination string
	Failure     Failure
	Err         error
}

func (r Result) OK() bool {
	return r.Failure == NoFailure && r.Destination != ""
}

func succeeded(destination string) Result {
	return Result{Destination: destination}
}

func failed(err error) Result {
	return Result{Failure: Classify(err), Err: err}
}

// Classify maps an error from this package or its dependencies onto a Failure.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return NoFailure
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, documents.ErrNoTree),
		errors.Is(err, documents.ErrNotWritable):
		return PermissionDenied
	case errors.Is(err, ErrCanceled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return Canceled
	case errors.Is(err, raster.ErrReleased):
		return ImageReleased
	default:
		return IOError
	}
}

// TimestampName is the base file name used by every trigger action.
func TimestampName(t time.Time) string {
	return t.Format("20060102_150405")
}
