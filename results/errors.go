package results

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fetch stages, used to tell apart where a single constituency failed
const (
	StageLoad     = "load"
	StageBlocked  = "blocked"
	StageScope    = "scope"
	StageParse    = "parse"
	StageValidate = "validate"
	StageCache    = "cache"
)

// revive:exported
var (
	ErrNoTable    = errors.New("no results table found")
	ErrWrongArity = errors.New("unexpected number of cells in result row")
	ErrBlocked    = errors.New("access to results page was denied")
	ErrBadHeader  = errors.New("output file header does not match")
)

// SetupError means a collaborator (browser, remote site, cache) could not be
// made available, the run is aborted before the loop starts.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return "setup failed: " + e.Err.Error()
}

func (e *SetupError) Unwrap() error { return e.Err }

// NewSetupError wraps err with a message
func NewSetupError(err error, msg string) error {
	return &SetupError{Err: errors.Wrap(err, msg)}
}

// FetchError is a failure for a single constituency. It is recovered by the
// run loop and the constituency stays pending for the next run.
type FetchError struct {
	ID    int
	Stage string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("constituency %d: %s: %v", e.ID, e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError for constituency id at the given stage
func NewFetchError(id int, stage string, err error) error {
	return &FetchError{ID: id, Stage: stage, Err: err}
}

// PersistenceError means the output store could not be written
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsSetup reports whether err carries a SetupError
func IsSetup(err error) bool {
	var e *SetupError
	return errors.As(err, &e)
}

// IsFetch reports whether err carries a FetchError
func IsFetch(err error) bool {
	var e *FetchError
	return errors.As(err, &e)
}

// IsPersistence reports whether err carries a PersistenceError
func IsPersistence(err error) bool {
	var e *PersistenceError
	return errors.As(err, &e)
}

// AsFetch converts any error from a fetcher into a FetchError for id,
// keeping the stage if it already is one. Page sources do not know the
// constituency they load, their errors get id filled in.
func AsFetch(id int, err error) *FetchError {
	var e *FetchError
	if errors.As(err, &e) {
		if e.ID == 0 {
			return &FetchError{ID: id, Stage: e.Stage, Err: e.Err}
		}
		return e
	}
	return &FetchError{ID: id, Stage: StageLoad, Err: err}
}
