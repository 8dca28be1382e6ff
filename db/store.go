package db

import (
	"context"
	"errors"
	"fmt"
)

// Persisted document names, one JSON array each
const (
	YearsFile          = "years.json"
	ClassesFile        = "classes.json"
	StudentsFile       = "students.json"
	IncidentsFile      = "incidents.json"
	ConversationsFile  = "conversations.json"
	MeetingMinutesFile = "meeting_minutes.json"
)

// emptyCollection is what a read of a never-written document yields.
var emptyCollection = []byte("[]")

// DocumentStore reads and writes whole named JSON documents. Implementations
// keep no state between calls and do no caching; concurrent writers of the
// same document race and the last write wins.
type DocumentStore interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, body []byte) error
}

var (
	// ErrNotConfigured is returned before any remote call when the store has
	// no URL or credentials.
	ErrNotConfigured = errors.New("remote store is not configured")
	// ErrNetwork marks failures where no HTTP response was obtained at all.
	ErrNetwork = errors.New("network error: remote store unreachable or access denied (CORS)")
	// ErrClassNotFound is returned when an operation targets a class id that
	// does not exist.
	ErrClassNotFound = errors.New("class not found")
	// ErrInvalidWorkbook is returned when an uploaded import file cannot be
	// read as an Excel workbook.
	ErrInvalidWorkbook = errors.New("invalid excel file")
)

// RemoteError is a non-success HTTP answer from the remote store.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store error (%d): %s", e.Status, e.Body)
}

// NetworkError wraps the transport failure behind ErrNetwork.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", ErrNetwork.Error(), e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}
