// Package errs defines the error kinds shared by the resolution and
// publication phases.
//
// Every failure that crosses a component boundary is an *Error carrying a
// Kind. Callers branch on the kind with errors.Is against the sentinel
// values (ErrNotFound, ErrConflict, ...) or with KindOf:
//
//	if errors.Is(err, errs.ErrNotFound) {
//	    // no stable version upstream, not an update
//	}
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindFetch is a transport failure while retrieving a document.
	KindFetch
	// KindDecode is retrieved content that does not match the expected schema.
	KindDecode
	// KindNotFound means no entry, or no stable version, exists for a chart.
	KindNotFound
	// KindRefExists means the branch to create is already taken.
	KindRefExists
	// KindConflict means the tracked file changed since the snapshot.
	KindConflict
	// KindHostingAPI is any other hosting platform failure.
	KindHostingAPI
	// KindConfig is a missing or invalid setting.
	KindConfig
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindFetch:      "fetch",
	KindDecode:     "decode",
	KindNotFound:   "not found",
	KindRefExists:  "ref exists",
	KindConflict:   "conflict",
	KindHostingAPI: "hosting api",
	KindConfig:     "config",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure.
type Error struct {
	// Kind is the failure class.
	Kind Kind
	// Op names the operation that failed, e.g. "fetch index".
	Op string
	// Subject is what the operation acted on: a chart, URL or branch.
	Subject string
	// Err is the underlying cause, if any.
	Err error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrFetch      = &Error{Kind: KindFetch}
	ErrDecode     = &Error{Kind: KindDecode}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrRefExists  = &Error{Kind: KindRefExists}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrHostingAPI = &Error{Kind: KindHostingAPI}
	ErrConfig     = &Error{Kind: KindConfig}
)

// New returns a classified error.
func New(kind Kind, op, subject string, err error) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op
	}
	if e.Subject != "" {
		msg += " " + e.Subject
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Subject == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
