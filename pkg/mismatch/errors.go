package mismatch

import (
	"errors"
	"fmt"
)

// Kind identifies a fatal condition that stops the run
type Kind int

const (
	// OpenFailure means an input or output could not be opened
	OpenFailure Kind = iota + 1
	// ModeConflict means single and paired records were mixed
	ModeConflict
	// MissingMateDesignation means a paired record has neither read flag
	MissingMateDesignation
	// LengthMismatch means a record's length disagrees with its lane
	LengthMismatch
	// UnexpectedSymbol means the MD string holds a character it cannot
	UnexpectedSymbol
	// CycleOutOfRange means a decoded mismatch fell outside the lane
	CycleOutOfRange
	// MissingAttribute means a required aux tag was absent
	MissingAttribute
)

var kindNames = map[Kind]string{
	OpenFailure:            "open failure",
	ModeConflict:           "mode conflict",
	MissingMateDesignation: "missing mate designation",
	LengthMismatch:         "length mismatch",
	UnexpectedSymbol:       "unexpected symbol",
	CycleOutOfRange:        "cycle out of range",
	MissingAttribute:       "missing attribute",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a fatal condition raised while processing a run
type Error struct {
	Kind Kind
	Msg  string
	Read string // read name, if the error is tied to a record
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Read != "" {
		msg = fmt.Sprintf("%s (read %s)", msg, e.Read)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries a fatal condition of kind k
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// OpenError wraps a failure to open path
func OpenError(what, path string, err error) error {
	return &Error{
		Kind: OpenFailure,
		Msg:  fmt.Sprintf("cannot open %s file %s", what, path),
		Err:  err,
	}
}
