package ggedit

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an editor error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindInput indicates an unusable image source. Editor state is left
	// untouched.
	KindInput
	// KindLookup indicates an unknown filter type, preset or layer.
	KindLookup
	// KindEncoding indicates an export failure.
	KindEncoding
	// KindDecode indicates a snapshot could not be reconstructed.
	KindDecode
	// KindState indicates an operation that is invalid in the current
	// editor state, such as undo at the start of history.
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindLookup:
		return "lookup"
	case KindEncoding:
		return "encoding"
	case KindDecode:
		return "decode"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

// Sentinel errors. Editor operations wrap them in an *Error.
var (
	ErrUnsupportedSource = errors.New("ggedit: unsupported image source")
	ErrUnknownFilter     = errors.New("ggedit: unknown filter type")
	ErrUnknownPreset     = errors.New("ggedit: unknown preset")
	ErrUnknownLayer      = errors.New("ggedit: unknown layer")
	ErrUnsupportedFormat = errors.New("ggedit: unsupported export format")
	ErrNoImage           = errors.New("ggedit: layer has no image")
	ErrLocked            = errors.New("ggedit: layer is locked")
	ErrNoCrop            = errors.New("ggedit: no crop in progress")
	ErrStaleSnapshot     = errors.New("ggedit: snapshot superseded by a newer history entry")
	ErrNothingToUndo     = errors.New("ggedit: nothing to undo")
	ErrNothingToRedo     = errors.New("ggedit: nothing to redo")
	ErrClosed            = errors.New("ggedit: editor closed")
)

// Error is a failed editor operation.
type Error struct {
	// Op is the operation that failed, e.g. "LoadImage".
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ggedit: %s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
