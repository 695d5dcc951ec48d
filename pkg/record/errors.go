package record

import (
	"errors"
	"fmt"
)

// Kind classifies why an image produced no record.
type Kind string

const (
	// KindInput: missing file, unsupported extension or OCR engine failure.
	KindInput Kind = "INPUT"
	// KindLayout: no fragments, or not every tag present.
	KindLayout Kind = "LAYOUT"
	// KindAssociation: a tag or its value could not be located.
	KindAssociation Kind = "ASSOCIATION"
)

// Sentinels matched by errors.Is against association failures.
var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrValueNotFound = errors.New("value not found")
)

// Error is a per-image extraction failure. It never aborts a batch.
type Error struct {
	Kind    Kind
	Tag     Tag
	Path    string
	Message string
	Cause   error

	sentinel error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (image %s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches ErrTagNotFound and ErrValueNotFound.
func (e *Error) Is(target error) bool {
	return e.sentinel != nil && target == e.sentinel
}

// NewInputError reports an image that could not be read or recognized.
func NewInputError(path, message string, cause error) *Error {
	return &Error{Kind: KindInput, Path: path, Message: message, Cause: cause}
}

// NewLayoutError reports an OCR result that is unusable as a whole.
func NewLayoutError(message string) *Error {
	return &Error{Kind: KindLayout, Message: message}
}

// NewTagNotFoundError reports a tag with no exactly matching fragment.
func NewTagNotFoundError(tag Tag) *Error {
	return &Error{
		Kind:    KindAssociation,
		Tag:     tag,
		Message: fmt.Sprintf("tag `%s` not found in OCR result", tag),

		sentinel: ErrTagNotFound,
	}
}

// NewValueNotFoundError reports a tag whose value could not be located.
func NewValueNotFoundError(tag Tag) *Error {
	return &Error{
		Kind:    KindAssociation,
		Tag:     tag,
		Message: fmt.Sprintf("no data assigned to tag `%s` was found", tag),

		sentinel: ErrValueNotFound,
	}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
