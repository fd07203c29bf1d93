package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNilState           = errors.New("invalid state: state cannot be nil")
	ErrReentrantDispose   = errors.New("dispose called from within a transition of the same machine")
	ErrOptionTypeMismatch = errors.New("option value does not match the machine tag type")
)

// DuplicateStateError indicates two registered states share the same tag.
type DuplicateStateError struct {
	Tag any
}

func (e *DuplicateStateError) Error() string {
	return fmt.Sprintf("state '%v' already exists in the state machine", e.Tag)
}

func NewDuplicateStateError(tag any) *DuplicateStateError {
	return &DuplicateStateError{Tag: tag}
}

// UnknownStateError indicates a transition targeted a tag that is not registered.
// After Dispose every tag is unknown.
type UnknownStateError struct {
	Tag any
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("state '%v' does not exist in the state machine", e.Tag)
}

func NewUnknownStateError(tag any) *UnknownStateError {
	return &UnknownStateError{Tag: tag}
}

func IsDuplicateStateError(err error) bool {
	var e *DuplicateStateError
	return errors.As(err, &e)
}

func IsUnknownStateError(err error) bool {
	var e *UnknownStateError
	return errors.As(err, &e)
}
