package decoder

import (
	"fmt"
)

// InputOpenError is returned when the input cannot be opened or read.
type InputOpenError struct {
	Path string
	err  error
}

func NewInputOpenError(path string, err error) *InputOpenError {
	return &InputOpenError{Path: path, err: err}
}

func (e *InputOpenError) Error() string {
	return fmt.Sprintf("opening input '%s': %s", e.Path, e.err)
}

func (e *InputOpenError) Unwrap() error {
	return e.err
}

// DecodeError is returned when a stream is not a supported container or its
// content is malformed.
type DecodeError struct {
	Name string
	msg  string
	err  error
}

func NewDecodeError(name, msg string, err error) *DecodeError {
	return &DecodeError{Name: name, msg: msg, err: err}
}

func (e *DecodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("decoding '%s': %s", e.Name, e.msg)
	}
	return fmt.Sprintf("decoding '%s': %s: %s", e.Name, e.msg, e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}
