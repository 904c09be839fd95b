package command

import (
	"errors"
	"fmt"

	"github.com/jrchoo/ip/internal/model"
	"github.com/jrchoo/ip/internal/tasklist"
)

var (
	ErrBlankDescription    = model.ErrBlankDescription
	ErrMalformedArguments  = errors.New("malformed arguments")
	ErrMissingIndex        = errors.New("missing task index")
	ErrNotANumber          = errors.New("task index is not a number")
	ErrIndexOutOfRange     = tasklist.ErrIndexOutOfRange
	ErrMissingKeyword      = errors.New("missing search keyword")
	ErrStorage             = errors.New("storage error")
	ErrUnrecognizedCommand = errors.New("unrecognized command")

	// ErrInternal marks faults that are not part of the command grammar.
	// Interpret returns it as an error instead of a user-facing message.
	ErrInternal = errors.New("internal error")
)

const (
	CodeBlankDescription    = "BLANK_DESCRIPTION"
	CodeMalformedArguments  = "MALFORMED_ARGUMENTS"
	CodeMissingIndex        = "MISSING_INDEX"
	CodeNotANumber          = "NOT_A_NUMBER"
	CodeIndexOutOfRange     = "INDEX_OUT_OF_RANGE"
	CodeMissingKeyword      = "MISSING_KEYWORD"
	CodeStorage             = "STORAGE_ERROR"
	CodeUnrecognizedCommand = "UNRECOGNIZED_COMMAND"
)

// Error is a command failure that carries the message shown to the user.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func blankDescription(noun string) *Error {
	return newError(CodeBlankDescription, ErrBlankDescription, "☹ OOPS!!! The description of %s cannot be empty.", noun)
}

func missingIndex(verb string) *Error {
	if verb == "delete" {
		return newError(CodeMissingIndex, ErrMissingIndex, "To delete a task you have to include the index")
	}
	return newError(CodeMissingIndex, ErrMissingIndex, "To %s a task you need to include the index", verb)
}

func notANumber(value string) *Error {
	return newError(CodeNotANumber, ErrNotANumber, "☹ OOPS!!! %q is not a valid task number.", value)
}

func indexOutOfRange(index, size int, err error) *Error {
	if size == 1 {
		return newError(CodeIndexOutOfRange, err, "☹ OOPS!!! There is no task %d. You have 1 task in your list.", index)
	}
	return newError(CodeIndexOutOfRange, err, "☹ OOPS!!! There is no task %d. You have %d tasks in your list.", index, size)
}

func missingKeyword() *Error {
	return newError(CodeMissingKeyword, ErrMissingKeyword, "To search for a task you need to include a keyword")
}

func unrecognized() *Error {
	return newError(CodeUnrecognizedCommand, ErrUnrecognizedCommand, "☹ OOPS!!! I'm sorry, but I don't know what that means :-(")
}

func storageFailure(err error) *Error {
	return newError(CodeStorage, fmt.Errorf("%w: %v", ErrStorage, err), "☹ OOPS!!! I could not save your tasks, so nothing was changed.")
}
