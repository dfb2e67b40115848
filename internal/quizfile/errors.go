package quizfile

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDelimiter is returned when an options line does not start with "*) ".
	ErrMissingDelimiter = errors.New(`options line does not start with "*) "`)
	// ErrTooManyOptions is returned when an options line holds more options than allowed.
	ErrTooManyOptions = errors.New("too many options")
	// ErrOptionTooLong is returned when a single option exceeds the length limit.
	ErrOptionTooLong = errors.New("option too long")
	// ErrEmptyOption is returned when two delimiters enclose nothing but whitespace.
	ErrEmptyOption = errors.New("empty option")
	// ErrQuestionTooLong is returned when the question text exceeds the length limit.
	ErrQuestionTooLong = errors.New("question too long")
	// ErrBadQuestionLine is returned when a record starts with a blank line.
	ErrBadQuestionLine = errors.New("question line is blank")
	// ErrMissingLine is returned when input ends in the middle of a record.
	ErrMissingLine = errors.New("record is missing a line")
	// ErrBadSeparator is returned when the line after the answer is not blank.
	ErrBadSeparator = errors.New("separator line is not blank")
	// ErrAnswerNotFound is returned when the answer line matches none of the options.
	ErrAnswerNotFound = errors.New("answer does not match any option")
)

// LineError locates a format violation in a quiz file.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err is a malformed-input error rather than an I/O failure.
func IsFormatError(err error) bool {
	var lineErr *LineError
	return errors.As(err, &lineErr)
}
