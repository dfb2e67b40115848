// Package quizfile reads quiz files made of four-line records:
//
//	What is the capital of France?
//	*) Paris *) London *) Rome
//	   Paris
//	<blank line>
//
// The first line is the question, the second holds the options, the third
// repeats the correct option verbatim and the fourth separates records.
package quizfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"unicode/utf8"

	"quiz-reader/internal/domain"
	"quiz-reader/internal/textnorm"
)

type readerState int

const (
	stateClosed readerState = iota
	stateOpen
	stateDrained
)

// Option configures a Reader.
type Option func(*Reader)

// WithLimits overrides the record size limits.
func WithLimits(limits Limits) Option {
	return func(r *Reader) {
		r.limits = limits.withDefaults()
	}
}

// WithFS makes the reader open its path from fsys instead of the OS file system.
func WithFS(fsys fs.FS) Option {
	return func(r *Reader) {
		r.fsys = fsys
	}
}

// WithDebugLogger logs every raw line as it is read.
func WithDebugLogger(logger *log.Logger) Option {
	return func(r *Reader) {
		r.debug = logger
	}
}

// Reader yields the records of one quiz file in order. The file is opened
// lazily by the first call to Next and released once input is exhausted or
// the reader is reset. A Reader is not safe for concurrent use.
type Reader struct {
	path   string
	fsys   fs.FS
	limits Limits
	debug  *log.Logger

	state  readerState
	file   io.Closer
	lines  *bufio.Reader
	line   int
	number int
}

// NewReader returns a closed reader for the quiz file at path.
func NewReader(path string, opts ...Option) *Reader {
	r := &Reader{
		path:   path,
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the file the reader reads from.
func (r *Reader) Path() string {
	return r.path
}

// Next returns the next record. It returns io.EOF once the input is
// exhausted, and keeps returning io.EOF on later calls. Malformed input is
// reported as a *LineError wrapping one of the package's sentinel errors.
func (r *Reader) Next() (domain.QuestionRecord, error) {
	switch r.state {
	case stateDrained:
		return domain.QuestionRecord{}, io.EOF
	case stateClosed:
		if err := r.open(); err != nil {
			return domain.QuestionRecord{}, err
		}
	}

	question, err := r.readQuestion()
	if errors.Is(err, io.EOF) {
		if err := r.release(); err != nil {
			return domain.QuestionRecord{}, err
		}
		r.state = stateDrained
		return domain.QuestionRecord{}, io.EOF
	}
	if err != nil {
		return domain.QuestionRecord{}, err
	}

	optionsLine, err := r.requireLine("options")
	if err != nil {
		return domain.QuestionRecord{}, err
	}
	options, err := ParseOptions(optionsLine, r.limits)
	if err != nil {
		return domain.QuestionRecord{}, r.lineError(r.line, err)
	}

	answerLine, err := r.requireLine("answer")
	if err != nil {
		return domain.QuestionRecord{}, err
	}
	answer, err := ResolveAnswer(textnorm.Normalize(answerLine), options)
	if err != nil {
		return domain.QuestionRecord{}, r.lineError(r.line, err)
	}

	// The last record may end without a separator.
	separator, err := r.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.QuestionRecord{}, err
	}
	if err == nil && !textnorm.IsBlank(separator) {
		return domain.QuestionRecord{}, r.lineError(r.line, ErrBadSeparator)
	}

	r.number++
	return domain.QuestionRecord{
		Number:      r.number,
		Question:    question,
		Options:     options,
		AnswerIndex: answer,
	}, nil
}

// Reset releases the file, if open, so the next call to Next starts over
// from the first record.
func (r *Reader) Reset() error {
	err := r.release()
	r.state = stateClosed
	return err
}

// Close releases the file. It is safe to call more than once.
func (r *Reader) Close() error {
	return r.Reset()
}

func (r *Reader) open() error {
	var (
		file io.ReadCloser
		err  error
	)
	if r.fsys != nil {
		file, err = r.fsys.Open(r.path)
	} else {
		file, err = os.Open(r.path)
	}
	if err != nil {
		return fmt.Errorf("open quiz file: %w", err)
	}

	r.file = file
	r.lines = bufio.NewReader(file)
	r.line = 0
	r.number = 0
	r.state = stateOpen
	return nil
}

func (r *Reader) release() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.lines = nil
	if err != nil {
		return fmt.Errorf("close quiz file: %w", err)
	}
	return nil
}

// readLine returns the next raw line including its newline. io.EOF is
// returned only when nothing is left; a final unterminated line is a line.
func (r *Reader) readLine() (string, error) {
	text, err := r.lines.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read quiz file: %w", err)
		}
		if text == "" {
			return "", io.EOF
		}
	}
	r.line++
	if r.debug != nil {
		r.debug.Printf("%s:%d: read %q", r.path, r.line, text)
	}
	return text, nil
}

func (r *Reader) requireLine(what string) (string, error) {
	text, err := r.readLine()
	if errors.Is(err, io.EOF) {
		return "", r.lineError(r.line+1, fmt.Errorf("%w: no %s line", ErrMissingLine, what))
	}
	return text, err
}

// readQuestion reads the question line of a record. A blank line there is an
// error unless only blank lines remain before the end of input.
func (r *Reader) readQuestion() (string, error) {
	blankAt := 0
	for {
		text, err := r.readLine()
		if err != nil {
			return "", err
		}
		if textnorm.IsBlank(text) {
			if blankAt == 0 {
				blankAt = r.line
			}
			continue
		}
		if blankAt != 0 {
			return "", r.lineError(blankAt, ErrBadQuestionLine)
		}

		question := textnorm.Normalize(text)
		if n := utf8.RuneCountInString(question); n > r.limits.MaxQuestionLength {
			return "", r.lineError(r.line, fmt.Errorf("%w: %d characters, at most %d allowed", ErrQuestionTooLong, n, r.limits.MaxQuestionLength))
		}
		return question, nil
	}
}

func (r *Reader) lineError(line int, err error) error {
	return &LineError{Path: r.path, Line: line, Err: err}
}

// ReadAll drains r and returns every record it yields. Reaching the end of
// input is not an error; any other error stops reading.
func ReadAll(r *Reader) ([]domain.QuestionRecord, error) {
	var records []domain.QuestionRecord
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// ReadQuiz reads the whole file at path into a quiz with the given ID.
func ReadQuiz(path, quizID string, opts ...Option) (domain.Quiz, error) {
	reader := NewReader(path, opts...)
	defer reader.Close()

	records, err := ReadAll(reader)
	if err != nil {
		return domain.Quiz{}, err
	}
	return domain.Quiz{
		ID:        quizID,
		Source:    path,
		Questions: records,
	}, nil
}
