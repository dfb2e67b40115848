// Package report prints the records of a quiz file in a human-readable form.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"quiz-reader/internal/domain"
)

// RecordSource yields records until it returns io.EOF.
type RecordSource interface {
	Next() (domain.QuestionRecord, error)
}

// Options tunes the report output.
type Options struct {
	// Verbose dumps every option character with its code point.
	Verbose bool
}

// Run prints every record of src to w followed by a total line, and returns
// the number of records read. The first error from src stops the run; the
// count of records printed so far is still returned.
func Run(w io.Writer, src RecordSource, opts Options) (int, error) {
	count := 0
	for {
		record, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}
		count++
		if _, err := io.WriteString(w, formatRecord(count, record, opts)); err != nil {
			return count, fmt.Errorf("write report: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "Read in %d questions.\n", count); err != nil {
		return count, fmt.Errorf("write report: %w", err)
	}
	return count, nil
}

func formatRecord(n int, record domain.QuestionRecord, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%2d. Question: %s\n", n, record.Question)
	fmt.Fprintf(&b, "     Options: (%d)\n", record.OptionCount())
	for i, option := range record.Options {
		fmt.Fprintf(&b, "         [%d] = \"%s\"\n", i, option)
		if opts.Verbose {
			for _, c := range option {
				fmt.Fprintf(&b, "'%c' %d\n", c, c)
			}
		}
	}
	fmt.Fprintf(&b, "The answer is array element %d, which is \"%s\".\n", record.AnswerIndex, record.Answer())
	b.WriteString("\n\n")
	return b.String()
}
