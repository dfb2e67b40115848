package quizfile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"quiz-reader/internal/textnorm"
)

// Delimiter introduces every option on an options line.
const Delimiter = "*) "

// ParseOptions splits an options line such as "*) A *) B *) C" into its
// normalized options, in file order. Scanning stops at the first newline.
func ParseOptions(line string, limits Limits) ([]string, error) {
	limits = limits.withDefaults()

	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if !strings.HasPrefix(line, Delimiter) {
		return nil, ErrMissingDelimiter
	}

	parts := strings.Split(line[len(Delimiter):], Delimiter)
	if len(parts) > limits.MaxOptions {
		return nil, fmt.Errorf("%w: got %d, at most %d allowed", ErrTooManyOptions, len(parts), limits.MaxOptions)
	}

	options := make([]string, 0, len(parts))
	for i, part := range parts {
		option := textnorm.Normalize(part)
		if option == "" {
			return nil, fmt.Errorf("%w: option %d", ErrEmptyOption, i+1)
		}
		if n := utf8.RuneCountInString(option); n > limits.MaxOptionLength {
			return nil, fmt.Errorf("%w: option %d has %d characters, at most %d allowed", ErrOptionTooLong, i+1, n, limits.MaxOptionLength)
		}
		options = append(options, option)
	}
	return options, nil
}
