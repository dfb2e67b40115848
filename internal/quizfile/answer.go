package quizfile

import "fmt"

// ResolveAnswer returns the index of the option equal to answer. Both sides
// are expected to be normalized already; the comparison is exact.
func ResolveAnswer(answer string, options []string) (int, error) {
	for i, option := range options {
		if option == answer {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrAnswerNotFound, answer)
}
