package quizfile

// Default bounds of a quiz file record.
const (
	DefaultMaxOptions        = 6
	DefaultMaxOptionLength   = 100
	DefaultMaxQuestionLength = 250
)

// Limits bounds the size of a record. Lengths are counted in characters
// after normalization. Zero fields fall back to the defaults.
type Limits struct {
	MaxOptions        int
	MaxOptionLength   int
	MaxQuestionLength int
}

// DefaultLimits returns the limits of the classic quiz file layout.
func DefaultLimits() Limits {
	return Limits{
		MaxOptions:        DefaultMaxOptions,
		MaxOptionLength:   DefaultMaxOptionLength,
		MaxQuestionLength: DefaultMaxQuestionLength,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxOptions <= 0 {
		l.MaxOptions = DefaultMaxOptions
	}
	if l.MaxOptionLength <= 0 {
		l.MaxOptionLength = DefaultMaxOptionLength
	}
	if l.MaxQuestionLength <= 0 {
		l.MaxQuestionLength = DefaultMaxQuestionLength
	}
	return l
}
