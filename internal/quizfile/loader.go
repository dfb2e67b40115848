package quizfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"quiz-reader/internal/domain"
)

// Ext is the file extension of quiz files served by a Loader.
const Ext = ".txt"

// Loader loads quizzes from a directory of quiz files, one file per quiz
// named <quizID>.txt.
type Loader struct {
	fsys fs.FS
	opts []Option
}

func NewLoader(fsys fs.FS, opts ...Option) *Loader {
	return &Loader{fsys: fsys, opts: opts}
}

func (l *Loader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return domain.Quiz{}, err
	}
	if quizID == "" || strings.ContainsAny(quizID, `/\`) || !fs.ValidPath(quizID) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}

	name := quizID + Ext
	opts := append([]Option{WithFS(l.fsys)}, l.opts...)
	quiz, err := ReadQuiz(name, quizID, opts...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("load quiz %s: %w", quizID, err)
	}
	return quiz, nil
}
