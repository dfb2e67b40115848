package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-reader/internal/domain"
)

// QuizStore keeps imported quizzes as JSONB documents, one row per quiz ID.
type QuizStore struct {
	pool *pgxpool.Pool
}

// Import describes one stored version of a quiz.
type Import struct {
	QuizID     string
	Revision   uuid.UUID
	Source     string
	Questions  int
	ImportedAt time.Time
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

// SaveQuiz inserts or replaces quiz and stamps it with a fresh revision.
func (s *QuizStore) SaveQuiz(ctx context.Context, quiz domain.Quiz) (Import, error) {
	data, err := json.Marshal(quiz)
	if err != nil {
		return Import{}, fmt.Errorf("marshal quiz: %w", err)
	}

	imp := Import{
		QuizID:    quiz.ID,
		Revision:  uuid.New(),
		Source:    quiz.Source,
		Questions: len(quiz.Questions),
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO quizzes (id, revision, source, data, imported_at)
		VALUES ($1, $2::uuid, $3, $4::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET revision = EXCLUDED.revision,
		    source = EXCLUDED.source,
		    data = EXCLUDED.data,
		    imported_at = EXCLUDED.imported_at
		RETURNING imported_at`,
		quiz.ID, imp.Revision.String(), quiz.Source, string(data),
	).Scan(&imp.ImportedAt)
	if err != nil {
		return Import{}, fmt.Errorf("save quiz %s: %w", quiz.ID, err)
	}
	return imp, nil
}

// LoadQuiz implements the quiz loader used by the quiz repositories.
func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

// LatestImport returns the revision metadata of a stored quiz.
func (s *QuizStore) LatestImport(ctx context.Context, quizID string) (Import, error) {
	imp := Import{QuizID: quizID}
	var revision string
	err := s.pool.QueryRow(ctx, `
		SELECT revision::text, source, jsonb_array_length(data->'questions'), imported_at
		FROM quizzes WHERE id=$1`, quizID,
	).Scan(&revision, &imp.Source, &imp.Questions, &imp.ImportedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Import{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return Import{}, fmt.Errorf("load import: %w", err)
	}
	if imp.Revision, err = uuid.Parse(revision); err != nil {
		return Import{}, fmt.Errorf("parse revision: %w", err)
	}
	return imp, nil
}
