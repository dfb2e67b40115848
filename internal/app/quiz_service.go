package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-reader/internal/domain"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(quizID string) *Session
	Get(quizID string) (*Session, bool)
	DeleteIfEmpty(quizID string)
}

// QuizRepository loads parsed quizzes (from cache, quiz files or Postgres).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizService plays parsed quiz files with any number of participants.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
}

func NewQuizService(store SessionRepository, quizzes QuizRepository) *QuizService {
	return &QuizService{sessions: store, quizzes: quizzes}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSession(id, now)
}

// Join registers or refreshes a participant in a quiz session.
func (s *QuizService) Join(ctx context.Context, quizID, userID, displayName string) (domain.Leaderboard, error) {
	// Users cannot join quizzes that fail to load.
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return domain.Leaderboard{}, err
	}

	session := s.sessions.GetOrCreate(quizID)
	return session.join(userID, displayName), nil
}

// Questions returns the quiz without its answers.
func (s *QuizService) Questions(ctx context.Context, quizID string) ([]domain.PublicQuestion, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions := make([]domain.PublicQuestion, 0, len(quiz.Questions))
	for _, record := range quiz.Questions {
		questions = append(questions, record.Public())
	}
	return questions, nil
}

// SubmitAnswer scores a participant's pick and updates the leaderboard.
func (s *QuizService) SubmitAnswer(ctx context.Context, quizID, userID string, submission domain.AnswerSubmission) (domain.AnswerResult, domain.Leaderboard, error) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return domain.AnswerResult{}, domain.Leaderboard{}, domain.ErrSessionNotFound
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.AnswerResult{}, domain.Leaderboard{}, err
	}

	record, err := checkSubmission(quiz, submission)
	if err != nil {
		return domain.AnswerResult{}, domain.Leaderboard{}, err
	}

	correct := submission.OptionIndex == record.AnswerIndex
	lb, total, err := session.applyAnswer(userID, record.Number, correct)
	if err != nil {
		return domain.AnswerResult{}, domain.Leaderboard{}, err
	}

	result := domain.AnswerResult{
		QuestionNumber: record.Number,
		Correct:        correct,
		AnswerIndex:    record.AnswerIndex,
		TotalScore:     total,
	}
	if correct {
		result.Awarded = 1
	}
	return result, lb, nil
}

// Subscribe returns a channel that receives leaderboard updates for a quiz.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, quizID string) (<-chan domain.Leaderboard, func(), error) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave removes a participant from the session and drops the session if empty.
func (s *QuizService) Leave(_ context.Context, quizID, userID string) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return
	}
	session.leave(userID)
	if session.IsEmpty() {
		s.sessions.DeleteIfEmpty(quizID)
	}
}

// Session holds the participants playing one quiz.
type Session struct {
	id           string
	now          func() time.Time
	mu           sync.RWMutex
	participants map[string]*domain.Participant
	subscribers  map[chan domain.Leaderboard]struct{}
}

func newSession(id string, now func() time.Time) *Session {
	return &Session{
		id:           id,
		now:          now,
		participants: make(map[string]*domain.Participant),
		subscribers:  make(map[chan domain.Leaderboard]struct{}),
	}
}

func (s *Session) join(userID, displayName string) domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if participant, ok := s.participants[userID]; ok {
		participant.DisplayName = displayName
		participant.LastUpdated = now
	} else {
		s.participants[userID] = &domain.Participant{
			UserID:      userID,
			DisplayName: displayName,
			Answered:    make(map[int]bool),
			LastUpdated: now,
		}
	}
	return s.broadcastLocked()
}

// applyAnswer records that userID answered question number; each question
// counts once per participant.
func (s *Session) applyAnswer(userID string, number int, correct bool) (domain.Leaderboard, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, ok := s.participants[userID]
	if !ok {
		return domain.Leaderboard{}, 0, domain.ErrParticipantNotFound
	}
	if participant.Answered[number] {
		return domain.Leaderboard{}, participant.Score, domain.ErrAlreadyAnswered
	}

	participant.Answered[number] = true
	if correct {
		participant.Score++
	}
	participant.LastUpdated = s.now()

	return s.broadcastLocked(), participant.Score, nil
}

func (s *Session) leave(userID string) domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.participants, userID)
	return s.broadcastLocked()
}

// IsEmpty reports whether the session has no participants.
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants) == 0
}

func (s *Session) subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.Leaderboard {
	lb := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Slow subscriber: replace its oldest pending snapshot.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return lb
}

func (s *Session) snapshotLocked() domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(s.participants))
	for _, participant := range s.participants {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      participant.UserID,
			DisplayName: participant.DisplayName,
			Score:       participant.Score,
			Answered:    len(participant.Answered),
		})
	}

	// Score desc, then whoever reached it first, then name.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		pi := s.participants[entries[i].UserID]
		pj := s.participants[entries[j].UserID]
		if !pi.LastUpdated.Equal(pj.LastUpdated) {
			return pi.LastUpdated.Before(pj.LastUpdated)
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})

	return domain.Leaderboard{
		QuizID:    s.id,
		Entries:   entries,
		UpdatedAt: s.now(),
	}
}

// checkSubmission finds the answered record and validates the picked option.
func checkSubmission(quiz domain.Quiz, submission domain.AnswerSubmission) (domain.QuestionRecord, error) {
	record, ok := quiz.Question(submission.QuestionNumber)
	if !ok {
		return domain.QuestionRecord{}, domain.ErrQuestionNotFound
	}
	if submission.OptionIndex < 0 || submission.OptionIndex >= record.OptionCount() {
		return domain.QuestionRecord{}, domain.ErrOptionNotFound
	}
	return record, nil
}
