package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"quiz-reader/internal/domain"
)

// DefaultCacheSize bounds the number of parsed quizzes kept in process.
const DefaultCacheSize = 128

// QuizLoader fetches a parsed quiz from its source (quiz files, Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository keeps recently used quizzes in a bounded LRU with a TTL,
// so quiz files are not re-parsed on every answer.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	cache *lru.Cache[string, cachedQuiz]
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

// NewQuizRepository caches up to size quizzes from loader; size <= 0 uses DefaultCacheSize.
func NewQuizRepository(loader QuizLoader, ttl time.Duration, size int) (*QuizRepository, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedQuiz](size)
	if err != nil {
		return nil, err
	}
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  cache,
	}, nil
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		if quiz, ok := r.cached(quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		r.cache.Add(quizID, cachedQuiz{
			quiz:      quiz,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		})
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Forget drops quizID from the cache so the next GetQuiz reloads it.
func (r *QuizRepository) Forget(quizID string) {
	r.cache.Remove(quizID)
}

func (r *QuizRepository) cached(quizID string) (domain.Quiz, bool) {
	entry, ok := r.cache.Get(quizID)
	if !ok {
		return domain.Quiz{}, false
	}
	if !entry.expiresAt.After(r.clock()) {
		r.cache.Remove(quizID)
		return domain.Quiz{}, false
	}
	return entry.quiz, true
}

// StaticQuizLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuizLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
