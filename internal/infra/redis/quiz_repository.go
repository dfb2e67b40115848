package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-reader/internal/domain"
)

// QuizLoader fetches a parsed quiz from its source (quiz files, Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository caches parsed quizzes in Redis and falls back to a loader on cache miss.
// Records are stored as: HSET quiz:{quizID}:records {number} {record JSON}
// The source file as:    SET  quiz:{quizID}:source  {path}
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.fromCache(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.fromCache(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		// A failed cache fill only costs a reload later.
		_ = r.Store(ctx, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Store writes quiz into the cache, replacing any previous version.
func (r *QuizRepository) Store(ctx context.Context, quiz domain.Quiz) error {
	recordsKey := r.recordsKey(quiz.ID)
	sourceKey := r.sourceKey(quiz.ID)

	fields := make([]interface{}, 0, 2*len(quiz.Questions))
	for _, record := range quiz.Questions {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal question %d: %w", record.Number, err)
		}
		fields = append(fields, strconv.Itoa(record.Number), data)
	}

	ttl := r.ttlWithJitter()
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, recordsKey, sourceKey)
	if len(fields) > 0 {
		pipe.HSet(ctx, recordsKey, fields...)
	}
	pipe.Set(ctx, sourceKey, quiz.Source, ttl)
	if ttl > 0 {
		pipe.Expire(ctx, recordsKey, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// Invalidate removes quizID from the cache.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, r.recordsKey(quizID), r.sourceKey(quizID)).Err()
}

func (r *QuizRepository) fromCache(ctx context.Context, quizID string) (domain.Quiz, bool) {
	source, err := r.client.Get(ctx, r.sourceKey(quizID)).Result()
	if err != nil {
		return domain.Quiz{}, false
	}
	fields, err := r.client.HGetAll(ctx, r.recordsKey(quizID)).Result()
	if err != nil {
		return domain.Quiz{}, false
	}
	quiz, err := buildQuizFromCache(quizID, source, fields)
	if err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) recordsKey(quizID string) string {
	return "quiz:" + quizID + ":records"
}

func (r *QuizRepository) sourceKey(quizID string) string {
	return "quiz:" + quizID + ":source"
}

func buildQuizFromCache(quizID, source string, fields map[string]string) (domain.Quiz, error) {
	questions := make([]domain.QuestionRecord, 0, len(fields))
	for number, raw := range fields {
		var record domain.QuestionRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return domain.Quiz{}, fmt.Errorf("decode question %s: %w", number, err)
		}
		questions = append(questions, record)
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].Number < questions[j].Number
	})
	return domain.Quiz{ID: quizID, Source: source, Questions: questions}, nil
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
