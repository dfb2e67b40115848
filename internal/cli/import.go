package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quiz-reader/internal/config"
	"quiz-reader/internal/infra/postgres"
	redisstore "quiz-reader/internal/infra/redis"
	"quiz-reader/internal/quizfile"
)

// NewImportCmd parses a quiz file and stores it in Postgres.
func NewImportCmd(flags *globalFlags) *cobra.Command {
	var quizID string
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Parse a quiz file and store it in Postgres",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Input.File = args[0]
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), cfg, quizID)
		},
	}
	cmd.Flags().StringVar(&quizID, "id", "", "quiz id (default: file name without extension)")
	return cmd
}

func runImport(ctx context.Context, out io.Writer, cfg config.Config, quizID string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if quizID == "" {
		quizID = quizIDFromPath(cfg.Input.File)
	}

	// Parse first: a format error leaves the stored quiz untouched.
	quiz, err := quizfile.ReadQuiz(cfg.Input.File, quizID, quizfile.WithLimits(cfg.Limits()))
	if err != nil {
		return err
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewQuizStore(pool)
	imported, err := store.SaveQuiz(ctx, quiz)
	if err != nil {
		return err
	}

	if client := newRedisClient(cfg); client != nil {
		defer client.Close()
		repo := redisstore.NewQuizRepository(client, store, config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute))
		if err := repo.Store(ctx, quiz); err != nil {
			log.Printf("warm quiz cache for %s: %v", quiz.ID, err)
		}
	}

	fmt.Fprintf(out, "Imported %d questions into quiz %q (revision %s).\n", imported.Questions, imported.QuizID, imported.Revision)
	return nil
}

// quizIDFromPath maps "quizzes/english.txt" to "english".
func quizIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
