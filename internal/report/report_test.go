package report

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quiz-reader/internal/domain"
	"quiz-reader/internal/quizfile"
)

func TestRunReportsEveryRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "english.txt")
	content := "What is the capital of France?\n*) Paris *) London\n   Paris\n\n" +
		"Which colour is the sky?\n*) Red *) Blue *) Green\n   Blue\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write quiz: %v", err)
	}

	reader := quizfile.NewReader(path)
	defer reader.Close()

	var out bytes.Buffer
	src := &recordingSource{src: reader}
	count, err := Run(&out, src, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records, got %d", count)
	}
	if src.seen[0].AnswerIndex != 0 || src.seen[1].AnswerIndex != 1 {
		t.Fatalf("unexpected answer indices %d, %d", src.seen[0].AnswerIndex, src.seen[1].AnswerIndex)
	}

	want := ` 1. Question: What is the capital of France?
     Options: (2)
         [0] = "Paris"
         [1] = "London"
The answer is array element 0, which is "Paris".


 2. Question: Which colour is the sky?
     Options: (3)
         [0] = "Red"
         [1] = "Blue"
         [2] = "Green"
The answer is array element 1, which is "Blue".


Read in 2 questions.
`
	if out.String() != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{
		records: []domain.QuestionRecord{{Number: 1, Question: "Q", Options: []string{"A"}}},
		err:     boom,
	}
	var out bytes.Buffer
	count, err := Run(&out, src, Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record before the error, got %d", count)
	}
	if strings.Contains(out.String(), "Read in") {
		t.Fatalf("total line must not be printed after an error")
	}
}

func TestRunVerboseDumpsCharacters(t *testing.T) {
	src := &sliceSource{
		records: []domain.QuestionRecord{{Number: 1, Question: "Q", Options: []string{"Ab"}}},
		err:     io.EOF,
	}
	var out bytes.Buffer
	if _, err := Run(&out, src, Options{Verbose: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "'A' 65\n'b' 98\n") {
		t.Fatalf("expected character dump, got:\n%s", out.String())
	}
}

func TestRunEmptySource(t *testing.T) {
	var out bytes.Buffer
	count, err := Run(&out, &sliceSource{err: io.EOF}, Options{})
	if err != nil || count != 0 {
		t.Fatalf("expected 0 records and no error, got %d, %v", count, err)
	}
	if out.String() != "Read in 0 questions.\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

type sliceSource struct {
	records []domain.QuestionRecord
	err     error
}

func (s *sliceSource) Next() (domain.QuestionRecord, error) {
	if len(s.records) == 0 {
		return domain.QuestionRecord{}, s.err
	}
	record := s.records[0]
	s.records = s.records[1:]
	return record, nil
}

// recordingSource keeps the records it hands out so tests can inspect indices.
type recordingSource struct {
	src  RecordSource
	seen []domain.QuestionRecord
}

func (s *recordingSource) Next() (domain.QuestionRecord, error) {
	record, err := s.src.Next()
	if err == nil {
		s.seen = append(s.seen, record)
	}
	return record, err
}
