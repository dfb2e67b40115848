package domain

import "time"

// QuestionRecord is one parsed quiz question: the four-line block of a quiz file.
type QuestionRecord struct {
	Number      int      `json:"number"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
}

// OptionCount returns the number of parsed options.
func (r QuestionRecord) OptionCount() int {
	return len(r.Options)
}

// Answer returns the text of the correct option, or "" when AnswerIndex is out of range.
func (r QuestionRecord) Answer() string {
	if r.AnswerIndex < 0 || r.AnswerIndex >= len(r.Options) {
		return ""
	}
	return r.Options[r.AnswerIndex]
}

// Public strips the answer so the question can be sent to players.
func (r QuestionRecord) Public() PublicQuestion {
	options := make([]string, len(r.Options))
	copy(options, r.Options)
	return PublicQuestion{
		Number:   r.Number,
		Question: r.Question,
		Options:  options,
	}
}

// PublicQuestion is a QuestionRecord without its answer.
type PublicQuestion struct {
	Number   int      `json:"number"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Quiz is the ordered set of records read from one quiz file.
type Quiz struct {
	ID        string           `json:"id"`
	Source    string           `json:"source,omitempty"`
	Questions []QuestionRecord `json:"questions"`
}

// Question looks up a record by its 1-based number.
func (q Quiz) Question(number int) (QuestionRecord, bool) {
	for _, record := range q.Questions {
		if record.Number == number {
			return record, true
		}
	}
	return QuestionRecord{}, false
}

// Participant represents a quiz participant and their accumulated score.
type Participant struct {
	UserID      string
	DisplayName string
	Score       int
	Answered    map[int]bool
	LastUpdated time.Time
}

// LeaderboardEntry is a snapshot-friendly view of a participant.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Answered    int    `json:"answered"`
}

// Leaderboard captures the ordered scoreboard for a quiz session.
type Leaderboard struct {
	QuizID    string             `json:"quizId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// AnswerSubmission is a player's pick for one question.
type AnswerSubmission struct {
	QuestionNumber int
	OptionIndex    int
}

// AnswerResult summarizes the outcome of a submission for a single user.
type AnswerResult struct {
	QuestionNumber int  `json:"question"`
	Correct        bool `json:"correct"`
	AnswerIndex    int  `json:"answerIndex"`
	Awarded        int  `json:"awarded"`
	TotalScore     int  `json:"totalScore"`
}
