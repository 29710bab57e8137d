package model

import "time"

// QuestionType enumerates question kinds.
type QuestionType string

const (
	// QuestionTypeSingle is a single-choice question.
	QuestionTypeSingle QuestionType = "SINGLE"
	// QuestionTypeMultiple is a multiple-choice question.
	QuestionTypeMultiple QuestionType = "MULTIPLE"
)

// Option is a selectable answer. IDs are unique within their question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a generated quiz question. CorrectOptionIDs is a non-empty
// subset of the ids in Options.
type Question struct {
	ID               string       `json:"id"`
	Text             string       `json:"text"`
	Type             QuestionType `json:"type"`
	Options          []Option     `json:"options"`
	CorrectOptionIDs []string     `json:"correctOptionIds"`
	Explanation      string       `json:"explanation,omitempty"`
}

// Quiz is an ordered set of questions generated from a source document.
// Quizzes are immutable once created; there are no edit or delete operations.
type Quiz struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	SourceFileName string     `json:"sourceFileName"`
	CreatedAt      time.Time  `json:"createdAt"`
	Questions      []Question `json:"questions"`
}
