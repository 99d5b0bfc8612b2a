package model

import "time"

// Review is an AI-generated code review for a judged submission. Submissions
// are immutable, so a review is generated once and served from storage on
// every later request.
type Review struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	Prompt       string    `json:"-"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}
