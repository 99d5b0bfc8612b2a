package model

import "time"

type Category struct {
	ID          string `json:"id"`
	PathID      string `json:"path_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Problem struct {
	ID            string    `json:"id"`
	PathID        string    `json:"path_id"`
	CategoryID    string    `json:"category_id"`
	Title         string    `json:"title"`
	Statement     string    `json:"statement"`
	Level         int       `json:"level"`
	TimeLimitSec  float64   `json:"time_limit"`   // seconds
	MemoryLimitMB int       `json:"memory_limit"` // megabytes
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProblemWithStats decorates a problem with the number of distinct users who
// fully solved it (every testcase AC on some submission).
type ProblemWithStats struct {
	Problem
	SolvedUserCount int `json:"solved_user_count"`
}

// Testcase belongs to a problem. Name doubles as the display key and as the
// ordering key during judging.
type Testcase struct {
	ID        string `json:"id"`
	ProblemID string `json:"problem_id"`
	Name      string `json:"name"`
	Input     string `json:"input"`
	Output    string `json:"output"`
}
