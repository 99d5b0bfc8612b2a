package model

import "time"

// Verdict is the per-testcase outcome classification. VerdictWJ is synthetic:
// it never appears on a stored detail row, only in status summaries for
// testcases that have no recorded detail yet.
type Verdict string

const (
	VerdictAC  Verdict = "AC"
	VerdictWA  Verdict = "WA"
	VerdictTLE Verdict = "TLE"
	VerdictMLE Verdict = "MLE"
	VerdictRE  Verdict = "RE"
	VerdictCE  Verdict = "CE"
	VerdictIE  Verdict = "IE"
	VerdictWJ  Verdict = "WJ"
)

// StatusSummary maps verdict kinds to counts. Only kinds with count > 0 are
// present; values sum to the problem's testcase count.
type StatusSummary map[Verdict]int

type Submission struct {
	ID        string    `json:"id"`
	ProblemID string    `json:"problem_id"`
	UserID    string    `json:"user_id"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionDetail is the recorded outcome of one testcase execution. At most
// one row exists per (submission, testcase) pair; rows are append-only.
type SubmissionDetail struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	TestcaseID   string    `json:"testcase_id"`
	Verdict      Verdict   `json:"status"`
	TimeSec      float64   `json:"time"`   // seconds
	MemoryKB     int       `json:"memory"` // kilobytes, as reported by the engine
	CreatedAt    time.Time `json:"created_at"`
}
