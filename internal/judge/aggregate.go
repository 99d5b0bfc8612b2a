package judge

import "aiblecode/internal/domain/model"

// OverallStatus is the aggregate submission state derived from per-testcase
// verdicts. StatusJudging is the only non-terminal state; every other state
// is final because submissions and testcases are immutable.
type OverallStatus string

const (
	StatusJudging             OverallStatus = "judging"
	StatusAccepted            OverallStatus = "accepted"
	StatusCompileError        OverallStatus = "compile_error"
	StatusRuntimeError        OverallStatus = "runtime_error"
	StatusWrongAnswer         OverallStatus = "wrong_answer"
	StatusTimeLimitExceeded   OverallStatus = "time_limit_exceeded"
	StatusMemoryLimitExceeded OverallStatus = "memory_limit_exceeded"
	StatusInternalError       OverallStatus = "internal_error"
)

// Summarize folds the recorded detail rows into a verdict count map over the
// problem's full testcase set. Testcases with no detail row yet count as WJ.
// The returned map is sparse; its values sum to len(testcases).
func Summarize(testcases []model.Testcase, details []model.SubmissionDetail) model.StatusSummary {
	recorded := make(map[string]model.Verdict, len(details))
	for _, d := range details {
		recorded[d.TestcaseID] = d.Verdict
	}

	summary := make(model.StatusSummary)
	for _, tc := range testcases {
		if v, ok := recorded[tc.ID]; ok {
			summary[v]++
		} else {
			summary[model.VerdictWJ]++
		}
	}
	return summary
}

// Overall decides the aggregate status with a fixed precedence. A pending
// testcase always wins, since later results could still fail the submission.
// Among completed results a compile error invalidates everything else, then
// the runtime classes follow in severity order. IE is checked explicitly so
// an internal error is never masked by the fallback.
func Overall(summary model.StatusSummary) OverallStatus {
	total := 0
	for _, n := range summary {
		total += n
	}

	switch {
	case summary[model.VerdictWJ] > 0:
		return StatusJudging
	case summary[model.VerdictAC] == total:
		return StatusAccepted
	case summary[model.VerdictCE] > 0:
		return StatusCompileError
	case summary[model.VerdictRE] > 0:
		return StatusRuntimeError
	case summary[model.VerdictWA] > 0:
		return StatusWrongAnswer
	case summary[model.VerdictTLE] > 0:
		return StatusTimeLimitExceeded
	case summary[model.VerdictMLE] > 0:
		return StatusMemoryLimitExceeded
	case summary[model.VerdictIE] > 0:
		return StatusInternalError
	default:
		return StatusInternalError
	}
}
