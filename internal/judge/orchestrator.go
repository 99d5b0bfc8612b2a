package judge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"aiblecode/internal/domain/model"

	"github.com/google/uuid"
)

// ErrNoTestcases marks a problem that cannot be judged because it has no
// testcases. Fatal for the judging run, never retried.
var ErrNoTestcases = errors.New("problem has no test cases")

// ProblemStore is the read-only problem side of the judging run.
type ProblemStore interface {
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	ListTestcases(ctx context.Context, problemID string) ([]model.Testcase, error)
}

// DetailStore persists per-testcase outcomes. Each write must be immediately
// visible to readers so a polling client observes partial progress.
type DetailStore interface {
	AppendDetail(ctx context.Context, detail *model.SubmissionDetail) error
}

// Orchestrator judges submissions one testcase at a time against the external
// execution engine. One orchestration run owns all detail writes for its
// submission, so there is no write contention per submission.
type Orchestrator struct {
	client   ExecutionClient
	problems ProblemStore
	details  DetailStore
	logger   *slog.Logger
}

func NewOrchestrator(client ExecutionClient, problems ProblemStore, details DetailStore, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{client: client, problems: problems, details: details, logger: logger}
}

// Judge runs every testcase of the submission's problem and records one
// detail row per testcase. A failing engine call marks only that testcase IE
// and judging continues; a missing problem or an empty testcase set aborts
// the whole run.
func (o *Orchestrator) Judge(ctx context.Context, sub *model.Submission) error {
	problem, err := o.problems.FindProblemByID(ctx, sub.ProblemID)
	if err != nil {
		return fmt.Errorf("judge submission %s: problem %s: %w", sub.ID, sub.ProblemID, err)
	}

	testcases, err := o.problems.ListTestcases(ctx, problem.ID)
	if err != nil {
		return fmt.Errorf("judge submission %s: list testcases: %w", sub.ID, err)
	}
	if len(testcases) == 0 {
		return fmt.Errorf("judge submission %s: problem %s: %w", sub.ID, problem.ID, ErrNoTestcases)
	}

	// Stable judging order regardless of how the store returns rows.
	slices.SortFunc(testcases, func(a, b model.Testcase) int {
		return strings.Compare(a.Name, b.Name)
	})

	// Blank submissions never reach the engine.
	if strings.TrimSpace(sub.Code) == "" {
		for _, tc := range testcases {
			o.record(ctx, sub.ID, tc.ID, model.VerdictWA, 0, 0)
		}
		return nil
	}

	for _, tc := range testcases {
		outcome, err := o.client.Run(ctx, RunRequest{
			Language:       sub.Language,
			Code:           sub.Code,
			Stdin:          tc.Input,
			ExpectedOutput: tc.Output,
			TimeLimitSec:   problem.TimeLimitSec,
			MemoryLimitMB:  problem.MemoryLimitMB,
		})
		if err != nil {
			o.logger.Error("testcase execution failed",
				"submission_id", sub.ID, "testcase", tc.Name, "err", err)
			o.record(ctx, sub.ID, tc.ID, model.VerdictIE, 0, 0)
			continue
		}
		o.record(ctx, sub.ID, tc.ID, Classify(outcome.StatusDescription), outcome.TimeSec, outcome.MemoryKB)
	}
	return nil
}

func (o *Orchestrator) record(ctx context.Context, submissionID, testcaseID string, verdict model.Verdict, timeSec float64, memoryKB int) {
	detail := &model.SubmissionDetail{
		ID:           uuid.NewString(),
		SubmissionID: submissionID,
		TestcaseID:   testcaseID,
		Verdict:      verdict,
		TimeSec:      timeSec,
		MemoryKB:     memoryKB,
		CreatedAt:    time.Now(),
	}
	if err := o.details.AppendDetail(ctx, detail); err != nil {
		o.logger.Error("failed to persist submission detail",
			"submission_id", submissionID, "testcase_id", testcaseID, "err", err)
	}
}
