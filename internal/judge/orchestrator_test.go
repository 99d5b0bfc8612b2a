package judge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProblemStore struct {
	problem   *model.Problem
	testcases []model.Testcase
}

func (s *fakeProblemStore) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	if s.problem == nil || s.problem.ID != id {
		return nil, common.ErrNotFound
	}
	return s.problem, nil
}

func (s *fakeProblemStore) ListTestcases(ctx context.Context, problemID string) ([]model.Testcase, error) {
	return s.testcases, nil
}

type fakeDetailStore struct {
	details []model.SubmissionDetail
}

func (s *fakeDetailStore) AppendDetail(ctx context.Context, d *model.SubmissionDetail) error {
	s.details = append(s.details, *d)
	return nil
}

// fakeClient answers each run from a per-testcase script keyed by stdin.
type fakeClient struct {
	calls    int
	outcomes map[string]*RawOutcome
	errs     map[string]error
}

func (c *fakeClient) Run(ctx context.Context, req RunRequest) (*RawOutcome, error) {
	c.calls++
	if err, ok := c.errs[req.Stdin]; ok {
		return nil, err
	}
	if out, ok := c.outcomes[req.Stdin]; ok {
		return out, nil
	}
	return &RawOutcome{StatusDescription: "Accepted", TimeSec: 0.01, MemoryKB: 1024}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func judgingFixture(code string, tcs ...model.Testcase) (*model.Submission, *fakeProblemStore) {
	problem := &model.Problem{ID: "p1", TimeLimitSec: 2.0, MemoryLimitMB: 256}
	sub := &model.Submission{ID: "s1", ProblemID: "p1", Language: "Python", Code: code}
	return sub, &fakeProblemStore{problem: problem, testcases: tcs}
}

func TestJudgeRecordsOneDetailPerTestcase(t *testing.T) {
	sub, problems := judgingFixture("print(1)",
		model.Testcase{ID: "tc-b", ProblemID: "p1", Name: "02", Input: "b"},
		model.Testcase{ID: "tc-a", ProblemID: "p1", Name: "01", Input: "a"},
	)
	details := &fakeDetailStore{}
	client := &fakeClient{}

	o := NewOrchestrator(client, problems, details, discardLogger())
	require.NoError(t, o.Judge(context.Background(), sub))

	require.Len(t, details.details, 2)
	// Judged in name order regardless of store order.
	assert.Equal(t, "tc-a", details.details[0].TestcaseID)
	assert.Equal(t, "tc-b", details.details[1].TestcaseID)
	assert.Equal(t, 2, client.calls)
	for _, d := range details.details {
		assert.Equal(t, model.VerdictAC, d.Verdict)
		assert.Equal(t, "s1", d.SubmissionID)
	}
}

func TestJudgeBlankCodeSkipsEngine(t *testing.T) {
	sub, problems := judgingFixture("  \n\t",
		model.Testcase{ID: "tc-a", ProblemID: "p1", Name: "01"},
		model.Testcase{ID: "tc-b", ProblemID: "p1", Name: "02"},
	)
	details := &fakeDetailStore{}
	client := &fakeClient{}

	o := NewOrchestrator(client, problems, details, discardLogger())
	require.NoError(t, o.Judge(context.Background(), sub))

	assert.Zero(t, client.calls)
	require.Len(t, details.details, 2)
	for _, d := range details.details {
		assert.Equal(t, model.VerdictWA, d.Verdict)
		assert.Zero(t, d.TimeSec)
		assert.Zero(t, d.MemoryKB)
	}

	summary := Summarize(problems.testcases, details.details)
	assert.Equal(t, StatusWrongAnswer, Overall(summary))
}

func TestJudgeIsolatesFailingTestcase(t *testing.T) {
	// Scenario: first testcase passes, the engine throws a transport fault on
	// the second; the run must continue and the submission ends internal_error.
	sub, problems := judgingFixture("print(input())",
		model.Testcase{ID: "tc-a", ProblemID: "p1", Name: "01", Input: "ok"},
		model.Testcase{ID: "tc-b", ProblemID: "p1", Name: "02", Input: "boom"},
	)
	details := &fakeDetailStore{}
	client := &fakeClient{
		outcomes: map[string]*RawOutcome{"ok": {StatusDescription: "Accepted", TimeSec: 0.02, MemoryKB: 900}},
		errs:     map[string]error{"boom": errors.New("connection refused")},
	}

	o := NewOrchestrator(client, problems, details, discardLogger())
	require.NoError(t, o.Judge(context.Background(), sub))

	require.Len(t, details.details, 2)
	assert.Equal(t, model.VerdictAC, details.details[0].Verdict)
	assert.Equal(t, model.VerdictIE, details.details[1].Verdict)
	assert.Zero(t, details.details[1].TimeSec)

	summary := Summarize(problems.testcases, details.details)
	assert.Equal(t, model.StatusSummary{model.VerdictAC: 1, model.VerdictIE: 1}, summary)
	assert.Equal(t, StatusInternalError, Overall(summary))
}

func TestJudgeNoTestcasesIsFatal(t *testing.T) {
	sub, problems := judgingFixture("print(1)")
	details := &fakeDetailStore{}

	o := NewOrchestrator(&fakeClient{}, problems, details, discardLogger())
	err := o.Judge(context.Background(), sub)

	assert.ErrorIs(t, err, ErrNoTestcases)
	assert.Empty(t, details.details)
}

func TestJudgeMissingProblemIsFatal(t *testing.T) {
	sub := &model.Submission{ID: "s1", ProblemID: "gone", Language: "Python", Code: "print(1)"}
	details := &fakeDetailStore{}

	o := NewOrchestrator(&fakeClient{}, &fakeProblemStore{}, details, discardLogger())
	err := o.Judge(context.Background(), sub)

	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, details.details)
}

func TestJudgeClassifiesEngineOutcomes(t *testing.T) {
	sub, problems := judgingFixture("while True: pass",
		model.Testcase{ID: "tc-a", ProblemID: "p1", Name: "01", Input: "x"},
	)
	details := &fakeDetailStore{}
	client := &fakeClient{outcomes: map[string]*RawOutcome{
		"x": {StatusDescription: "Time Limit Exceeded", TimeSec: 2.0, MemoryKB: 3000},
	}}

	o := NewOrchestrator(client, problems, details, discardLogger())
	require.NoError(t, o.Judge(context.Background(), sub))

	require.Len(t, details.details, 1)
	assert.Equal(t, model.VerdictTLE, details.details[0].Verdict)
	assert.Equal(t, 2.0, details.details[0].TimeSec)

	summary := Summarize(problems.testcases, details.details)
	assert.Equal(t, StatusTimeLimitExceeded, Overall(summary))
}

func TestRunAdhoc(t *testing.T) {
	problems := &fakeProblemStore{}
	logger := discardLogger()

	t.Run("empty code short-circuits", func(t *testing.T) {
		client := &fakeClient{}
		o := NewOrchestrator(client, problems, &fakeDetailStore{}, logger)
		stdout, stderr, err := o.RunAdhoc(context.Background(), "Python", "", "in")
		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.Empty(t, stderr)
		assert.Zero(t, client.calls)
	})

	t.Run("passes output through", func(t *testing.T) {
		client := &fakeClient{outcomes: map[string]*RawOutcome{
			"in": {StatusDescription: "Accepted", Stdout: "hello\n", Stderr: "warn\n"},
		}}
		o := NewOrchestrator(client, problems, &fakeDetailStore{}, logger)
		stdout, stderr, err := o.RunAdhoc(context.Background(), "Python", "print('hello')", "in")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", stdout)
		assert.Equal(t, "warn\n", stderr)
	})

	t.Run("synthesizes tle stderr", func(t *testing.T) {
		client := &fakeClient{outcomes: map[string]*RawOutcome{
			"in": {StatusDescription: "Time Limit Exceeded", Stdout: "partial"},
		}}
		o := NewOrchestrator(client, problems, &fakeDetailStore{}, logger)
		stdout, stderr, err := o.RunAdhoc(context.Background(), "Python", "while True: pass", "in")
		require.NoError(t, err)
		assert.Equal(t, "partial", stdout)
		assert.Equal(t, "[Error] Time Limit Exceeded (over 5 sec)\n", stderr)
	})

	t.Run("engine fault becomes internal error", func(t *testing.T) {
		client := &fakeClient{errs: map[string]error{"in": errors.New("engine down")}}
		o := NewOrchestrator(client, problems, &fakeDetailStore{}, logger)
		stdout, stderr, err := o.RunAdhoc(context.Background(), "Python", "print(1)", "in")
		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.Equal(t, "[Error] Internal Error", stderr)
	})
}
