package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"
	"aiblecode/internal/domain/repository"
	"aiblecode/internal/judge"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SubmissionService accepts submissions, enqueues them for asynchronous
// judging, and serves status reads built from whatever detail rows the
// judging run has persisted so far.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	userRepo       repository.UserRepository
	orchestrator   *judge.Orchestrator
	rdb            *redis.Client
	queueName      string
	logger         *slog.Logger
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	problemRepo repository.ProblemRepository,
	userRepo repository.UserRepository,
	orchestrator *judge.Orchestrator,
	rdb *redis.Client,
	queueName string,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		problemRepo:    problemRepo,
		userRepo:       userRepo,
		orchestrator:   orchestrator,
		rdb:            rdb,
		queueName:      queueName,
		logger:         logger,
	}
}

type SubmitRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type SubmitResponse struct {
	SubmissionID string `json:"id"`
}

// Submit validates the target problem and language, persists the submission
// and pushes its id onto the judge queue. The caller gets the id back
// immediately; verdicts arrive as the worker pool drains the queue.
func (s *SubmissionService) Submit(ctx context.Context, userID, categoryPathID, problemPathID string, req SubmitRequest) (*SubmitResponse, error) {
	if !judge.SupportedLanguage(req.Language) {
		return nil, fmt.Errorf("unsupported language %q: %w", req.Language, common.ErrValidation)
	}

	problem, err := s.problemRepo.FindProblemByPath(ctx, categoryPathID, problemPathID)
	if err != nil {
		return nil, fmt.Errorf("problem %s/%s: %w", categoryPathID, problemPathID, err)
	}

	sub := &model.Submission{
		ID:        uuid.NewString(),
		ProblemID: problem.ID,
		UserID:    userID,
		Language:  req.Language,
		Code:      req.Code,
	}
	if err := s.submissionRepo.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.rdb.LPush(ctx, s.queueName, sub.ID).Err(); err != nil {
		return nil, fmt.Errorf("failed to enqueue submission %s: %w", sub.ID, err)
	}

	s.logger.Info("submission enqueued", "submission_id", sub.ID, "problem_id", problem.ID, "language", sub.Language)
	return &SubmitResponse{SubmissionID: sub.ID}, nil
}

type SubmissionSummary struct {
	ID        string              `json:"id"`
	Username  string              `json:"username"`
	Language  string              `json:"language"`
	Statuses  model.StatusSummary `json:"statuses"`
	Overall   judge.OverallStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// GetSummary reports the live status of one submission. Testcases not yet
// judged count as WJ, so the summary values always add up to the problem's
// testcase count.
func (s *SubmissionService) GetSummary(ctx context.Context, submissionID string) (*SubmissionSummary, error) {
	sub, err := s.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	testcases, err := s.problemRepo.ListTestcases(ctx, sub.ProblemID)
	if err != nil {
		return nil, err
	}
	details, err := s.submissionRepo.ListDetails(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return s.buildSummary(ctx, sub, testcases, details)
}

// ListSummaries returns the caller's submissions for one problem, newest
// first, each with its live status summary.
func (s *SubmissionService) ListSummaries(ctx context.Context, userID, categoryPathID, problemPathID string) ([]SubmissionSummary, error) {
	problem, err := s.problemRepo.FindProblemByPath(ctx, categoryPathID, problemPathID)
	if err != nil {
		return nil, fmt.Errorf("problem %s/%s: %w", categoryPathID, problemPathID, err)
	}
	testcases, err := s.problemRepo.ListTestcases(ctx, problem.ID)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissionRepo.ListSubmissionsForUserProblem(ctx, userID, problem.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SubmissionSummary, 0, len(subs))
	for i := range subs {
		details, err := s.submissionRepo.ListDetails(ctx, subs[i].ID)
		if err != nil {
			return nil, err
		}
		summary, err := s.buildSummary(ctx, &subs[i], testcases, details)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *SubmissionService) buildSummary(ctx context.Context, sub *model.Submission, testcases []model.Testcase, details []model.SubmissionDetail) (*SubmissionSummary, error) {
	user, err := s.userRepo.FindByID(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}
	statuses := judge.Summarize(testcases, details)
	return &SubmissionSummary{
		ID:        sub.ID,
		Username:  user.Username,
		Language:  sub.Language,
		Statuses:  statuses,
		Overall:   judge.Overall(statuses),
		CreatedAt: sub.CreatedAt,
	}, nil
}

type TestcaseResult struct {
	Name     string        `json:"name"`
	Verdict  model.Verdict `json:"status"`
	TimeSec  float64       `json:"time"`
	MemoryKB int           `json:"memory"`
}

type SubmissionView struct {
	ID        string              `json:"id"`
	Username  string              `json:"username"`
	Language  string              `json:"language"`
	Code      string              `json:"code"`
	Statuses  model.StatusSummary `json:"statuses"`
	Overall   judge.OverallStatus `json:"status"`
	Results   []TestcaseResult    `json:"results"`
	CreatedAt time.Time           `json:"created_at"`
}

// GetDetail returns the submission with its per-testcase results, resolved
// to testcase names and sorted in judging order.
func (s *SubmissionService) GetDetail(ctx context.Context, submissionID string) (*SubmissionView, error) {
	sub, err := s.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}
	testcases, err := s.problemRepo.ListTestcases(ctx, sub.ProblemID)
	if err != nil {
		return nil, err
	}
	details, err := s.submissionRepo.ListDetails(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	nameByID := make(map[string]string, len(testcases))
	for _, tc := range testcases {
		nameByID[tc.ID] = tc.Name
	}

	results := make([]TestcaseResult, 0, len(details))
	for _, d := range details {
		results = append(results, TestcaseResult{
			Name:     nameByID[d.TestcaseID],
			Verdict:  d.Verdict,
			TimeSec:  d.TimeSec,
			MemoryKB: d.MemoryKB,
		})
	}
	slices.SortFunc(results, func(a, b TestcaseResult) int {
		return strings.Compare(a.Name, b.Name)
	})

	statuses := judge.Summarize(testcases, details)
	return &SubmissionView{
		ID:        sub.ID,
		Username:  user.Username,
		Language:  sub.Language,
		Code:      sub.Code,
		Statuses:  statuses,
		Overall:   judge.Overall(statuses),
		Results:   results,
		CreatedAt: sub.CreatedAt,
	}, nil
}

type RunCodeRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Input    string `json:"input"`
}

type RunCodeResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// RunAdhoc executes code against user-supplied input without touching any
// problem, synchronously and with fixed limits.
func (s *SubmissionService) RunAdhoc(ctx context.Context, req RunCodeRequest) (*RunCodeResponse, error) {
	if !judge.SupportedLanguage(req.Language) {
		return nil, fmt.Errorf("unsupported language %q: %w", req.Language, common.ErrValidation)
	}
	stdout, stderr, err := s.orchestrator.RunAdhoc(ctx, req.Language, req.Code, req.Input)
	if err != nil {
		return nil, err
	}
	return &RunCodeResponse{Stdout: stdout, Stderr: stderr}, nil
}
