package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"
	"aiblecode/internal/domain/repository"

	"github.com/google/uuid"
)

// ReviewGenerator produces a code review text from the prompts built for a
// submission. The concrete generator talks to an external model service.
type ReviewGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ReviewService serves AI reviews with a cache-aside strategy: the first
// request for a submission generates and stores the review, every later
// request returns the stored one. Submissions are immutable, so a stored
// review never goes stale.
type ReviewService struct {
	reviewRepo     repository.ReviewRepository
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	generator      ReviewGenerator
	logger         *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	submissionRepo repository.SubmissionRepository,
	problemRepo repository.ProblemRepository,
	generator ReviewGenerator,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		submissionRepo: submissionRepo,
		problemRepo:    problemRepo,
		generator:      generator,
		logger:         logger,
	}
}

func (s *ReviewService) ReviewSubmission(ctx context.Context, submissionID string) (*model.Review, error) {
	review, err := s.reviewRepo.FindBySubmissionID(ctx, submissionID)
	if err == nil {
		return review, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if s.generator == nil {
		return nil, fmt.Errorf("review generation is not configured: %w", common.ErrServiceUnavailable)
	}

	sub, err := s.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	problem, err := s.problemRepo.FindProblemByID(ctx, sub.ProblemID)
	if err != nil {
		return nil, err
	}

	systemPrompt := fmt.Sprintf(
		"You are reviewing code submitted as an answer to the problem below. "+
			"Act as an instructor and review the code. "+
			"Do not comment on handling of inputs outside the problem's constraints.\n\n"+
			"Problem:\n```\n# %s\n%s\n```\n",
		problem.Title, problem.Statement,
	)
	userPrompt := fmt.Sprintf(
		"Please review the following code.\n\nLanguage: %s\nCode:\n```\n%s\n```\n",
		sub.Language, sub.Code,
	)

	message, err := s.generator.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate review for submission %s: %w", submissionID, err)
	}

	review = &model.Review{
		ID:           uuid.NewString(),
		SubmissionID: submissionID,
		Prompt:       userPrompt,
		Message:      message,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// Lost the store race or the write failed; the generated text is
		// still a valid answer for this request.
		if stored, findErr := s.reviewRepo.FindBySubmissionID(ctx, submissionID); findErr == nil {
			return stored, nil
		}
		s.logger.Error("failed to store review", "submission_id", submissionID, "err", err)
	}
	return review, nil
}
