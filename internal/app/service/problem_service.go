package service

import (
	"context"
	"fmt"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"
	"aiblecode/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo}
}

type UpsertCategoryRequest struct {
	PathID      string `json:"path_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *ProblemService) UpsertCategory(ctx context.Context, req UpsertCategoryRequest) (*model.Category, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("category title is required: %w", common.ErrValidation)
	}
	pathID := req.PathID
	if pathID == "" {
		pathID = slug.Make(req.Title)
	}

	category := &model.Category{
		ID:          uuid.NewString(),
		PathID:      pathID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.problemRepo.UpsertCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *ProblemService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.problemRepo.ListCategories(ctx)
}

type UpsertProblemRequest struct {
	CategoryPathID string  `json:"category_path_id"`
	PathID         string  `json:"path_id"`
	Title          string  `json:"title"`
	Statement      string  `json:"statement"`
	Level          int     `json:"level"`
	TimeLimitSec   float64 `json:"time_limit"`
	MemoryLimitMB  int     `json:"memory_limit"`
}

func (s *ProblemService) UpsertProblem(ctx context.Context, req UpsertProblemRequest) (*model.Problem, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("problem title is required: %w", common.ErrValidation)
	}

	category, err := s.problemRepo.FindCategoryByPathID(ctx, req.CategoryPathID)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", req.CategoryPathID, err)
	}

	pathID := req.PathID
	if pathID == "" {
		pathID = slug.Make(req.Title)
	}
	if req.Level <= 0 {
		req.Level = 1
	}
	if req.TimeLimitSec <= 0 {
		req.TimeLimitSec = 2.0
	}
	if req.MemoryLimitMB <= 0 {
		req.MemoryLimitMB = 256
	}

	problem := &model.Problem{
		ID:            uuid.NewString(),
		PathID:        pathID,
		CategoryID:    category.ID,
		Title:         req.Title,
		Statement:     req.Statement,
		Level:         req.Level,
		TimeLimitSec:  req.TimeLimitSec,
		MemoryLimitMB: req.MemoryLimitMB,
	}
	if err := s.problemRepo.UpsertProblem(ctx, problem); err != nil {
		return nil, err
	}
	return problem, nil
}

type UpsertTestcaseRequest struct {
	CategoryPathID string `json:"category_path_id"`
	ProblemPathID  string `json:"problem_path_id"`
	Name           string `json:"name"`
	Input          string `json:"input"`
	Output         string `json:"output"`
}

func (s *ProblemService) UpsertTestcase(ctx context.Context, req UpsertTestcaseRequest) (*model.Testcase, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("testcase name is required: %w", common.ErrValidation)
	}

	problem, err := s.problemRepo.FindProblemByPath(ctx, req.CategoryPathID, req.ProblemPathID)
	if err != nil {
		return nil, fmt.Errorf("problem %s/%s: %w", req.CategoryPathID, req.ProblemPathID, err)
	}

	testcase := &model.Testcase{
		ID:        uuid.NewString(),
		ProblemID: problem.ID,
		Name:      req.Name,
		Input:     req.Input,
		Output:    req.Output,
	}
	if err := s.problemRepo.UpsertTestcase(ctx, testcase); err != nil {
		return nil, err
	}
	return testcase, nil
}

func (s *ProblemService) ListProblems(ctx context.Context, categoryPathID string) ([]model.ProblemWithStats, error) {
	category, err := s.problemRepo.FindCategoryByPathID(ctx, categoryPathID)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", categoryPathID, err)
	}
	return s.problemRepo.ListProblemsWithStats(ctx, category.ID)
}

func (s *ProblemService) GetProblem(ctx context.Context, categoryPathID, pathID string) (*model.Problem, error) {
	return s.problemRepo.FindProblemByPath(ctx, categoryPathID, pathID)
}
