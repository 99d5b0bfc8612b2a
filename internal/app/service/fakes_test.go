package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"
	"aiblecode/internal/judge"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return common.ErrConflict
		}
	}
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memProblemRepo struct {
	mu         sync.Mutex
	categories map[string]*model.Category
	problems   map[string]*model.Problem
	testcases  map[string][]model.Testcase
}

func newMemProblemRepo() *memProblemRepo {
	return &memProblemRepo{
		categories: make(map[string]*model.Category),
		problems:   make(map[string]*model.Problem),
		testcases:  make(map[string][]model.Testcase),
	}
}

func (r *memProblemRepo) UpsertCategory(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.PathID == c.PathID {
			existing.Title = c.Title
			existing.Description = c.Description
			c.ID = existing.ID
			return nil
		}
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memProblemRepo) FindCategoryByPathID(_ context.Context, pathID string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.PathID == pathID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memProblemRepo) ListCategories(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PathID < out[j].PathID })
	return out, nil
}

func (r *memProblemRepo) UpsertProblem(_ context.Context, p *model.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.problems {
		if existing.PathID == p.PathID && existing.CategoryID == p.CategoryID {
			*existing = *p
			return nil
		}
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.problems[p.ID] = &cp
	return nil
}

func (r *memProblemRepo) FindProblemByID(_ context.Context, id string) (*model.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProblemRepo) FindProblemByPath(_ context.Context, categoryPathID, pathID string) (*model.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var category *model.Category
	for _, c := range r.categories {
		if c.PathID == categoryPathID {
			category = c
			break
		}
	}
	if category == nil {
		return nil, common.ErrNotFound
	}
	for _, p := range r.problems {
		if p.CategoryID == category.ID && p.PathID == pathID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memProblemRepo) ListProblemsWithStats(_ context.Context, categoryID string) ([]model.ProblemWithStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ProblemWithStats
	for _, p := range r.problems {
		if p.CategoryID == categoryID {
			out = append(out, model.ProblemWithStats{Problem: *p})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PathID < out[j].PathID })
	return out, nil
}

func (r *memProblemRepo) UpsertTestcase(_ context.Context, tc *model.Testcase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.testcases[tc.ProblemID]
	for i := range existing {
		if existing[i].Name == tc.Name {
			existing[i] = *tc
			return nil
		}
	}
	r.testcases[tc.ProblemID] = append(existing, *tc)
	return nil
}

func (r *memProblemRepo) ListTestcases(_ context.Context, problemID string) ([]model.Testcase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Testcase, len(r.testcases[problemID]))
	copy(out, r.testcases[problemID])
	return out, nil
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string]*model.Submission
	details     map[string][]model.SubmissionDetail
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{
		submissions: make(map[string]*model.Submission),
		details:     make(map[string][]model.SubmissionDetail),
	}
}

func (r *memSubmissionRepo) CreateSubmission(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.CreatedAt = time.Now()
	cp := *sub
	r.submissions[sub.ID] = &cp
	return nil
}

func (r *memSubmissionRepo) FindSubmissionByID(_ context.Context, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *memSubmissionRepo) ListSubmissionsForUserProblem(_ context.Context, userID, problemID string) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Submission
	for _, s := range r.submissions {
		if s.UserID == userID && s.ProblemID == problemID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memSubmissionRepo) AppendDetail(_ context.Context, d *model.SubmissionDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.details[d.SubmissionID] {
		if existing.TestcaseID == d.TestcaseID {
			return common.ErrConflict
		}
	}
	r.details[d.SubmissionID] = append(r.details[d.SubmissionID], *d)
	return nil
}

func (r *memSubmissionRepo) ListDetails(_ context.Context, submissionID string) ([]model.SubmissionDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.SubmissionDetail, len(r.details[submissionID]))
	copy(out, r.details[submissionID])
	return out, nil
}

type memReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*model.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[string]*model.Review)}
}

func (r *memReviewRepo) Create(_ context.Context, review *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[review.SubmissionID]; ok {
		return common.ErrConflict
	}
	review.CreatedAt = time.Now()
	cp := *review
	r.reviews[review.SubmissionID] = &cp
	return nil
}

func (r *memReviewRepo) FindBySubmissionID(_ context.Context, submissionID string) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[submissionID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *review
	return &cp, nil
}

// stubClient returns a fixed engine outcome for every run.
type stubClient struct {
	outcome judge.RawOutcome
	err     error
	calls   int
}

func (c *stubClient) Run(_ context.Context, _ judge.RunRequest) (*judge.RawOutcome, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	cp := c.outcome
	return &cp, nil
}

type countingGenerator struct {
	message string
	err     error
	calls   int
}

func (g *countingGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("%s #%d", g.message, g.calls), nil
}
