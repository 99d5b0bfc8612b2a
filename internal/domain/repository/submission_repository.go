package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, sub *model.Submission) error
	FindSubmissionByID(ctx context.Context, id string) (*model.Submission, error)
	ListSubmissionsForUserProblem(ctx context.Context, userID, problemID string) ([]model.Submission, error)

	// AppendDetail writes one per-testcase outcome. Writes are append-only
	// and individually atomic so a concurrent poller sees partial progress.
	AppendDetail(ctx context.Context, detail *model.SubmissionDetail) error
	ListDetails(ctx context.Context, submissionID string) ([]model.SubmissionDetail, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	query := `INSERT INTO submissions (id, problem_id, user_id, language, code)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, sub.ID, sub.ProblemID, sub.UserID, sub.Language, sub.Code).Scan(&sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT id, problem_id, user_id, language, code, created_at
	          FROM submissions WHERE id = $1`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.ProblemID, &sub.UserID, &sub.Language, &sub.Code, &sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindSubmissionByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) ListSubmissionsForUserProblem(ctx context.Context, userID, problemID string) ([]model.Submission, error) {
	query := `SELECT id, problem_id, user_id, language, code, created_at
	          FROM submissions
	          WHERE user_id = $1 AND problem_id = $2
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListSubmissionsForUserProblem: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.ProblemID, &s.UserID, &s.Language, &s.Code, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListSubmissionsForUserProblem scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListSubmissionsForUserProblem rows.Err: %w", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) AppendDetail(ctx context.Context, d *model.SubmissionDetail) error {
	query := `INSERT INTO submission_details (id, submission_id, testcase_id, status, time, memory)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, d.ID, d.SubmissionID, d.TestcaseID, d.Verdict, d.TimeSec, d.MemoryKB).Scan(&d.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // (submission_id, testcase_id) unique
			return fmt.Errorf("detail already recorded for testcase %s: %w", d.TestcaseID, common.ErrConflict)
		}
		return fmt.Errorf("pgSubmissionRepository.AppendDetail: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListDetails(ctx context.Context, submissionID string) ([]model.SubmissionDetail, error) {
	query := `SELECT id, submission_id, testcase_id, status, time, memory, created_at
	          FROM submission_details WHERE submission_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListDetails: %w", err)
	}
	defer rows.Close()

	var details []model.SubmissionDetail
	for rows.Next() {
		var d model.SubmissionDetail
		if err := rows.Scan(&d.ID, &d.SubmissionID, &d.TestcaseID, &d.Verdict, &d.TimeSec, &d.MemoryKB, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListDetails scan: %w", err)
		}
		details = append(details, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListDetails rows.Err: %w", err)
	}
	return details, nil
}
