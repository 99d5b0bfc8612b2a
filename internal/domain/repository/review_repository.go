package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindBySubmissionID(ctx context.Context, submissionID string) (*model.Review, error)
}

type pgReviewRepository struct {
	db *sql.DB
}

func NewPgReviewRepository(db *sql.DB) ReviewRepository {
	return &pgReviewRepository{db: db}
}

func (r *pgReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `INSERT INTO reviews (id, submission_id, prompt, message)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, review.ID, review.SubmissionID, review.Prompt, review.Message).Scan(&review.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgReviewRepository.Create: %w", err)
	}
	return nil
}

func (r *pgReviewRepository) FindBySubmissionID(ctx context.Context, submissionID string) (*model.Review, error) {
	query := `SELECT id, submission_id, prompt, message, created_at
	          FROM reviews WHERE submission_id = $1`
	review := &model.Review{}
	err := r.db.QueryRowContext(ctx, query, submissionID).Scan(
		&review.ID, &review.SubmissionID, &review.Prompt, &review.Message, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgReviewRepository.FindBySubmissionID: %w", err)
	}
	return review, nil
}
