package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aiblecode/internal/common"
	"aiblecode/internal/domain/model"
)

type ProblemRepository interface {
	UpsertCategory(ctx context.Context, category *model.Category) error
	FindCategoryByPathID(ctx context.Context, pathID string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	UpsertProblem(ctx context.Context, problem *model.Problem) error
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	FindProblemByPath(ctx context.Context, categoryPathID, pathID string) (*model.Problem, error)
	ListProblemsWithStats(ctx context.Context, categoryID string) ([]model.ProblemWithStats, error)

	UpsertTestcase(ctx context.Context, testcase *model.Testcase) error
	ListTestcases(ctx context.Context, problemID string) ([]model.Testcase, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) UpsertCategory(ctx context.Context, c *model.Category) error {
	query := `INSERT INTO categories (id, path_id, title, description)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (path_id) DO UPDATE SET title = $3, description = $4
	          RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, c.ID, c.PathID, c.Title, c.Description).Scan(&c.ID); err != nil {
		return fmt.Errorf("pgProblemRepository.UpsertCategory: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindCategoryByPathID(ctx context.Context, pathID string) (*model.Category, error) {
	query := `SELECT id, path_id, title, description FROM categories WHERE path_id = $1`
	category := &model.Category{}
	err := r.db.QueryRowContext(ctx, query, pathID).Scan(
		&category.ID, &category.PathID, &category.Title, &category.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindCategoryByPathID: %w", err)
	}
	return category, nil
}

func (r *pgProblemRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	query := `SELECT id, path_id, title, description FROM categories ORDER BY path_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListCategories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.PathID, &c.Title, &c.Description); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListCategories scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListCategories rows.Err: %w", err)
	}
	return categories, nil
}

func (r *pgProblemRepository) UpsertProblem(ctx context.Context, p *model.Problem) error {
	query := `INSERT INTO problems (id, path_id, category_id, title, statement, level, time_limit, memory_limit)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (path_id) DO UPDATE SET
	              title = $4, statement = $5, level = $6, time_limit = $7,
	              memory_limit = $8, updated_at = CURRENT_TIMESTAMP
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.PathID, p.CategoryID, p.Title, p.Statement, p.Level, p.TimeLimitSec, p.MemoryLimitMB,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.UpsertProblem: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT id, path_id, category_id, title, statement, level, time_limit, memory_limit, created_at, updated_at
	          FROM problems WHERE id = $1`
	return r.scanProblem(r.db.QueryRowContext(ctx, query, id), "FindProblemByID")
}

func (r *pgProblemRepository) FindProblemByPath(ctx context.Context, categoryPathID, pathID string) (*model.Problem, error) {
	query := `SELECT p.id, p.path_id, p.category_id, p.title, p.statement, p.level, p.time_limit, p.memory_limit, p.created_at, p.updated_at
	          FROM problems p
	          JOIN categories c ON p.category_id = c.id
	          WHERE c.path_id = $1 AND p.path_id = $2`
	return r.scanProblem(r.db.QueryRowContext(ctx, query, categoryPathID, pathID), "FindProblemByPath")
}

func (r *pgProblemRepository) scanProblem(row *sql.Row, method string) (*model.Problem, error) {
	problem := &model.Problem{}
	err := row.Scan(
		&problem.ID, &problem.PathID, &problem.CategoryID, &problem.Title, &problem.Statement,
		&problem.Level, &problem.TimeLimitSec, &problem.MemoryLimitMB, &problem.CreatedAt, &problem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.%s: %w", method, err)
	}
	return problem, nil
}

// ListProblemsWithStats counts, per problem, the distinct users that have at
// least one submission whose AC detail count equals the problem's testcase
// count.
func (r *pgProblemRepository) ListProblemsWithStats(ctx context.Context, categoryID string) ([]model.ProblemWithStats, error) {
	query := `
        SELECT p.id, p.path_id, p.category_id, p.title, p.statement, p.level,
               p.time_limit, p.memory_limit, p.created_at, p.updated_at,
               COUNT(DISTINCT s.user_id) AS solved_user_count
        FROM problems p
        LEFT JOIN submissions s ON s.problem_id = p.id
            AND (SELECT COUNT(*) FROM testcases t WHERE t.problem_id = p.id) =
                (SELECT COUNT(*) FROM submission_details d
                 WHERE d.submission_id = s.id AND d.status = 'AC')
        WHERE p.category_id = $1
        GROUP BY p.id
        ORDER BY p.path_id`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListProblemsWithStats: %w", err)
	}
	defer rows.Close()

	var problems []model.ProblemWithStats
	for rows.Next() {
		var p model.ProblemWithStats
		if err := rows.Scan(
			&p.ID, &p.PathID, &p.CategoryID, &p.Title, &p.Statement, &p.Level,
			&p.TimeLimitSec, &p.MemoryLimitMB, &p.CreatedAt, &p.UpdatedAt, &p.SolvedUserCount,
		); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListProblemsWithStats scan: %w", err)
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListProblemsWithStats rows.Err: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) UpsertTestcase(ctx context.Context, tc *model.Testcase) error {
	query := `INSERT INTO testcases (id, problem_id, name, input, output)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (problem_id, name) DO UPDATE SET input = $4, output = $5
	          RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, tc.ID, tc.ProblemID, tc.Name, tc.Input, tc.Output).Scan(&tc.ID); err != nil {
		return fmt.Errorf("pgProblemRepository.UpsertTestcase: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) ListTestcases(ctx context.Context, problemID string) ([]model.Testcase, error) {
	query := `SELECT id, problem_id, name, input, output
	          FROM testcases WHERE problem_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListTestcases: %w", err)
	}
	defer rows.Close()

	var testcases []model.Testcase
	for rows.Next() {
		var tc model.Testcase
		if err := rows.Scan(&tc.ID, &tc.ProblemID, &tc.Name, &tc.Input, &tc.Output); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListTestcases scan: %w", err)
		}
		testcases = append(testcases, tc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListTestcases rows.Err: %w", err)
	}
	return testcases, nil
}
