package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"assignboard/internal/entity"
)

type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, title, description string) (entity.Assignment, error) {
	a := entity.Assignment{
		Title:       title,
		Description: description,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO assignments (title, description)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, title, description).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return entity.Assignment{}, fmt.Errorf("insert assignment: %w", err)
	}

	return a, nil
}

// List returns every assignment in insertion order.
func (r *AssignmentRepository) List(ctx context.Context) ([]entity.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, created_at
		FROM assignments
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]entity.Assignment, 0)
	for rows.Next() {
		var a entity.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}

	return assignments, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (entity.Assignment, error) {
	var a entity.Assignment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at
		FROM assignments
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Assignment{}, ErrNotFound
	}
	if err != nil {
		return entity.Assignment{}, fmt.Errorf("select assignment %d: %w", id, err)
	}

	return a, nil
}

// Update overwrites title and description; created_at is left alone.
func (r *AssignmentRepository) Update(ctx context.Context, id int64, title, description string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE assignments
		SET title = $1, description = $2
		WHERE id = $3
	`, title, description, id)
	if err != nil {
		return fmt.Errorf("update assignment %d: %w", id, err)
	}

	return expectOneRow(res)
}

func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment %d: %w", id, err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
