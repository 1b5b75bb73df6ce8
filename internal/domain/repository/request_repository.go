package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"resource_hub/internal/common"
	"resource_hub/internal/domain/model"
)

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	FindByID(ctx context.Context, id string) (*model.Request, error)
	Update(ctx context.Context, req *model.Request) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]model.Request, int, error)
}

type pgRequestRepository struct {
	db *sql.DB
}

func NewPgRequestRepository(db *sql.DB) RequestRepository {
	return &pgRequestRepository{db: db}
}

const requestColumns = `id, user_name, resource_name, resource_type, request_date, status, created_at, updated_at`

func scanRequest(row interface{ Scan(...any) error }, req *model.Request) error {
	return row.Scan(&req.ID, &req.UserName, &req.ResourceName, &req.ResourceType,
		&req.RequestDate, &req.Status, &req.CreatedAt, &req.UpdatedAt)
}

func (r *pgRequestRepository) Create(ctx context.Context, req *model.Request) error {
	query := `INSERT INTO requests (id, user_name, resource_name, resource_type, request_date, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, req.ID, req.UserName, req.ResourceName, req.ResourceType, req.RequestDate, req.Status).
		Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgRequestRepository.Create: %w", err)
	}
	return nil
}

func (r *pgRequestRepository) FindByID(ctx context.Context, id string) (*model.Request, error) {
	req := &model.Request{}
	if err := scanRequest(r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id), req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("request %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgRequestRepository.FindByID: %w", err)
	}
	return req, nil
}

func (r *pgRequestRepository) Update(ctx context.Context, req *model.Request) error {
	query := `UPDATE requests SET
                user_name = $1, resource_name = $2, resource_type = $3, request_date = $4, status = $5,
                updated_at = CURRENT_TIMESTAMP
              WHERE id = $6
              RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, req.UserName, req.ResourceName, req.ResourceType, req.RequestDate, req.Status, req.ID).
		Scan(&req.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("request %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgRequestRepository.Update: %w", err)
	}
	return nil
}

func (r *pgRequestRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgRequestRepository.Delete: %w", err)
	}
	return expectAffected(res, "request")
}

func (r *pgRequestRepository) List(ctx context.Context, limit, offset int) ([]model.Request, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgRequestRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM requests ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgRequestRepository.List query: %w", err)
	}
	defer rows.Close()

	requests := []model.Request{}
	for rows.Next() {
		var req model.Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, 0, fmt.Errorf("pgRequestRepository.List scan: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgRequestRepository.List rows.Err: %w", err)
	}
	return requests, total, nil
}
