package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"resource_hub/internal/common"
	"resource_hub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgtype"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, id string) (*model.Resource, error)
	Update(ctx context.Context, resource *model.Resource) error
	Delete(ctx context.Context, id string) error
	// List returns one page of resources plus the count of all resources
	// matching filter.Tags.
	List(ctx context.Context, filter model.ResourceFilter) ([]model.Resource, int, error)
}

type pgResourceRepository struct {
	db      *sql.DB
	typeMap *pgtype.Map
}

func NewPgResourceRepository(db *sql.DB) ResourceRepository {
	return &pgResourceRepository{db: db, typeMap: pgtype.NewMap()}
}

const resourceColumns = `id, name, slug, link, category, type, tags, created_at, updated_at`

func (r *pgResourceRepository) scan(row interface{ Scan(...any) error }, res *model.Resource) error {
	return row.Scan(&res.ID, &res.Name, &res.Slug, &res.Link, &res.Category, &res.Type,
		r.typeMap.SQLScanner(&res.Tags), &res.CreatedAt, &res.UpdatedAt)
}

func (r *pgResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	if res.Tags == nil {
		res.Tags = []string{}
	}
	query := `INSERT INTO resources (id, name, slug, link, category, type, tags)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, res.ID, res.Name, res.Slug, res.Link, res.Category, res.Type, res.Tags).
		Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgResourceRepository.Create: %w", err)
	}
	return nil
}

func (r *pgResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	res := &model.Resource{}
	err := r.scan(r.db.QueryRowContext(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id), res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resource %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgResourceRepository.FindByID: %w", err)
	}
	return res, nil
}

func (r *pgResourceRepository) Update(ctx context.Context, res *model.Resource) error {
	if res.Tags == nil {
		res.Tags = []string{}
	}
	query := `UPDATE resources SET
                name = $1, slug = $2, link = $3, category = $4, type = $5, tags = $6,
                updated_at = CURRENT_TIMESTAMP
              WHERE id = $7
              RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, res.Name, res.Slug, res.Link, res.Category, res.Type, res.Tags, res.ID).
		Scan(&res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("resource %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgResourceRepository.Update: %w", err)
	}
	return nil
}

func (r *pgResourceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgResourceRepository.Delete: %w", err)
	}
	return expectAffected(res, "resource")
}

func (r *pgResourceRepository) List(ctx context.Context, filter model.ResourceFilter) ([]model.Resource, int, error) {
	where := ""
	var args []interface{}
	if len(filter.Tags) > 0 {
		// && is array overlap, i.e. any-of; backed by the GIN index on tags.
		where = " WHERE tags && $1"
		args = append(args, filter.Tags)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgResourceRepository.List count: %w", err)
	}

	argID := len(args) + 1
	query := fmt.Sprintf(`SELECT %s FROM resources%s ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d`,
		resourceColumns, where, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgResourceRepository.List query: %w", err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	for rows.Next() {
		var res model.Resource
		if err := r.scan(rows, &res); err != nil {
			return nil, 0, fmt.Errorf("pgResourceRepository.List scan: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgResourceRepository.List rows.Err: %w", err)
	}
	return resources, total, nil
}
