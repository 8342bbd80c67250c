package repository

import (
	"context"
	"errors"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resourceColumns = `id, title, category, description, url, type, status, tags, created_at, updated_at`

type ResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{
		db: db,
	}
}

func scanResource(row pgx.Row) (*entity.Resource, error) {
	var (
		res          entity.Resource
		rType, state string
	)

	err := row.Scan(
		&res.ID,
		&res.Title,
		&res.Category,
		&res.Description,
		&res.URL,
		&rType,
		&state,
		&res.Tags,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Type = entity.ResourceType(rType)
	res.Status = entity.ResourceStatus(state)
	return &res, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r *ResourceRepository) Create(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	id := resource.ID
	if id == "" {
		id = "resource-" + uuid.NewString()
	}

	query := `
	INSERT INTO resource (id, title, category, description, url, type, status, tags)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + resourceColumns

	return scanResource(r.db.QueryRow(ctx, query,
		id,
		resource.Title,
		resource.Category,
		resource.Description,
		resource.URL,
		string(resource.Type),
		string(resource.Status),
		tagsOrEmpty(resource.Tags),
	))
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*entity.Resource, error) {
	res, err := scanResource(r.db.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resource WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

func (r *ResourceRepository) Update(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	query := `
	UPDATE resource
	SET title = $1, category = $2, description = $3, url = $4, type = $5, status = $6, tags = $7,
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = $8
	RETURNING ` + resourceColumns

	res, err := scanResource(r.db.QueryRow(ctx, query,
		resource.Title,
		resource.Category,
		resource.Description,
		resource.URL,
		string(resource.Type),
		string(resource.Status),
		tagsOrEmpty(resource.Tags),
		resource.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM resource WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return entity.ErrResourceNotFound
	}
	return nil
}

func (r *ResourceRepository) List(ctx context.Context) ([]entity.Resource, error) {
	rows, err := r.db.Query(ctx, `SELECT `+resourceColumns+` FROM resource ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []entity.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}

	return resources, rows.Err()
}
