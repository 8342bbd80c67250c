package repository

import (
	"context"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskAuditRepository struct {
	db *pgxpool.Pool
}

func NewTaskAuditRepository(db *pgxpool.Pool) *TaskAuditRepository {
	return &TaskAuditRepository{
		db: db,
	}
}

func (r *TaskAuditRepository) Create(ctx context.Context, audit *entity.AuditEntry) error {
	query := `
	INSERT INTO task_audit (action, entity_type, entity_id, old_values, new_values, changes, changed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		string(audit.Action),
		audit.EntityType,
		audit.EntityID,
		audit.OldValues,
		audit.NewValues,
		audit.Changes,
		audit.ChangedAt,
	)
	return err
}

// ListByEntity - история изменений сущности, от старых к новым
func (r *TaskAuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]entity.AuditEntry, error) {
	query := `
	SELECT id, action, entity_type, entity_id, old_values, new_values, changes, changed_at
	FROM task_audit
	WHERE entity_type = $1 AND entity_id = $2
	ORDER BY changed_at, id
	`

	rows, err := r.db.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.AuditEntry
	for rows.Next() {
		var (
			e      entity.AuditEntry
			action string
		)
		err := rows.Scan(
			&e.ID,
			&action,
			&e.EntityType,
			&e.EntityID,
			&e.OldValues,
			&e.NewValues,
			&e.Changes,
			&e.ChangedAt,
		)
		if err != nil {
			return nil, err
		}
		e.Action = entity.ActionType(action)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
