package repository

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, assigned_to, status, client, assigned_on, deadline, completed_on, remarks, priority, created_at, updated_at`

// TaskRepository - задачи в PostgreSQL
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func toPgDate(d *civil.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.In(time.UTC), Valid: true}
}

func fromPgDate(d pgtype.Date) *civil.Date {
	if !d.Valid {
		return nil
	}
	cd := civil.DateOf(d.Time)
	return &cd
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		task                              entity.Task
		status, priority                  string
		assignedOn, deadline, completedOn pgtype.Date
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.AssignedTo,
		&status,
		&task.Client,
		&assignedOn,
		&deadline,
		&completedOn,
		&task.Remarks,
		&priority,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = entity.TaskStatus(status)
	task.Priority = entity.Priority(priority)
	task.AssignedOn = fromPgDate(assignedOn)
	task.Deadline = fromPgDate(deadline)
	task.CompletedOn = fromPgDate(completedOn)

	return &task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	id := task.ID
	if id == "" {
		id = "task-" + uuid.NewString()
	}

	query := `
	INSERT INTO task (id, title, assigned_to, status, client, assigned_on, deadline, completed_on, remarks, priority)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + taskColumns

	return scanTask(r.db.QueryRow(ctx, query,
		id,
		task.Title,
		task.AssignedTo,
		string(task.Status),
		task.Client,
		toPgDate(task.AssignedOn),
		toPgDate(task.Deadline),
		toPgDate(task.CompletedOn),
		task.Remarks,
		string(task.Priority),
	))
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task WHERE id = $1`

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// Update - полная перезапись полей задачи
func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `
	UPDATE task
	SET title = $1, assigned_to = $2, status = $3, client = $4,
	    assigned_on = $5, deadline = $6, completed_on = $7, remarks = $8, priority = $9,
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = $10
	RETURNING ` + taskColumns

	updated, err := scanTask(r.db.QueryRow(ctx, query,
		task.Title,
		task.AssignedTo,
		string(task.Status),
		task.Client,
		toPgDate(task.AssignedOn),
		toPgDate(task.Deadline),
		toPgDate(task.CompletedOn),
		task.Remarks,
		string(task.Priority),
		task.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return updated, nil
}

// Delete - удаление задачи
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM task WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return entity.ErrTaskNotFound
	}
	return nil
}

// List - все задачи в порядке создания
func (r *TaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}
