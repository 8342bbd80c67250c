package repository

import (
	"context"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

// ITaskRepository - хранилище задач. Get возвращает (nil, nil), если задачи нет.
// List возвращает полный снимок в порядке хранения; фильтрацией и
// сортировкой занимается query.
type ITaskRepository interface {
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) (*entity.Task, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entity.Task, error)
}

// IResourceRepository - хранилище полезных материалов команды
type IResourceRepository interface {
	Create(ctx context.Context, resource *entity.Resource) (*entity.Resource, error)
	GetByID(ctx context.Context, id string) (*entity.Resource, error)
	Update(ctx context.Context, resource *entity.Resource) (*entity.Resource, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entity.Resource, error)
}

// ITaskAuditRepository - журнал изменений
type ITaskAuditRepository interface {
	Create(ctx context.Context, audit *entity.AuditEntry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]entity.AuditEntry, error)
}
