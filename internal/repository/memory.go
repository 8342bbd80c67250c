package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/google/uuid"
)

// MemoryTaskRepository - in-memory хранилище (демо-режим и тесты).
// Наружу всегда отдаются копии, внутренний срез не утекает.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks []entity.Task
	now   func() time.Time
}

func NewMemoryTaskRepository(seed []entity.Task) *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: cloneTasks(seed),
		now:   time.Now,
	}
}

func cloneTasks(tasks []entity.Task) []entity.Task {
	out := make([]entity.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func (r *MemoryTaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := task.Clone()
	if created.ID == "" {
		created.ID = "task-" + uuid.NewString()
	}
	created.CreatedAt = r.now()
	created.UpdatedAt = created.CreatedAt
	r.tasks = append(r.tasks, created)

	out := created.Clone()
	return &out, nil
}

func (r *MemoryTaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ID == id {
			out := t.Clone()
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == task.ID {
			updated := task.Clone()
			updated.CreatedAt = r.tasks[i].CreatedAt
			updated.UpdatedAt = r.now()
			r.tasks[i] = updated
			out := updated.Clone()
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.tasks)
	r.tasks = slices.DeleteFunc(r.tasks, func(t entity.Task) bool { return t.ID == id })
	if len(r.tasks) == before {
		return entity.ErrTaskNotFound
	}
	return nil
}

func (r *MemoryTaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneTasks(r.tasks), nil
}

// MemoryResourceRepository - in-memory хранилище материалов
type MemoryResourceRepository struct {
	mu        sync.RWMutex
	resources []entity.Resource
	now       func() time.Time
}

func NewMemoryResourceRepository(seed []entity.Resource) *MemoryResourceRepository {
	return &MemoryResourceRepository{
		resources: slices.Clone(seed),
		now:       time.Now,
	}
}

func (r *MemoryResourceRepository) Create(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *resource
	if created.ID == "" {
		created.ID = "resource-" + uuid.NewString()
	}
	created.Tags = slices.Clone(resource.Tags)
	created.CreatedAt = r.now()
	created.UpdatedAt = created.CreatedAt
	r.resources = append(r.resources, created)

	return &created, nil
}

func (r *MemoryResourceRepository) GetByID(ctx context.Context, id string) (*entity.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.resources {
		if res.ID == id {
			res.Tags = slices.Clone(res.Tags)
			return &res, nil
		}
	}
	return nil, nil
}

func (r *MemoryResourceRepository) Update(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.resources {
		if r.resources[i].ID == resource.ID {
			updated := *resource
			updated.Tags = slices.Clone(resource.Tags)
			updated.CreatedAt = r.resources[i].CreatedAt
			updated.UpdatedAt = r.now()
			r.resources[i] = updated
			return &updated, nil
		}
	}
	return nil, nil
}

func (r *MemoryResourceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.resources)
	r.resources = slices.DeleteFunc(r.resources, func(res entity.Resource) bool { return res.ID == id })
	if len(r.resources) == before {
		return entity.ErrResourceNotFound
	}
	return nil
}

func (r *MemoryResourceRepository) List(ctx context.Context) ([]entity.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Resource, len(r.resources))
	for i, res := range r.resources {
		res.Tags = slices.Clone(res.Tags)
		out[i] = res
	}
	return out, nil
}

// MemoryAuditRepository - журнал аудита без БД
type MemoryAuditRepository struct {
	mu      sync.Mutex
	entries []entity.AuditEntry
}

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Create(ctx context.Context, audit *entity.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := *audit
	entry.ID = len(r.entries) + 1
	r.entries = append(r.entries, entry)
	return nil
}

func (r *MemoryAuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]entity.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.AuditEntry
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
