package repository

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func TestMemoryTaskRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository(nil)
	repo.now = func() time.Time { return fixedNow }

	created, err := repo.Create(ctx, &entity.Task{Title: "Audit", AssignedTo: "Sidd", Status: entity.StatusPending})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixedNow, created.CreatedAt)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Audit", got.Title)

	got.Title = "Audit v2"
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Audit v2", updated.Title)
	assert.Equal(t, fixedNow, updated.CreatedAt)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), entity.ErrTaskNotFound)

	missing, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryTaskRepositoryUpdateMissing(t *testing.T) {
	repo := NewMemoryTaskRepository(nil)

	updated, err := repo.Update(context.Background(), &entity.Task{ID: "nope"})

	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestMemoryTaskRepositoryListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository(DemoTasks(civil.DateOf(fixedNow)))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	list[0].Title = "changed"

	again, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Title)

	deadline := *again[0].Deadline
	*list[0].Deadline = deadline.AddDays(100)
	got, err := repo.GetByID(ctx, again[0].ID)
	require.NoError(t, err)
	assert.Equal(t, deadline, *got.Deadline, "dates must not be shared with callers")
}

func TestMemoryResourceRepositoryTagsAreCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResourceRepository(nil)

	tags := []string{"SEO"}
	created, err := repo.Create(ctx, &entity.Resource{Title: "Checklist", Tags: tags})
	require.NoError(t, err)
	tags[0] = "mutated"

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"SEO"}, got.Tags)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), entity.ErrResourceNotFound)
}

func TestMemoryAuditRepositoryListByEntity(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAuditRepository()

	require.NoError(t, repo.Create(ctx, &entity.AuditEntry{Action: entity.ActionCreate, EntityType: entity.EntityTask, EntityID: "task-1"}))
	require.NoError(t, repo.Create(ctx, &entity.AuditEntry{Action: entity.ActionCreate, EntityType: entity.EntityTask, EntityID: "task-2"}))
	require.NoError(t, repo.Create(ctx, &entity.AuditEntry{Action: entity.ActionUpdate, EntityType: entity.EntityTask, EntityID: "task-1"}))

	entries, err := repo.ListByEntity(ctx, entity.EntityTask, "task-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, entity.ActionUpdate, entries[1].Action)
}

func TestDemoTasksUseRosterAndRelativeDates(t *testing.T) {
	today := civil.DateOf(fixedNow)

	tasks := DemoTasks(today)

	require.NotEmpty(t, tasks)
	assert.Equal(t, today, *tasks[0].AssignedOn)
	for _, task := range tasks {
		if task.CompletedOn != nil {
			assert.Equal(t, entity.StatusCompleted, task.Status, task.ID)
		}
	}
}
