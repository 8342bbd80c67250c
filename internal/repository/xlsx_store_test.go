package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

func newTestXLSXStore(t *testing.T) *XLSXStore {
	t.Helper()
	s := NewXLSXStore(filepath.Join(t.TempDir(), "dashboard.xlsx"))
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestXLSXStoreMissingFileIsEmpty(t *testing.T) {
	s := newTestXLSXStore(t)

	tasks, err := s.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestXLSXStoreTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestXLSXStore(t)
	assigned := civil.Date{Year: 2024, Month: time.June, Day: 10}
	done := civil.Date{Year: 2024, Month: time.June, Day: 12}

	created, err := s.Create(ctx, &entity.Task{
		Title:       "Landing page",
		AssignedTo:  "Faisal",
		Status:      entity.StatusCompleted,
		Client:      "Craft Delights",
		AssignedOn:  &assigned,
		CompletedOn: &done,
		Remarks:     "shipped",
		Priority:    entity.PriorityHigh,
	})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Landing page", got.Title)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	assert.Equal(t, assigned, *got.AssignedOn)
	assert.Equal(t, done, *got.CompletedOn)
	assert.Nil(t, got.Deadline)
	assert.Equal(t, entity.PriorityHigh, got.Priority)
	assert.True(t, fixedNow.Equal(got.CreatedAt))

	got.Status = entity.StatusInProgress
	got.CompletedOn = nil
	updated, err := s.Update(ctx, got)
	require.NoError(t, err)
	require.NotNil(t, updated)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.StatusInProgress, list[0].Status)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, created.ID), entity.ErrTaskNotFound)
}

func TestXLSXStoreNormalizesHandEditedRows(t *testing.T) {
	s := newTestXLSXStore(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", TasksSheet))
	header := toAny(taskHeaders)
	require.NoError(t, f.SetSheetRow(TasksSheet, "A1", &header))
	row := []any{"SEO audit", "", "in progres", "Inkup", "6/3/2024", "2024-06-20", "2024-06-05", "", "urgent"}
	require.NoError(t, f.SetSheetRow(TasksSheet, "A2", &row))
	require.NoError(t, f.SaveAs(s.path))
	require.NoError(t, f.Close())

	tasks, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, "task-row-2", task.ID)
	assert.Equal(t, "Unassigned", task.AssignedTo)
	assert.Equal(t, entity.StatusInProgress, task.Status)
	assert.Equal(t, entity.PriorityMedium, task.Priority)
	require.NotNil(t, task.AssignedOn)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.June, Day: 3}, *task.AssignedOn)
	assert.Nil(t, task.CompletedOn, "completion date is only kept for completed tasks")
}

func TestXLSXResourcesShareFileWithTasks(t *testing.T) {
	ctx := context.Background()
	s := newTestXLSXStore(t)
	resources := s.Resources()

	_, err := s.Create(ctx, &entity.Task{Title: "Task", AssignedTo: "Sidd", Status: entity.StatusPending})
	require.NoError(t, err)
	created, err := resources.Create(ctx, &entity.Resource{
		Title:    "SEO checklist",
		Category: "SEO",
		URL:      "https://example.com",
		Type:     entity.ResourceGuide,
		Status:   entity.ResourceActive,
		Tags:     []string{"SEO", "Guide"},
	})
	require.NoError(t, err)

	got, err := resources.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"SEO", "Guide"}, got.Tags)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	assert.ErrorIs(t, resources.Delete(ctx, "missing"), entity.ErrResourceNotFound)
}

func TestParseSheetDate(t *testing.T) {
	tests := []struct {
		in   string
		want *civil.Date
	}{
		{"2024-06-15", &civil.Date{Year: 2024, Month: time.June, Day: 15}},
		{"6/15/2024", &civil.Date{Year: 2024, Month: time.June, Day: 15}},
		{"15.06.2024", &civil.Date{Year: 2024, Month: time.June, Day: 15}},
		{"", nil},
		{"soon", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSheetDate(tt.in))
		})
	}
}
