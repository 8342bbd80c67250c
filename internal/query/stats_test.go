package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

func TestComputeStatistics(t *testing.T) {
	tasks := []entity.Task{
		{ID: "1", Status: entity.StatusCompleted, Deadline: date("2024-06-01")},
		{ID: "2", Status: entity.StatusInProgress, Deadline: date("2024-06-14")},
		{ID: "3", Status: entity.StatusPending, Deadline: date("2024-06-15")},
		{ID: "4", Status: entity.StatusNotStarted},
		{ID: "5", Status: entity.StatusCancelled, Deadline: date("2024-01-01")},
		{ID: "6", Status: entity.StatusOnHold, Deadline: date("2024-07-01")},
	}

	stats := ComputeStatistics(tasks, testNow)

	assert.Equal(t, entity.Stats{
		Total:          6,
		Completed:      1,
		InProgress:     1,
		Pending:        2,
		Overdue:        2,
		CompletionRate: 17,
	}, stats)
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil, testNow)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.CompletionRate)
}

func TestOverdueDeadlineTodayIsNotOverdue(t *testing.T) {
	task := entity.Task{Status: entity.StatusPending, Deadline: date("2024-06-15")}
	assert.False(t, IsOverdue(&task, testNow))

	task.Deadline = date("2024-06-14")
	assert.True(t, IsOverdue(&task, testNow))

	task.Status = entity.StatusCompleted
	assert.False(t, IsOverdue(&task, testNow))

	task.Status = entity.StatusPending
	task.Deadline = nil
	assert.False(t, IsOverdue(&task, testNow))
}

func TestCompletionRateBounds(t *testing.T) {
	for total := 0; total <= 20; total++ {
		for completed := 0; completed <= total; completed++ {
			rate := CompletionRate(completed, total)
			require.GreaterOrEqual(t, rate, 0)
			require.LessOrEqual(t, rate, 100)
		}
	}
	assert.Equal(t, 0, CompletionRate(0, 0))
	assert.Equal(t, 50, CompletionRate(1, 2))
	assert.Equal(t, 67, CompletionRate(2, 3))
	assert.Equal(t, 100, CompletionRate(3, 3))
}

func TestComputeTeamBreakdown(t *testing.T) {
	var tasks []entity.Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, entity.Task{ID: fmt.Sprintf("a%d", i), AssignedTo: "Alice", Status: entity.StatusInProgress})
	}
	tasks = append(tasks,
		entity.Task{ID: "a-done", AssignedTo: "Alice", Status: entity.StatusCompleted},
		entity.Task{ID: "z", AssignedTo: "Zed", Status: entity.StatusCompleted},
	)

	got := ComputeTeamBreakdown(tasks, []string{"Alice", "Bob"})
	require.Len(t, got, 2)

	alice := got[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 6, alice.Total)
	assert.Equal(t, 1, alice.Completed)
	assert.Equal(t, 5, alice.Active)
	assert.Equal(t, 17, alice.CompletionRate)
	assert.Equal(t, []string{"a0", "a1", "a2"}, ids(alice.ActiveTasks))

	bob := got[1]
	assert.Equal(t, entity.TeamMemberStats{Name: "Bob", ActiveTasks: []entity.Task{}}, bob)
}

func TestComputeTeamBreakdownEmptyRoster(t *testing.T) {
	got := ComputeTeamBreakdown([]entity.Task{{AssignedTo: "Alice"}}, nil)
	assert.Empty(t, got)
}

func TestComputeTeamBreakdownDuplicateRosterName(t *testing.T) {
	tasks := []entity.Task{{ID: "1", AssignedTo: "Alice", Status: entity.StatusInProgress}}

	got := ComputeTeamBreakdown(tasks, []string{"Alice", "Alice"})

	require.Len(t, got, 2)
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, 1, got[1].Total)
}
