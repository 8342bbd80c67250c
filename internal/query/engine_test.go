package query

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

// 2024-06-15 - суббота
var testNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func date(s string) *civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func ids(tasks []entity.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func sampleTasks() []entity.Task {
	return []entity.Task{
		{ID: "1", Title: "Fix SEO bug", AssignedTo: "Alice", Status: entity.StatusPending, Client: "Inkup", AssignedOn: date("2024-06-15"), Deadline: date("2024-06-20")},
		{ID: "2", Title: "Landing page", AssignedTo: "Bob", Status: entity.StatusInProgress, Client: "Swingsaga", AssignedOn: date("2024-06-14"), Deadline: date("2024-06-10"), Remarks: "SEO audit"},
		{ID: "3", Title: "Ads report", AssignedTo: "Alice", Status: entity.StatusCompleted, Client: "Inkup", AssignedOn: date("2024-05-20"), Deadline: date("2024-05-25"), CompletedOn: date("2024-05-24")},
		{ID: "4", Title: "Newsletter", AssignedTo: "Carol", Status: entity.StatusOnHold, Client: "Mimamsaa"},
	}
}

func TestFilterAndSortAllFiltersReturnsEverythingSorted(t *testing.T) {
	tasks := sampleTasks()

	got := FilterAndSort(tasks, entity.DefaultFilter(), entity.SortSpec{Field: entity.SortByTitle, Direction: entity.SortAsc}, testNow)

	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(got))
}

func TestFilterAndSortDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)

	got := FilterAndSort(tasks, entity.DefaultFilter(), entity.SortSpec{Field: entity.SortByTitle, Direction: entity.SortDesc}, testNow)
	require.Len(t, got, len(tasks))

	assert.Equal(t, before, ids(tasks))
	got[0].Title = "changed"
	assert.NotEqual(t, "changed", tasks[0].Title)
}

func TestFilterAndSortResultDoesNotShareDates(t *testing.T) {
	tasks := []entity.Task{{ID: "task-1", AssignedOn: date("2024-06-01"), Deadline: date("2024-06-10"), CompletedOn: date("2024-06-05"), Status: entity.StatusCompleted}}

	got := FilterAndSort(tasks, entity.DefaultFilter(), entity.DefaultSort(), testNow)
	require.Len(t, got, 1)

	*got[0].Deadline = got[0].Deadline.AddDays(30)
	*got[0].AssignedOn = got[0].AssignedOn.AddDays(30)
	*got[0].CompletedOn = got[0].CompletedOn.AddDays(30)

	assert.Equal(t, *date("2024-06-10"), *tasks[0].Deadline)
	assert.Equal(t, *date("2024-06-01"), *tasks[0].AssignedOn)
	assert.Equal(t, *date("2024-06-05"), *tasks[0].CompletedOn)
}

func TestFilterAndSortEqualityFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter entity.FilterSpec
		want   []string
	}{
		{"assignee", entity.FilterSpec{AssignedTo: "Alice", Status: "all", Client: "all"}, []string{"1", "3"}},
		{"status", entity.FilterSpec{AssignedTo: "all", Status: "In progress", Client: "all"}, []string{"2"}},
		{"client", entity.FilterSpec{AssignedTo: "all", Status: "all", Client: "Inkup"}, []string{"1", "3"}},
		{"combined", entity.FilterSpec{AssignedTo: "Alice", Status: "Completed", Client: "Inkup"}, []string{"3"}},
		{"status is case sensitive", entity.FilterSpec{Status: "pending"}, []string{}},
		{"empty values mean all", entity.FilterSpec{}, []string{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndSort(sampleTasks(), tt.filter, entity.SortSpec{Field: entity.SortByID, Direction: entity.SortAsc}, testNow)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterAndSortSearch(t *testing.T) {
	sortByID := entity.SortSpec{Field: entity.SortByID, Direction: entity.SortAsc}

	f := entity.DefaultFilter()
	f.Search = "seo"
	got := FilterAndSort(sampleTasks(), f, sortByID, testNow)
	assert.Equal(t, []string{"1", "2"}, ids(got), "title and remarks match case-insensitively")

	f.Search = "MIMAMSAA"
	got = FilterAndSort(sampleTasks(), f, sortByID, testNow)
	assert.Equal(t, []string{"4"}, ids(got), "client matches")

	f.Search = "nothing like this"
	got = FilterAndSort(sampleTasks(), f, sortByID, testNow)
	assert.Empty(t, got)
}

func TestFilterAndSortSearchWithMissingFields(t *testing.T) {
	tasks := []entity.Task{{ID: "x"}}
	f := entity.DefaultFilter()
	f.Search = "abc"

	assert.NotPanics(t, func() {
		got := FilterAndSort(tasks, f, entity.DefaultSort(), testNow)
		assert.Empty(t, got)
	})
}

func TestFilterAndSortEmptyInput(t *testing.T) {
	got := FilterAndSort(nil, entity.DefaultFilter(), entity.DefaultSort(), testNow)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSortStability(t *testing.T) {
	tasks := []entity.Task{
		{ID: "a", Client: "Inkup"},
		{ID: "b", Client: "Banter"},
		{ID: "c", Client: "Inkup"},
		{ID: "d", Client: "Banter"},
		{ID: "e", Client: "Inkup"},
	}

	asc := FilterAndSort(tasks, entity.DefaultFilter(), entity.SortSpec{Field: entity.SortByClient, Direction: entity.SortAsc}, testNow)
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(asc))

	desc := FilterAndSort(tasks, entity.DefaultFilter(), entity.SortSpec{Field: entity.SortByClient, Direction: entity.SortDesc}, testNow)
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, ids(desc))
}

func TestSortIdempotent(t *testing.T) {
	spec := entity.SortSpec{Field: entity.SortByDeadline, Direction: entity.SortDesc}

	once := FilterAndSort(sampleTasks(), entity.DefaultFilter(), spec, testNow)
	twice := FilterAndSort(once, entity.DefaultFilter(), spec, testNow)

	assert.Equal(t, ids(once), ids(twice))
}

func TestSortByDateMissingValuesFirst(t *testing.T) {
	got := FilterAndSort(sampleTasks(), entity.DefaultFilter(), entity.SortSpec{Field: entity.SortByDeadline, Direction: entity.SortAsc}, testNow)
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(got))

	got = FilterAndSort(sampleTasks(), entity.DefaultFilter(), entity.SortSpec{Field: entity.SortByDeadline, Direction: entity.SortDesc}, testNow)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestSortByPriorityUsesRank(t *testing.T) {
	tasks := []entity.Task{
		{ID: "high", Priority: entity.PriorityHigh},
		{ID: "none"},
		{ID: "low", Priority: entity.PriorityLow},
		{ID: "medium", Priority: entity.PriorityMedium},
	}

	got := FilterAndSort(tasks, entity.DefaultFilter(), entity.SortSpec{Field: entity.SortByPriority, Direction: entity.SortAsc}, testNow)

	assert.Equal(t, []string{"low", "none", "medium", "high"}, ids(got))
}

func TestSortUnknownFieldKeepsInputOrder(t *testing.T) {
	got := FilterAndSort(sampleTasks(), entity.DefaultFilter(), entity.SortSpec{Field: "color", Direction: entity.SortDesc}, testNow)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}
