package query

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

func datedTasks(dates ...string) []entity.Task {
	tasks := make([]entity.Task, 0, len(dates))
	for _, d := range dates {
		t := entity.Task{ID: d}
		if d != "" {
			t.AssignedOn = date(d)
		}
		tasks = append(tasks, t)
	}
	return tasks
}

func rangeFilter(r entity.DateRange) entity.FilterSpec {
	f := entity.DefaultFilter()
	f.DateRange = r
	return f
}

var keepOrder = entity.SortSpec{}

func TestDateRangeBuckets(t *testing.T) {
	// testNow = суббота 2024-06-15, неделя 2024-06-09 .. 2024-06-15
	tasks := datedTasks(
		"2024-06-15", "2024-06-14", "2024-06-09", "2024-06-08", "2024-06-02",
		"2024-06-01", "2024-05-31", "2024-05-16", "2024-05-15", "2024-05-01",
		"2024-04-30", "2024-06-16", "",
	)

	tests := []struct {
		r    entity.DateRange
		want []string
	}{
		{entity.RangeToday, []string{"2024-06-15"}},
		{entity.RangeYesterday, []string{"2024-06-14"}},
		{entity.RangeThisWeek, []string{"2024-06-15", "2024-06-14", "2024-06-09"}},
		{entity.RangeLastWeek, []string{"2024-06-08", "2024-06-02"}},
		{entity.RangeThisMonth, []string{"2024-06-15", "2024-06-14", "2024-06-09", "2024-06-08", "2024-06-02", "2024-06-01", "2024-06-16"}},
		{entity.RangeLastMonth, []string{"2024-05-31", "2024-05-16", "2024-05-15", "2024-05-01"}},
		{entity.RangeLast7Days, []string{"2024-06-15", "2024-06-14", "2024-06-09", "2024-06-08"}},
		{entity.RangeLast30Days, []string{"2024-06-15", "2024-06-14", "2024-06-09", "2024-06-08", "2024-06-02", "2024-06-01", "2024-05-31", "2024-05-16"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			got := FilterAndSort(tasks, rangeFilter(tt.r), keepOrder, testNow)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestDateRangeTodayIgnoresTimeOfDay(t *testing.T) {
	tasks := datedTasks("2024-06-15", "2024-06-14")

	got := FilterAndSort(tasks, rangeFilter(entity.RangeToday), keepOrder, testNow)
	assert.Equal(t, []string{"2024-06-15"}, ids(got))

	late := time.Date(2024, time.June, 15, 23, 59, 59, 999_000_000, time.UTC)
	got = FilterAndSort(tasks, rangeFilter(entity.RangeToday), keepOrder, late)
	assert.Equal(t, []string{"2024-06-15"}, ids(got))
}

func TestDateRangeUsesCallerLocation(t *testing.T) {
	// 2024-06-15 02:00 в UTC+5:30 - это еще 14 июня по UTC
	loc := time.FixedZone("IST", 5*60*60+30*60)
	now := time.Date(2024, time.June, 15, 2, 0, 0, 0, loc)

	got := FilterAndSort(datedTasks("2024-06-15", "2024-06-14"), rangeFilter(entity.RangeToday), keepOrder, now)
	assert.Equal(t, []string{"2024-06-15"}, ids(got))
}

func TestDateRangeWeekStartsOnSunday(t *testing.T) {
	sunday := time.Date(2024, time.June, 9, 8, 0, 0, 0, time.UTC)
	tasks := datedTasks("2024-06-08", "2024-06-09", "2024-06-15", "2024-06-16")

	got := FilterAndSort(tasks, rangeFilter(entity.RangeThisWeek), keepOrder, sunday)
	assert.Equal(t, []string{"2024-06-09", "2024-06-15"}, ids(got))

	got = FilterAndSort(tasks, rangeFilter(entity.RangeLastWeek), keepOrder, sunday)
	assert.Equal(t, []string{"2024-06-08"}, ids(got))
}

func TestDateRangeLastMonthAcrossYear(t *testing.T) {
	january := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	tasks := datedTasks("2023-12-31", "2023-12-01", "2024-01-01", "2023-11-30", "2022-12-15")

	got := FilterAndSort(tasks, rangeFilter(entity.RangeLastMonth), keepOrder, january)
	assert.Equal(t, []string{"2023-12-31", "2023-12-01"}, ids(got))
}

func TestDateRangeLastMonthFromMonthEnd(t *testing.T) {
	// 31 марта минус месяц - февраль, а не 2 марта
	endOfMarch := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)
	tasks := datedTasks("2024-02-29", "2024-03-02")

	got := FilterAndSort(tasks, rangeFilter(entity.RangeLastMonth), keepOrder, endOfMarch)
	assert.Equal(t, []string{"2024-02-29"}, ids(got))
}

func TestDateRangeCustom(t *testing.T) {
	tasks := datedTasks("2024-05-31", "2024-06-01", "2024-06-30", "2024-07-01")
	f := rangeFilter(entity.RangeCustom)
	f.DateFrom = date("2024-06-01")
	f.DateTo = date("2024-06-30")

	got := FilterAndSort(tasks, f, keepOrder, testNow)
	assert.Equal(t, []string{"2024-06-01", "2024-06-30"}, ids(got))
}

func TestDateRangeCustomMissingBoundIsNoop(t *testing.T) {
	tasks := datedTasks("2024-05-31", "2024-07-01", "")

	for _, bounds := range [][2]*civil.Date{
		{nil, nil},
		{date("2024-06-01"), nil},
		{nil, date("2024-06-30")},
	} {
		f := rangeFilter(entity.RangeCustom)
		f.DateFrom, f.DateTo = bounds[0], bounds[1]

		got := FilterAndSort(tasks, f, keepOrder, testNow)
		assert.Len(t, got, len(tasks))
	}
}

func TestDateRangeUnknownValueIsNoop(t *testing.T) {
	tasks := datedTasks("2020-01-01", "")

	got := FilterAndSort(tasks, rangeFilter("next-decade"), keepOrder, testNow)
	assert.Len(t, got, 2)

	assert.Equal(t, entity.RangeAll, entity.ParseDateRange("next-decade"))
	assert.Equal(t, entity.RangeLast7Days, entity.ParseDateRange(" Last-7-Days "))
}

func TestDateRangeExcludesTasksWithoutAnchor(t *testing.T) {
	got := FilterAndSort(datedTasks("", "2024-06-15"), rangeFilter(entity.RangeThisMonth), keepOrder, testNow)
	assert.Equal(t, []string{"2024-06-15"}, ids(got))
}
