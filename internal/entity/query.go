package entity

import (
	"strings"

	"cloud.google.com/go/civil"
)

// FilterAll - значение фильтра "без ограничения"
const FilterAll = "all"

type DateRange string

const (
	RangeAll        DateRange = "all"
	RangeToday      DateRange = "today"
	RangeYesterday  DateRange = "yesterday"
	RangeThisWeek   DateRange = "this-week"
	RangeLastWeek   DateRange = "last-week"
	RangeThisMonth  DateRange = "this-month"
	RangeLastMonth  DateRange = "last-month"
	RangeLast7Days  DateRange = "last-7-days"
	RangeLast30Days DateRange = "last-30-days"
	RangeCustom     DateRange = "custom"
)

var dateRanges = map[DateRange]struct{}{
	RangeAll: {}, RangeToday: {}, RangeYesterday: {}, RangeThisWeek: {},
	RangeLastWeek: {}, RangeThisMonth: {}, RangeLastMonth: {},
	RangeLast7Days: {}, RangeLast30Days: {}, RangeCustom: {},
}

// ParseDateRange возвращает RangeAll для неизвестных значений
func ParseDateRange(s string) DateRange {
	r := DateRange(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := dateRanges[r]; ok {
		return r
	}
	return RangeAll
}

type FilterSpec struct {
	AssignedTo string      `json:"assignedTo"`
	Status     string      `json:"status"`
	Client     string      `json:"client"`
	Search     string      `json:"search"`
	DateRange  DateRange   `json:"dateRange"`
	DateFrom   *civil.Date `json:"dateFrom,omitempty"`
	DateTo     *civil.Date `json:"dateTo,omitempty"`
}

// DefaultFilter - все поля "all", поиск пустой
func DefaultFilter() FilterSpec {
	return FilterSpec{
		AssignedTo: FilterAll,
		Status:     FilterAll,
		Client:     FilterAll,
		DateRange:  RangeAll,
	}
}

type SortField string

const (
	SortByID          SortField = "id"
	SortByTitle       SortField = "title"
	SortByAssignedTo  SortField = "assignedTo"
	SortByStatus      SortField = "status"
	SortByClient      SortField = "client"
	SortByAssignedOn  SortField = "assignedOn"
	SortByDeadline    SortField = "deadline"
	SortByCompletedOn SortField = "completedOn"
	SortByRemarks     SortField = "remarks"
	SortByPriority    SortField = "priority"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortSpec struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort - как на дашборде: ближайшие дедлайны сверху
func DefaultSort() SortSpec {
	return SortSpec{Field: SortByDeadline, Direction: SortAsc}
}

type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"`
}

type TeamMemberStats struct {
	Name           string `json:"name"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	Active         int    `json:"active"`
	CompletionRate int    `json:"completionRate"`
	ActiveTasks    []Task `json:"activeTasks"`
}

type FilterOptions struct {
	TeamMembers []string     `json:"teamMembers"`
	Clients     []string     `json:"clients"`
	Statuses    []TaskStatus `json:"statuses"`
}
