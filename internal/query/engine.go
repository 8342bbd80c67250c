// Package query - фильтрация, сортировка и статистика задач дашборда.
//
// Все функции чистые: не делают I/O, не меняют входные данные и не читают
// системные часы (текущий момент передается явно), поэтому безопасны для
// одновременного вызова из нескольких горутин.
package query

import (
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

// FilterAndSort применяет фильтры по порядку (равенство, поиск, диапазон дат)
// и стабильно сортирует оставшиеся задачи. Входной срез не изменяется,
// результат не разделяет с ним даты.
func FilterAndSort(tasks []entity.Task, f entity.FilterSpec, s entity.SortSpec, now time.Time) []entity.Task {
	result := make([]entity.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchEquality(&t, f) && matchSearch(&t, f.Search) {
			result = append(result, t.Clone())
		}
	}

	if f.DateRange != "" && f.DateRange != entity.RangeAll {
		if match := dateMatcher(f, Today(now)); match != nil {
			result = slices.DeleteFunc(result, func(t entity.Task) bool {
				return t.AssignedOn == nil || !match(*t.AssignedOn)
			})
		}
	}

	Sort(result, s)
	return result
}

// Sort сортирует срез на месте; равные элементы сохраняют исходный порядок
// при любом направлении.
func Sort(tasks []entity.Task, s entity.SortSpec) {
	cmp := comparator(s.Field)
	if cmp == nil {
		return
	}
	if s.Direction == entity.SortDesc {
		slices.SortStableFunc(tasks, func(a, b entity.Task) int { return cmp(&b, &a) })
		return
	}
	slices.SortStableFunc(tasks, func(a, b entity.Task) int { return cmp(&a, &b) })
}

func isAll(v string) bool {
	return v == "" || v == entity.FilterAll
}

func matchEquality(t *entity.Task, f entity.FilterSpec) bool {
	if !isAll(f.AssignedTo) && t.AssignedTo != f.AssignedTo {
		return false
	}
	if !isAll(f.Status) && string(t.Status) != f.Status {
		return false
	}
	if !isAll(f.Client) && t.Client != f.Client {
		return false
	}
	return true
}

func matchSearch(t *entity.Task, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Client), q) ||
		strings.Contains(strings.ToLower(t.Remarks), q)
}

type compareFunc func(a, b *entity.Task) int

func comparator(field entity.SortField) compareFunc {
	switch field {
	case entity.SortByID:
		return byString(func(t *entity.Task) string { return t.ID })
	case entity.SortByTitle:
		return byString(func(t *entity.Task) string { return t.Title })
	case entity.SortByAssignedTo:
		return byString(func(t *entity.Task) string { return t.AssignedTo })
	case entity.SortByStatus:
		return byString(func(t *entity.Task) string { return string(t.Status) })
	case entity.SortByClient:
		return byString(func(t *entity.Task) string { return t.Client })
	case entity.SortByRemarks:
		return byString(func(t *entity.Task) string { return t.Remarks })
	case entity.SortByAssignedOn:
		return byDate(func(t *entity.Task) *civil.Date { return t.AssignedOn })
	case entity.SortByDeadline:
		return byDate(func(t *entity.Task) *civil.Date { return t.Deadline })
	case entity.SortByCompletedOn:
		return byDate(func(t *entity.Task) *civil.Date { return t.CompletedOn })
	case entity.SortByPriority:
		return func(a, b *entity.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	}
	return nil
}

func byString(get func(*entity.Task) string) compareFunc {
	return func(a, b *entity.Task) int {
		return strings.Compare(get(a), get(b))
	}
}

// byDate - отсутствующая дата идет раньше любой заданной, как пустая строка
func byDate(get func(*entity.Task) *civil.Date) compareFunc {
	return func(a, b *entity.Task) int {
		da, db := get(a), get(b)
		switch {
		case da == nil && db == nil:
			return 0
		case da == nil:
			return -1
		case db == nil:
			return 1
		case da.Before(*db):
			return -1
		case da.After(*db):
			return 1
		}
		return 0
	}
}
