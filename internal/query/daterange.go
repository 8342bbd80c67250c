package query

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

// Today - календарный день, в котором находится now (в его часовом поясе)
func Today(now time.Time) civil.Date {
	return civil.DateOf(now)
}

func weekday(d civil.Date) int {
	return int(d.In(time.UTC).Weekday())
}

// weekStart - воскресенье недели, содержащей d
func weekStart(d civil.Date) civil.Date {
	return d.AddDays(-weekday(d))
}

func between(d, from, to civil.Date) bool {
	return !d.Before(from) && !d.After(to)
}

func sameMonth(d civil.Date, year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

// previousMonth - календарная арифметика, а не "минус 30 дней"
func previousMonth(d civil.Date) (int, time.Month) {
	if d.Month == time.January {
		return d.Year - 1, time.December
	}
	return d.Year, d.Month - 1
}

// dateMatcher строит предикат по якорной дате задачи.
// Возвращает nil, если фильтр по датам не применяется.
func dateMatcher(f entity.FilterSpec, today civil.Date) func(civil.Date) bool {
	switch f.DateRange {
	case entity.RangeToday:
		return func(d civil.Date) bool { return d == today }
	case entity.RangeYesterday:
		yesterday := today.AddDays(-1)
		return func(d civil.Date) bool { return d == yesterday }
	case entity.RangeThisWeek:
		start := weekStart(today)
		end := start.AddDays(6)
		return func(d civil.Date) bool { return between(d, start, end) }
	case entity.RangeLastWeek:
		start := weekStart(today).AddDays(-7)
		end := start.AddDays(6)
		return func(d civil.Date) bool { return between(d, start, end) }
	case entity.RangeThisMonth:
		return func(d civil.Date) bool { return sameMonth(d, today.Year, today.Month) }
	case entity.RangeLastMonth:
		year, month := previousMonth(today)
		return func(d civil.Date) bool { return sameMonth(d, year, month) }
	case entity.RangeLast7Days:
		from := today.AddDays(-7)
		return func(d civil.Date) bool { return between(d, from, today) }
	case entity.RangeLast30Days:
		from := today.AddDays(-30)
		return func(d civil.Date) bool { return between(d, from, today) }
	case entity.RangeCustom:
		// без одной из границ фильтр пропускает все задачи
		if f.DateFrom == nil || f.DateTo == nil {
			return nil
		}
		from, to := *f.DateFrom, *f.DateTo
		return func(d civil.Date) bool { return between(d, from, to) }
	default:
		return nil
	}
}
