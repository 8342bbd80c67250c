package query

import (
	"math"
	"time"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

// ActivePreviewLimit - сколько задач в работе показывать в карточке участника
const ActivePreviewLimit = 3

// CompletionRate - процент завершенных, 0 для пустого набора
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// IsOverdue - задача не завершена и дедлайн строго раньше сегодняшнего дня
func IsOverdue(t *entity.Task, now time.Time) bool {
	if t.Status == entity.StatusCompleted || t.Deadline == nil {
		return false
	}
	return t.Deadline.Before(Today(now))
}

func ComputeStatistics(tasks []entity.Task, now time.Time) entity.Stats {
	today := Today(now)
	stats := entity.Stats{Total: len(tasks)}

	for i := range tasks {
		t := &tasks[i]
		switch {
		case t.Status == entity.StatusCompleted:
			stats.Completed++
		case t.Status == entity.StatusInProgress:
			stats.InProgress++
		case t.Status.IsOpen():
			stats.Pending++
		}
		if t.Status != entity.StatusCompleted && t.Deadline != nil && t.Deadline.Before(today) {
			stats.Overdue++
		}
	}

	stats.CompletionRate = CompletionRate(stats.Completed, stats.Total)
	return stats
}

// ComputeTeamBreakdown считает статистику по каждому участнику из roster
// в порядке roster. Исполнители вне roster игнорируются.
func ComputeTeamBreakdown(tasks []entity.Task, roster []string) []entity.TeamMemberStats {
	result := make([]entity.TeamMemberStats, len(roster))
	index := make(map[string]int, len(roster))
	for i, name := range roster {
		result[i] = entity.TeamMemberStats{Name: name, ActiveTasks: []entity.Task{}}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, t := range tasks {
		i, ok := index[t.AssignedTo]
		if !ok {
			continue
		}
		m := &result[i]
		m.Total++
		switch t.Status {
		case entity.StatusCompleted:
			m.Completed++
		case entity.StatusInProgress:
			m.Active++
			if len(m.ActiveTasks) < ActivePreviewLimit {
				m.ActiveTasks = append(m.ActiveTasks, t.Clone())
			}
		}
	}

	// повторяющиеся имена в roster получают одинаковую статистику
	for i, name := range roster {
		if first := index[name]; first != i {
			result[i] = result[first]
			result[i].ActiveTasks = append([]entity.Task{}, result[first].ActiveTasks...)
		}
	}

	for i := range result {
		result[i].CompletionRate = CompletionRate(result[i].Completed, result[i].Total)
	}
	return result
}
