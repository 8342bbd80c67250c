package entity

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusNotStarted TaskStatus = "Not Started"
	StatusInProgress TaskStatus = "In progress"
	StatusCompleted  TaskStatus = "Completed"
	StatusOnHold     TaskStatus = "On Hold"
	StatusCancelled  TaskStatus = "Cancelled"
)

// StatusOptions - статусы в порядке отображения в фильтрах
var StatusOptions = []TaskStatus{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusOnHold,
	StatusCancelled,
}

// ParseTaskStatus приводит статус из любого источника (таблица, документ, JSON)
// к каноническому значению. Сравнивается без учета регистра, пробелов и "_"/"-".
func ParseTaskStatus(s string) (TaskStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")

	switch key {
	case "pending":
		return StatusPending, nil
	case "not started", "notstarted":
		return StatusNotStarted, nil
	case "in progress", "inprogress", "in progres":
		return StatusInProgress, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	case "on hold", "onhold":
		return StatusOnHold, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	}
	return "", ErrUnknownStatus
}

// IsOpen - задача еще не завершена (Pending и Not Started считаются одним бакетом)
func (s TaskStatus) IsOpen() bool {
	return s == StatusPending || s == StatusNotStarted
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", ErrUnknownPriority
}

// Rank - порядок для сортировки, пустой приоритет считается Medium
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	default:
		return 1
	}
}

type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	AssignedTo  string      `json:"assignedTo"`
	Status      TaskStatus  `json:"status"`
	Client      string      `json:"client"`
	AssignedOn  *civil.Date `json:"assignedOn,omitempty"`
	Deadline    *civil.Date `json:"deadline,omitempty"`
	CompletedOn *civil.Date `json:"completedOn,omitempty"`
	Remarks     string      `json:"remarks,omitempty"`
	Priority    Priority    `json:"priority,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Clone - глубокая копия: даты копируются, а не разделяются по указателю
func (t Task) Clone() Task {
	t.AssignedOn = cloneDate(t.AssignedOn)
	t.Deadline = cloneDate(t.Deadline)
	t.CompletedOn = cloneDate(t.CompletedOn)
	return t
}

func cloneDate(d *civil.Date) *civil.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// TurnaroundDays - сколько дней заняла задача, nil если она не завершена
func (t *Task) TurnaroundDays() *int {
	if t.AssignedOn == nil || t.CompletedOn == nil {
		return nil
	}
	days := t.CompletedOn.DaysSince(*t.AssignedOn)
	return &days
}

// валидация
type CreateTaskRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=255"`
	AssignedTo string `json:"assignedTo" validate:"required,max=255"`
	Status     string `json:"status"`
	Client     string `json:"client" validate:"required,max=255"`
	AssignedOn string `json:"assignedOn" validate:"omitempty,datetime=2006-01-02"`
	Deadline   string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Remarks    string `json:"remarks" validate:"max=2000"`
	Priority   string `json:"priority"`
}

// UpdateTaskRequest - nil означает "не менять"
type UpdateTaskRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=255"`
	AssignedTo *string `json:"assignedTo" validate:"omitempty,min=1,max=255"`
	Status     *string `json:"status"`
	Client     *string `json:"client" validate:"omitempty,min=1,max=255"`
	AssignedOn *string `json:"assignedOn"` // "" очищает дату
	Deadline   *string `json:"deadline"`
	Remarks    *string `json:"remarks" validate:"omitempty,max=2000"`
	Priority   *string `json:"priority"`
}

// ParseDate разбирает дату формата YYYY-MM-DD, пустая строка - nil
func ParseDate(s string) (*civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &d, nil
}

func (r *UpdateTaskRequest) IsEmpty() bool {
	return r.Title == nil && r.AssignedTo == nil && r.Status == nil && r.Client == nil &&
		r.AssignedOn == nil && r.Deadline == nil && r.Remarks == nil && r.Priority == nil
}

// Trimmed убирает пробелы по краям текстовых полей, валидация идет уже по
// обрезанным значениям: "   " не проходит required
func (r CreateTaskRequest) Trimmed() CreateTaskRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.AssignedTo = strings.TrimSpace(r.AssignedTo)
	r.Client = strings.TrimSpace(r.Client)
	return r
}

func (r UpdateTaskRequest) Trimmed() UpdateTaskRequest {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	r.Title = trim(r.Title)
	r.AssignedTo = trim(r.AssignedTo)
	r.Client = trim(r.Client)
	return r
}
