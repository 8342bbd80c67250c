package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/query"
	"github.com/St1cky1/team-dashboard/internal/repository"
)

type TaskServiceConfig struct {
	TeamMembers []string
	Clients     []string
	Location    *time.Location
	Logger      *zap.Logger
}

type TaskService struct {
	taskRepo  repository.ITaskRepository
	auditRepo repository.ITaskAuditRepository
	audit     *auditSender
	validate  *validator.Validate

	roster  []string
	clients []string
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

func NewTaskService(
	taskRepo repository.ITaskRepository,
	auditRepo repository.ITaskAuditRepository,
	publisher AuditPublisher,
	cfg TaskServiceConfig,
) *TaskService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &TaskService{
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
		audit:     &auditSender{publisher: publisher, logger: logger},
		validate:  validator.New(),
		roster:    slices.Clone(cfg.TeamMembers),
		clients:   slices.Clone(cfg.Clients),
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// clock - текущее время в часовом поясе команды
func (s *TaskService) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *TaskService) today() civil.Date {
	return query.Today(s.clock())
}

// WaitAudits дожидается отправки всех сообщений аудита
func (s *TaskService) WaitAudits() {
	s.audit.Wait()
}

func (s *TaskService) CreateTask(ctx context.Context, in *entity.CreateTaskRequest) (*entity.Task, error) {
	trimmed := in.Trimmed()
	req := &trimmed
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidTaskData, err)
	}

	task := &entity.Task{
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		Client:     req.Client,
		Remarks:    req.Remarks,
		Status:     entity.StatusPending,
	}

	if req.Status != "" {
		status, err := entity.ParseTaskStatus(req.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}

	priority, err := entity.ParsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	task.Priority = priority

	if task.AssignedOn, err = entity.ParseDate(req.AssignedOn); err != nil {
		return nil, err
	}
	if task.AssignedOn == nil {
		today := s.today()
		task.AssignedOn = &today
	}
	if task.Deadline, err = entity.ParseDate(req.Deadline); err != nil {
		return nil, err
	}

	if err := s.finalize(task, nil); err != nil {
		return nil, err
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.audit.send(&entity.AuditMessage{
		Action:     entity.ActionCreate,
		EntityType: entity.EntityTask,
		EntityID:   created.ID,
		NewValues:  taskAuditValues(created),
		Timestamp:  s.now(),
	})

	return created, nil
}

// finalize проверяет порядок дат и поддерживает CompletedOn:
// дата завершения есть только у Completed задач
func (s *TaskService) finalize(task, old *entity.Task) error {
	if task.AssignedOn != nil && task.Deadline != nil && task.Deadline.Before(*task.AssignedOn) {
		return fmt.Errorf("%w: deadline is before assignedOn", entity.ErrInvalidTaskData)
	}

	if task.Status != entity.StatusCompleted {
		task.CompletedOn = nil
		return nil
	}
	if old != nil && old.Status == entity.StatusCompleted && old.CompletedOn != nil {
		task.CompletedOn = old.CompletedOn
		return nil
	}
	today := s.today()
	task.CompletedOn = &today
	return nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*entity.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, in *entity.UpdateTaskRequest) (*entity.Task, error) {
	if in.IsEmpty() {
		return nil, entity.ErrNoFieldsToUpdate
	}
	trimmed := in.Trimmed()
	req := &trimmed
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidTaskData, err)
	}

	oldTask, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if oldTask == nil {
		return nil, entity.ErrTaskNotFound
	}

	task := *oldTask
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}
	if req.Client != nil {
		task.Client = *req.Client
	}
	if req.Remarks != nil {
		task.Remarks = *req.Remarks
	}
	if req.Status != nil {
		if task.Status, err = entity.ParseTaskStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if req.Priority != nil {
		if task.Priority, err = entity.ParsePriority(*req.Priority); err != nil {
			return nil, err
		}
	}
	if req.AssignedOn != nil {
		if task.AssignedOn, err = entity.ParseDate(*req.AssignedOn); err != nil {
			return nil, err
		}
	}
	if req.Deadline != nil {
		if task.Deadline, err = entity.ParseDate(*req.Deadline); err != nil {
			return nil, err
		}
	}

	if err := s.finalize(&task, oldTask); err != nil {
		return nil, err
	}

	updated, err := s.taskRepo.Update(ctx, &task)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, entity.ErrTaskNotFound
	}

	oldValues := taskAuditValues(oldTask)
	newValues := taskAuditValues(updated)
	s.audit.send(&entity.AuditMessage{
		Action:     entity.ActionUpdate,
		EntityType: entity.EntityTask,
		EntityID:   updated.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Changes:    diffValues(oldValues, newValues),
		Timestamp:  s.now(),
	})

	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return entity.ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.send(&entity.AuditMessage{
		Action:     entity.ActionDelete,
		EntityType: entity.EntityTask,
		EntityID:   id,
		OldValues:  taskAuditValues(task),
		Timestamp:  s.now(),
	})
	return nil
}

// QueryTasks - фильтрация и сортировка поверх полного снимка задач
func (s *TaskService) QueryTasks(ctx context.Context, f entity.FilterSpec, sort entity.SortSpec) ([]entity.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.FilterAndSort(tasks, f, sort, s.clock()), nil
}

func (s *TaskService) Statistics(ctx context.Context) (entity.Stats, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return entity.Stats{}, err
	}
	return query.ComputeStatistics(tasks, s.clock()), nil
}

func (s *TaskService) TeamBreakdown(ctx context.Context) ([]entity.TeamMemberStats, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.ComputeTeamBreakdown(tasks, s.roster), nil
}

// FilterOptions - значения для выпадающих фильтров. Клиенты из конфигурации
// идут первыми, затем встреченные в задачах по алфавиту.
func (s *TaskService) FilterOptions(ctx context.Context) (entity.FilterOptions, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return entity.FilterOptions{}, err
	}

	clients := slices.Clone(s.clients)
	var extra []string
	for _, t := range tasks {
		if t.Client == "" || slices.Contains(clients, t.Client) || slices.Contains(extra, t.Client) {
			continue
		}
		extra = append(extra, t.Client)
	}
	slices.Sort(extra)

	return entity.FilterOptions{
		TeamMembers: slices.Clone(s.roster),
		Clients:     append(clients, extra...),
		Statuses:    slices.Clone(entity.StatusOptions),
	}, nil
}

// TaskHistory - журнал изменений задачи
func (s *TaskService) TaskHistory(ctx context.Context, id string) ([]entity.AuditEntry, error) {
	return s.auditRepo.ListByEntity(ctx, entity.EntityTask, id)
}

func dateValue(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func taskAuditValues(t *entity.Task) map[string]any {
	return map[string]any{
		"title":       t.Title,
		"assignedTo":  t.AssignedTo,
		"status":      string(t.Status),
		"client":      t.Client,
		"assignedOn":  dateValue(t.AssignedOn),
		"deadline":    dateValue(t.Deadline),
		"completedOn": dateValue(t.CompletedOn),
		"remarks":     t.Remarks,
		"priority":    string(t.Priority),
	}
}
