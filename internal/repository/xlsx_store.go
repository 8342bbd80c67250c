package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	TasksSheet     = "Tasks"
	ResourcesSheet = "Resources"
)

var taskHeaders = []string{
	"Task", "Assigned to", "Status", "For Client", "Assigned on", "Deadline",
	"Completed On", "Remarks", "Priority", "ID", "Created At", "Updated At",
}

var resourceHeaders = []string{
	"ID", "Title", "Description", "Category", "Type", "URL", "Status", "Tags",
	"Created At", "Updated At",
}

// форматы дат, которые встречаются в таблице команды
var sheetDateLayouts = []string{"2006-01-02", "1/2/2006", "1/2/06", "01-02-06", "02.01.2006", "2 Jan 2006"}

// XLSXStore - таблица команды в виде .xlsx файла. Каждая операция читает файл
// целиком и при записи сохраняет его заново, поэтому доступ сериализован mu.
type XLSXStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{
		path: path,
		now:  time.Now,
	}
}

// Resources - материалы, лежащие во втором листе того же файла
func (s *XLSXStore) Resources() *XLSXResourceRepository {
	return &XLSXResourceRepository{store: s}
}

type sheetData struct {
	tasks     []entity.Task
	resources []entity.Resource
}

func (s *XLSXStore) load() (*sheetData, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &sheetData{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	data := &sheetData{}

	if idx, _ := f.GetSheetIndex(TasksSheet); idx >= 0 {
		rows, err := f.GetRows(TasksSheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", TasksSheet, err)
		}
		for i, row := range rows {
			if i == 0 || isBlankRow(row) {
				continue
			}
			data.tasks = append(data.tasks, parseTaskRow(row, i+1))
		}
	}

	if idx, _ := f.GetSheetIndex(ResourcesSheet); idx >= 0 {
		rows, err := f.GetRows(ResourcesSheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", ResourcesSheet, err)
		}
		for i, row := range rows {
			if i == 0 || isBlankRow(row) {
				continue
			}
			data.resources = append(data.resources, parseResourceRow(row, i+1))
		}
	}

	return data, nil
}

func (s *XLSXStore) save(data *sheetData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TasksSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ResourcesSheet); err != nil {
		return err
	}

	if err := writeRow(f, TasksSheet, 1, toAny(taskHeaders)); err != nil {
		return err
	}
	for i, t := range data.tasks {
		if err := writeRow(f, TasksSheet, i+2, taskRow(t)); err != nil {
			return err
		}
	}

	if err := writeRow(f, ResourcesSheet, 1, toAny(resourceHeaders)); err != nil {
		return err
	}
	for i, r := range data.resources {
		if err := writeRow(f, ResourcesSheet, i+2, resourceRow(r)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, axis, &values)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// parseSheetDate - нераспознанная дата считается пустой
func parseSheetDate(s string) *civil.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := civil.DateOf(t)
			return &d
		}
	}
	return nil
}

func formatSheetDate(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func parseSheetTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatSheetTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTaskRow(row []string, rowNum int) entity.Task {
	status, err := entity.ParseTaskStatus(cell(row, 2))
	if err != nil {
		status = entity.StatusPending
	}
	priority, err := entity.ParsePriority(cell(row, 8))
	if err != nil {
		priority = entity.PriorityMedium
	}

	assignedTo := cell(row, 1)
	if assignedTo == "" {
		assignedTo = "Unassigned"
	}

	id := cell(row, 9)
	if id == "" {
		id = fmt.Sprintf("task-row-%d", rowNum)
	}

	task := entity.Task{
		ID:          id,
		Title:       cell(row, 0),
		AssignedTo:  assignedTo,
		Status:      status,
		Client:      cell(row, 3),
		AssignedOn:  parseSheetDate(cell(row, 4)),
		Deadline:    parseSheetDate(cell(row, 5)),
		CompletedOn: parseSheetDate(cell(row, 6)),
		Remarks:     cell(row, 7),
		Priority:    priority,
		CreatedAt:   parseSheetTime(cell(row, 10)),
		UpdatedAt:   parseSheetTime(cell(row, 11)),
	}
	if task.Status != entity.StatusCompleted {
		task.CompletedOn = nil
	}
	return task
}

func taskRow(t entity.Task) []any {
	return []any{
		t.Title,
		t.AssignedTo,
		string(t.Status),
		t.Client,
		formatSheetDate(t.AssignedOn),
		formatSheetDate(t.Deadline),
		formatSheetDate(t.CompletedOn),
		t.Remarks,
		string(t.Priority),
		t.ID,
		formatSheetTime(t.CreatedAt),
		formatSheetTime(t.UpdatedAt),
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseResourceRow(row []string, rowNum int) entity.Resource {
	id := cell(row, 0)
	if id == "" {
		id = fmt.Sprintf("resource-row-%d", rowNum)
	}
	status := entity.ResourceStatus(cell(row, 6))
	if status == "" {
		status = entity.ResourceActive
	}
	rType := entity.ResourceType(cell(row, 4))
	if rType == "" {
		rType = entity.ResourceOther
	}

	return entity.Resource{
		ID:          id,
		Title:       cell(row, 1),
		Description: cell(row, 2),
		Category:    cell(row, 3),
		Type:        rType,
		URL:         cell(row, 5),
		Status:      status,
		Tags:        splitTags(cell(row, 7)),
		CreatedAt:   parseSheetTime(cell(row, 8)),
		UpdatedAt:   parseSheetTime(cell(row, 9)),
	}
}

func resourceRow(r entity.Resource) []any {
	return []any{
		r.ID,
		r.Title,
		r.Description,
		r.Category,
		string(r.Type),
		r.URL,
		string(r.Status),
		strings.Join(r.Tags, ", "),
		formatSheetTime(r.CreatedAt),
		formatSheetTime(r.UpdatedAt),
	}
}

func (s *XLSXStore) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	created := *task
	if created.ID == "" {
		created.ID = "task-" + uuid.NewString()
	}
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	data.tasks = append(data.tasks, created)

	if err := s.save(data); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *XLSXStore) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, t := range data.tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (s *XLSXStore) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(data.tasks, func(t entity.Task) bool { return t.ID == task.ID })
	if idx < 0 {
		return nil, nil
	}

	updated := *task
	updated.CreatedAt = data.tasks[idx].CreatedAt
	updated.UpdatedAt = s.now()
	data.tasks[idx] = updated

	if err := s.save(data); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *XLSXStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	before := len(data.tasks)
	data.tasks = slices.DeleteFunc(data.tasks, func(t entity.Task) bool { return t.ID == id })
	if len(data.tasks) == before {
		return entity.ErrTaskNotFound
	}
	return s.save(data)
}

func (s *XLSXStore) List(ctx context.Context) ([]entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.tasks, nil
}

// XLSXResourceRepository - лист Resources того же файла
type XLSXResourceRepository struct {
	store *XLSXStore
}

func (r *XLSXResourceRepository) Create(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	created := *resource
	if created.ID == "" {
		created.ID = "resource-" + uuid.NewString()
	}
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	data.resources = append(data.resources, created)

	if err := s.save(data); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *XLSXResourceRepository) GetByID(ctx context.Context, id string) (*entity.Resource, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, res := range data.resources {
		if res.ID == id {
			return &res, nil
		}
	}
	return nil, nil
}

func (r *XLSXResourceRepository) Update(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(data.resources, func(res entity.Resource) bool { return res.ID == resource.ID })
	if idx < 0 {
		return nil, nil
	}

	updated := *resource
	updated.CreatedAt = data.resources[idx].CreatedAt
	updated.UpdatedAt = s.now()
	data.resources[idx] = updated

	if err := s.save(data); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *XLSXResourceRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	before := len(data.resources)
	data.resources = slices.DeleteFunc(data.resources, func(res entity.Resource) bool { return res.ID == id })
	if len(data.resources) == before {
		return entity.ErrResourceNotFound
	}
	return s.save(data)
}

func (r *XLSXResourceRepository) List(ctx context.Context) ([]entity.Resource, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.resources, nil
}
