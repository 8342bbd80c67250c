package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gorm-модели для локального файла sqlite. Даты хранятся строкой YYYY-MM-DD.
type taskModel struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	AssignedTo  string `gorm:"index"`
	Status      string
	Client      string
	AssignedOn  *string `gorm:"index"`
	Deadline    *string
	CompletedOn *string
	Remarks     string
	Priority    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskModel) TableName() string { return "tasks" }

type resourceModel struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Category    string `gorm:"index"`
	Description string
	URL         string
	Type        string
	Status      string
	Tags        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (resourceModel) TableName() string { return "resources" }

// OpenSQLite открывает файл базы и создает таблицы, если их нет
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&taskModel{}, &resourceModel{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

func dateToString(d *civil.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func stringToDate(s *string) *civil.Date {
	if s == nil || *s == "" {
		return nil
	}
	d, err := civil.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}

func toTaskModel(t *entity.Task) taskModel {
	return taskModel{
		ID:          t.ID,
		Title:       t.Title,
		AssignedTo:  t.AssignedTo,
		Status:      string(t.Status),
		Client:      t.Client,
		AssignedOn:  dateToString(t.AssignedOn),
		Deadline:    dateToString(t.Deadline),
		CompletedOn: dateToString(t.CompletedOn),
		Remarks:     t.Remarks,
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m taskModel) toEntity() entity.Task {
	return entity.Task{
		ID:          m.ID,
		Title:       m.Title,
		AssignedTo:  m.AssignedTo,
		Status:      entity.TaskStatus(m.Status),
		Client:      m.Client,
		AssignedOn:  stringToDate(m.AssignedOn),
		Deadline:    stringToDate(m.Deadline),
		CompletedOn: stringToDate(m.CompletedOn),
		Remarks:     m.Remarks,
		Priority:    entity.Priority(m.Priority),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// GormTaskRepository - задачи в sqlite через gorm
type GormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{
		db: db,
	}
}

func (r *GormTaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	m := toTaskModel(task)
	if m.ID == "" {
		m.ID = "task-" + uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	created := m.toEntity()
	return &created, nil
}

func (r *GormTaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	var m taskModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := m.toEntity()
	return &t, nil
}

func (r *GormTaskRepository) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	var existing taskModel
	err := r.db.WithContext(ctx).First(&existing, "id = ?", task.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	m := toTaskModel(task)
	m.CreatedAt = existing.CreatedAt
	// Save пишет все колонки, включая nil-даты
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, err
	}
	updated := m.toEntity()
	return &updated, nil
}

func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&taskModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrTaskNotFound
	}
	return nil
}

func (r *GormTaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	var models []taskModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, err
	}

	tasks := make([]entity.Task, 0, len(models))
	for _, m := range models {
		tasks = append(tasks, m.toEntity())
	}
	return tasks, nil
}

func toResourceModel(r *entity.Resource) resourceModel {
	return resourceModel{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		URL:         r.URL,
		Type:        string(r.Type),
		Status:      string(r.Status),
		Tags:        strings.Join(r.Tags, ","),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (m resourceModel) toEntity() entity.Resource {
	return entity.Resource{
		ID:          m.ID,
		Title:       m.Title,
		Category:    m.Category,
		Description: m.Description,
		URL:         m.URL,
		Type:        entity.ResourceType(m.Type),
		Status:      entity.ResourceStatus(m.Status),
		Tags:        splitTags(m.Tags),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type GormResourceRepository struct {
	db *gorm.DB
}

func NewGormResourceRepository(db *gorm.DB) *GormResourceRepository {
	return &GormResourceRepository{
		db: db,
	}
}

func (r *GormResourceRepository) Create(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	m := toResourceModel(resource)
	if m.ID == "" {
		m.ID = "resource-" + uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	created := m.toEntity()
	return &created, nil
}

func (r *GormResourceRepository) GetByID(ctx context.Context, id string) (*entity.Resource, error) {
	var m resourceModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	res := m.toEntity()
	return &res, nil
}

func (r *GormResourceRepository) Update(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	var existing resourceModel
	err := r.db.WithContext(ctx).First(&existing, "id = ?", resource.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	m := toResourceModel(resource)
	m.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, err
	}
	updated := m.toEntity()
	return &updated, nil
}

func (r *GormResourceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&resourceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrResourceNotFound
	}
	return nil
}

func (r *GormResourceRepository) List(ctx context.Context) ([]entity.Resource, error) {
	var models []resourceModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, err
	}

	resources := make([]entity.Resource, 0, len(models))
	for _, m := range models {
		resources = append(resources, m.toEntity())
	}
	return resources, nil
}
