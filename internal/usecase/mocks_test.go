package usecase

import (
	"context"
	"sync"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/repository"
)

// MockTaskRepository - мок для ITaskRepository
type MockTaskRepository struct {
	CreateFunc  func(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetByIDFunc func(ctx context.Context, id string) (*entity.Task, error)
	UpdateFunc  func(ctx context.Context, task *entity.Task) (*entity.Task, error)
	DeleteFunc  func(ctx context.Context, id string) error
	ListFunc    func(ctx context.Context) ([]entity.Task, error)
}

var _ repository.ITaskRepository = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil, nil
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil, nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// MockTaskAuditRepository - мок для ITaskAuditRepository
type MockTaskAuditRepository struct {
	CreateFunc       func(ctx context.Context, audit *entity.AuditEntry) error
	ListByEntityFunc func(ctx context.Context, entityType, entityID string) ([]entity.AuditEntry, error)
}

var _ repository.ITaskAuditRepository = (*MockTaskAuditRepository)(nil)

func (m *MockTaskAuditRepository) Create(ctx context.Context, audit *entity.AuditEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, audit)
	}
	return nil
}

func (m *MockTaskAuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]entity.AuditEntry, error) {
	if m.ListByEntityFunc != nil {
		return m.ListByEntityFunc(ctx, entityType, entityID)
	}
	return nil, nil
}

// MockAuditPublisher запоминает опубликованные сообщения
type MockAuditPublisher struct {
	mu       sync.Mutex
	Messages []*entity.AuditMessage
	Err      error
}

func (m *MockAuditPublisher) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, message)
	return m.Err
}

func (m *MockAuditPublisher) Published() []*entity.AuditMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.AuditMessage(nil), m.Messages...)
}
