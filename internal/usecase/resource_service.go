package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/repository"
)

type ResourceService struct {
	repo     repository.IResourceRepository
	audit    *auditSender
	validate *validator.Validate
	now      func() time.Time
}

func NewResourceService(repo repository.IResourceRepository, publisher AuditPublisher, logger *zap.Logger) *ResourceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{
		repo:     repo,
		audit:    &auditSender{publisher: publisher, logger: logger},
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *ResourceService) WaitAudits() {
	s.audit.Wait()
}

func (s *ResourceService) CreateResource(ctx context.Context, in *entity.CreateResourceRequest) (*entity.Resource, error) {
	trimmed := in.Trimmed()
	req := &trimmed
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidResourceData, err)
	}

	resource := &entity.Resource{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		URL:         req.URL,
		Type:        req.Type,
		Status:      req.Status,
		Tags:        cleanTags(req.Tags),
	}
	if resource.Type == "" {
		resource.Type = entity.ResourceOther
	}
	if resource.Status == "" {
		resource.Status = entity.ResourceActive
	}

	created, err := s.repo.Create(ctx, resource)
	if err != nil {
		return nil, err
	}

	s.audit.send(&entity.AuditMessage{
		Action:     entity.ActionCreate,
		EntityType: entity.EntityResource,
		EntityID:   created.ID,
		NewValues:  resourceAuditValues(created),
		Timestamp:  s.now(),
	})
	return created, nil
}

func (s *ResourceService) GetResource(ctx context.Context, id string) (*entity.Resource, error) {
	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, entity.ErrResourceNotFound
	}
	return resource, nil
}

func (s *ResourceService) UpdateResource(ctx context.Context, id string, in *entity.UpdateResourceRequest) (*entity.Resource, error) {
	if in.IsEmpty() {
		return nil, entity.ErrNoFieldsToUpdate
	}
	trimmed := in.Trimmed()
	req := &trimmed
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidResourceData, err)
	}

	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, entity.ErrResourceNotFound
	}

	resource := *old
	if req.Title != nil {
		resource.Title = *req.Title
	}
	if req.Category != nil {
		resource.Category = *req.Category
	}
	if req.Description != nil {
		resource.Description = *req.Description
	}
	if req.URL != nil {
		resource.URL = *req.URL
	}
	if req.Type != nil {
		resource.Type = *req.Type
	}
	if req.Status != nil {
		resource.Status = *req.Status
	}
	if req.Tags != nil {
		resource.Tags = cleanTags(req.Tags)
	}

	updated, err := s.repo.Update(ctx, &resource)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, entity.ErrResourceNotFound
	}

	oldValues := resourceAuditValues(old)
	newValues := resourceAuditValues(updated)
	s.audit.send(&entity.AuditMessage{
		Action:     entity.ActionUpdate,
		EntityType: entity.EntityResource,
		EntityID:   updated.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Changes:    diffValues(oldValues, newValues),
		Timestamp:  s.now(),
	})
	return updated, nil
}

func (s *ResourceService) DeleteResource(ctx context.Context, id string) error {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if old == nil {
		return entity.ErrResourceNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.send(&entity.AuditMessage{
		Action:     entity.ActionDelete,
		EntityType: entity.EntityResource,
		EntityID:   id,
		OldValues:  resourceAuditValues(old),
		Timestamp:  s.now(),
	})
	return nil
}

// ListResources - точное совпадение по заполненным полям фильтра, новые сверху
func (s *ResourceService) ListResources(ctx context.Context, f entity.ResourceFilter) ([]entity.Resource, error) {
	resources, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := slices.DeleteFunc(resources, func(r entity.Resource) bool {
		return (f.Category != "" && r.Category != f.Category) ||
			(f.Type != "" && string(r.Type) != f.Type) ||
			(f.Status != "" && string(r.Status) != f.Status)
	})
	slices.SortStableFunc(out, func(a, b entity.Resource) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if out == nil {
		out = []entity.Resource{}
	}
	return out, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

func resourceAuditValues(r *entity.Resource) map[string]any {
	return map[string]any{
		"title":       r.Title,
		"category":    r.Category,
		"description": r.Description,
		"url":         r.URL,
		"type":        string(r.Type),
		"status":      string(r.Status),
		"tags":        strings.Join(r.Tags, ","),
	}
}
