package entity

import (
	"strings"
	"time"
)

type ResourceType string

const (
	ResourceDocumentation ResourceType = "Documentation"
	ResourceTool          ResourceType = "Tool"
	ResourceTemplate      ResourceType = "Template"
	ResourceGuide         ResourceType = "Guide"
	ResourceOther         ResourceType = "Other"
)

type ResourceStatus string

const (
	ResourceActive   ResourceStatus = "Active"
	ResourceInactive ResourceStatus = "Inactive"
	ResourceArchived ResourceStatus = "Archived"
)

type Resource struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Type        ResourceType   `json:"type"`
	Status      ResourceStatus `json:"status"`
	Tags        []string       `json:"tags"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// валидация
type CreateResourceRequest struct {
	Title       string         `json:"title" validate:"required,min=1,max=255"`
	Category    string         `json:"category" validate:"required,max=255"`
	Description string         `json:"description" validate:"max=2000"`
	URL         string         `json:"url" validate:"required,url"`
	Type        ResourceType   `json:"type" validate:"omitempty,oneof=Documentation Tool Template Guide Other"`
	Status      ResourceStatus `json:"status" validate:"omitempty,oneof=Active Inactive Archived"`
	Tags        []string       `json:"tags"`
}

type UpdateResourceRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=1,max=255"`
	Category    *string         `json:"category" validate:"omitempty,min=1,max=255"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	URL         *string         `json:"url" validate:"omitempty,url"`
	Type        *ResourceType   `json:"type" validate:"omitempty,oneof=Documentation Tool Template Guide Other"`
	Status      *ResourceStatus `json:"status" validate:"omitempty,oneof=Active Inactive Archived"`
	Tags        []string        `json:"tags"`
}

// ResourceFilter - пустое поле означает "без фильтра"
type ResourceFilter struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Status   string `json:"status"`
}

func (r *UpdateResourceRequest) IsEmpty() bool {
	return r.Title == nil && r.Category == nil && r.Description == nil && r.URL == nil &&
		r.Type == nil && r.Status == nil && r.Tags == nil
}

func (r CreateResourceRequest) Trimmed() CreateResourceRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.URL = strings.TrimSpace(r.URL)
	return r
}

func (r UpdateResourceRequest) Trimmed() UpdateResourceRequest {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	r.Title = trim(r.Title)
	r.Category = trim(r.Category)
	r.URL = trim(r.URL)
	return r
}
