package repository

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/St1cky1/team-dashboard/internal/entity"
)

// DemoTasks - демо-данные для memory-бэкенда. Даты считаются от today,
// чтобы фильтры "сегодня"/"на этой неделе" на дашборде были не пустыми.
func DemoTasks(today civil.Date) []entity.Task {
	day := func(offset int) *civil.Date {
		d := today.AddDays(offset)
		return &d
	}

	return []entity.Task{
		{ID: "task-1", Title: "SEO audit for product pages", AssignedTo: "Sidd", Status: entity.StatusInProgress, Client: "Swingsaga", AssignedOn: day(0), Deadline: day(5), Priority: entity.PriorityHigh},
		{ID: "task-2", Title: "Google Ads campaign setup", AssignedTo: "Harsh", Status: entity.StatusPending, Client: "Inkup", AssignedOn: day(-1), Deadline: day(3), Remarks: "Waiting for budget approval", Priority: entity.PriorityMedium},
		{ID: "task-3", Title: "Landing page redesign", AssignedTo: "Faisal", Status: entity.StatusCompleted, Client: "Craft Delights", AssignedOn: day(-12), Deadline: day(-4), CompletedOn: day(-5), Priority: entity.PriorityHigh},
		{ID: "task-4", Title: "N8N lead sync workflow", AssignedTo: "Piyush", Status: entity.StatusInProgress, Client: "Anything Vegan", AssignedOn: day(-3), Deadline: day(-1), Remarks: "Blocked on CRM API keys", Priority: entity.PriorityHigh},
		{ID: "task-5", Title: "Monthly analytics report", AssignedTo: "Danish", Status: entity.StatusNotStarted, Client: "Mimamsaa", AssignedOn: day(-2), Deadline: day(10), Priority: entity.PriorityLow},
		{ID: "task-6", Title: "Instagram content calendar", AssignedTo: "Armaan", Status: entity.StatusOnHold, Client: "Banter Kitchen", AssignedOn: day(-20), Deadline: day(-2)},
		{ID: "task-7", Title: "Fix checkout tracking", AssignedTo: "Sidd", Status: entity.StatusCompleted, Client: "Inkup", AssignedOn: day(-35), Deadline: day(-30), CompletedOn: day(-31), Priority: entity.PriorityMedium},
		{ID: "task-8", Title: "Keyword research", AssignedTo: "Rishav", Status: entity.StatusCancelled, Client: "Swingsaga", AssignedOn: day(-8), Deadline: day(-6), Priority: entity.PriorityLow},
		{ID: "task-9", Title: "Website speed optimisation", AssignedTo: "Rishabh", Status: entity.StatusInProgress, Client: "Craft Delights", AssignedOn: day(-6), Deadline: day(2), Priority: entity.PriorityMedium},
	}
}

func DemoResources(now time.Time) []entity.Resource {
	return []entity.Resource{
		{ID: "resource-1", Title: "SEO checklist", Category: "SEO", URL: "https://docs.example.com/seo-checklist", Type: entity.ResourceGuide, Status: entity.ResourceActive, Tags: []string{"SEO"}, CreatedAt: now.Add(-72 * time.Hour), UpdatedAt: now.Add(-72 * time.Hour)},
		{ID: "resource-2", Title: "Ads reporting template", Category: "Ads", URL: "https://docs.example.com/ads-template", Type: entity.ResourceTemplate, Status: entity.ResourceActive, Tags: []string{"Ads", "Analytics"}, CreatedAt: now.Add(-48 * time.Hour), UpdatedAt: now.Add(-48 * time.Hour)},
		{ID: "resource-3", Title: "N8N self-hosting notes", Category: "N8N", URL: "https://docs.example.com/n8n", Type: entity.ResourceDocumentation, Status: entity.ResourceArchived, Tags: []string{"N8N", "Development"}, CreatedAt: now.Add(-24 * time.Hour), UpdatedAt: now.Add(-24 * time.Hour)},
	}
}
