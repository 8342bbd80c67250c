package entity

import "errors"

var (
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrTaskNotFound        = errors.New("task not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrInvalidTaskData     = errors.New("invalid task data")
	ErrInvalidResourceData = errors.New("invalid resource data")
	ErrUnknownStatus       = errors.New("unknown task status")
	ErrUnknownPriority     = errors.New("unknown task priority")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
)
