package service

import (
	"context"
	"time"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/validator"
)

// Assigned is a task form that was accepted by the backend.
type Assigned struct {
	entities.TaskForm
	SubmittedAt time.Time `json:"submitted_at"`
}

// State is a snapshot of the task form for rendering.
type State struct {
	Form     entities.TaskForm `json:"form"`
	Errors   validator.Errors  `json:"errors"`
	Message  *flow.Message     `json:"message,omitempty"`
	Busy     bool              `json:"busy"`
	Progress int               `json:"progress"`
	History  []Assigned        `json:"history"`
}

// TaskForm is the admin's task assignment workflow.
type TaskForm interface {
	State() State
	Set(field, value string) error
	Replace(f entities.TaskForm)
	Submit(ctx context.Context) error
	Reset(ctx context.Context) error
	// Progress is the share of required fields filled in, in whole percent.
	Progress() int
	// History lists assigned tasks, only those with the given status when
	// status is not empty.
	History(status string) []Assigned
	ExportHistory(ctx context.Context) error
	// Close writes any draft still waiting on the debounce delay.
	Close()
}
