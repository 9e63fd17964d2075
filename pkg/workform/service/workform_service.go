package service

import (
	"context"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/validator"
)

// State is a snapshot of the supervisor's work form for rendering.
type State struct {
	Form       entities.WorkForm      `json:"form"`
	Task       *entities.TaskSummary  `json:"task,omitempty"`
	Errors     validator.Errors       `json:"errors"`
	Message    *flow.Message          `json:"message,omitempty"`
	Busy       bool                   `json:"busy"`
	Completion float64                `json:"completion"`
	History    []entities.WorkPayload `json:"history"`
}

// WorkForm reports Start, Progress and End work against one task at a time.
// Field names accepted by SetField are notes, length, work_status and
// remarks, as far as the phase has them.
type WorkForm interface {
	State() State
	// Tasks lists what can be picked in SelectTask.
	Tasks(ctx context.Context) ([]entities.TaskSummary, error)
	SelectTask(ctx context.Context, taskID string) error
	SetPhase(p entities.Phase) error
	SetField(p entities.Phase, name, value string) error
	AttachImage(p entities.Phase, a entities.Attachment) error
	RemoveImage(p entities.Phase, index int) error
	// CaptureLocation asks the device for a fix. A failure leaves the
	// previous fix in place.
	CaptureLocation(ctx context.Context, p entities.Phase) error
	SetLocation(p entities.Phase, lat, lng float64) error
	Submit(ctx context.Context, p entities.Phase) error
	Reset(ctx context.Context) error
	CompletionPercentage() float64
	History(taskID string) []entities.WorkPayload
	ExportHistory(ctx context.Context) error
	Close()
}
