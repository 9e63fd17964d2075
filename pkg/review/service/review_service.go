package service

import (
	"context"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/flow"
)

const PageSize = 5

// Sort keys. SortSubmittedAt compares as time, the rest as case-insensitive
// text.
const (
	SortSubmittedAt     = "submitted_at"
	SortSubmissionID    = "submission_id"
	SortTaskID          = "task_id"
	SortTaskDescription = "task_description"
	SortPhase           = "phase"
	SortStatus          = "status"
	SortLength          = "length_completed"
)

// Filter narrows the list; empty fields match everything.
type Filter struct {
	Status entities.ReviewStatus `json:"status" query:"status"`
	TaskID string                `json:"task_id" query:"task_id"`
}

// View is one rendered page of the review table.
type View struct {
	Items      []entities.WorkSubmission `json:"items"`
	Page       int                       `json:"page"`
	TotalPages int                       `json:"total_pages"`
	Total      int                       `json:"total"`
	Filter     Filter                    `json:"filter"`
	SortKey    string                    `json:"sort_key"`
	SortDesc   bool                      `json:"sort_desc"`
	TaskIDs    []string                  `json:"task_ids"`
	Pending    []string                  `json:"pending_actions"`
	Loading    bool                      `json:"loading"`
	Message    *flow.Message             `json:"message,omitempty"`
}

// Review is the admin's approval queue.
type Review interface {
	Load(ctx context.Context) error
	SetFilter(f Filter)
	// SetSort flips the direction when key is already the sort key, and
	// sorts ascending by key otherwise.
	SetSort(key string) error
	SetPage(n int)
	View() View
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	// ExportFiltered exports every submission passing the filter, across
	// all pages.
	ExportFiltered(ctx context.Context) error
	ExportFilteredXLSX(ctx context.Context) error
	TaskIDs() []string
}
