package service

import (
	"context"

	"github.com/Muneeb381a/disiltting/pkg/dashboard"
	"github.com/Muneeb381a/disiltting/pkg/flow"
)

type View struct {
	KPIs    dashboard.KPIs      `json:"kpis"`
	Tasks   []dashboard.TaskRow `json:"tasks"`
	Query   string              `json:"query"`
	Message *flow.Message       `json:"message,omitempty"`
}

type Dashboard interface {
	Refresh(ctx context.Context) error
	// SetQuery filters task rows by description.
	SetQuery(q string)
	View() View
	// ExportCSV exports the rows matching the query.
	ExportCSV(ctx context.Context) error
}
