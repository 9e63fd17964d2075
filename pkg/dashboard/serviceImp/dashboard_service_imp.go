package serviceImp

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/dashboard"
	"github.com/Muneeb381a/disiltting/pkg/dashboard/service"
	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/flow"
)

type dash struct {
	client backend.Client
	out    export.Exporter
	now    flow.Clock

	mu      sync.Mutex
	summary dashboard.Summary
	query   string
	message *flow.Message
}

func New(c backend.Client, out export.Exporter, now flow.Clock) service.Dashboard {
	if now == nil {
		now = time.Now
	}
	return &dash{client: c, out: out, now: now}
}

func (d *dash) Refresh(ctx context.Context) error {
	var s dashboard.Summary
	err := d.client.Get(ctx, backend.EndpointDashboard, &s)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.message = flow.Failure("Failed to fetch dashboard data. Please try again.")
		log.Printf("[dashboard] refresh: %v", err)
		return fmt.Errorf("refresh dashboard: %w", err)
	}
	d.summary = s
	d.message = nil
	return nil
}

func (d *dash) SetQuery(q string) {
	d.mu.Lock()
	d.query = q
	d.mu.Unlock()
}

func (d *dash) View() service.View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return service.View{
		KPIs:    d.summary.KPIs,
		Tasks:   append([]dashboard.TaskRow{}, dashboard.Search(d.summary.Tasks, d.query)...),
		Query:   d.query,
		Message: d.message,
	}
}

func (d *dash) ExportCSV(ctx context.Context) error {
	d.mu.Lock()
	rows := dashboard.Search(d.summary.Tasks, d.query)
	d.mu.Unlock()

	b, err := dashboard.CSV(rows)
	if err != nil {
		return fmt.Errorf("export tasks: %w", err)
	}
	d.out.ExportAsFile(export.Filename("wasa-tasks", d.now(), "csv"), export.MimeCSV, b)
	return nil
}
