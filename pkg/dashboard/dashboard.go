// Package dashboard derives the admin overview from tasks and the work
// reported against them.
package dashboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/export"
)

type KPIs struct {
	TotalSubmissions     int     `json:"total_submissions"`
	PendingApprovals     int     `json:"pending_approvals"`
	CompletedTasks       int     `json:"completed_tasks"`
	TotalLengthCompleted float64 `json:"total_length_completed"` // meters
}

type TaskRow struct {
	TaskID          string  `json:"task_id"`
	Description     string  `json:"description"`
	TotalLength     float64 `json:"total_length"`
	LengthCompleted float64 `json:"length_completed"`
	Status          string  `json:"status"`
	DueDate         string  `json:"due_date"`
}

// Percent is LengthCompleted over TotalLength, clamped to 100 and rounded to
// one decimal. A task without a length is at 0.
func (r TaskRow) Percent() float64 {
	if r.TotalLength <= 0 {
		return 0
	}
	return math.Round(math.Min(100, 100*r.LengthCompleted/r.TotalLength)*10) / 10
}

type Summary struct {
	KPIs  KPIs      `json:"kpis"`
	Tasks []TaskRow `json:"tasks"`
}

// Summarize only counts approved work toward length and completion. A task is
// completed when its latest approved End report says so.
func Summarize(tasks []entities.Task, subs []entities.WorkSubmission) Summary {
	type progress struct {
		length  float64
		endAt   int64
		endDone bool
		hasEnd  bool
	}
	per := map[string]*progress{}
	var k KPIs
	for _, s := range subs {
		k.TotalSubmissions++
		if s.Status == entities.ReviewPending {
			k.PendingApprovals++
		}
		if s.Status != entities.ReviewApproved {
			continue
		}
		p := per[s.TaskID]
		if p == nil {
			p = &progress{}
			per[s.TaskID] = p
		}
		if s.LengthCompleted != nil && *s.LengthCompleted > p.length {
			p.length = *s.LengthCompleted
		}
		if s.Phase == entities.PhaseEnd {
			if at := s.SubmittedAt.UnixNano(); !p.hasEnd || at >= p.endAt {
				p.hasEnd, p.endAt = true, at
				p.endDone = s.WorkStatus == entities.WorkCompleted
			}
		}
	}

	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		row := TaskRow{
			TaskID:      t.ID,
			Description: t.Description,
			Status:      t.Status,
			DueDate:     t.DueDate,
		}
		if t.TotalLength != nil {
			row.TotalLength = *t.TotalLength
		}
		if p := per[t.ID]; p != nil {
			row.LengthCompleted = p.length
			k.TotalLengthCompleted += p.length
			if p.endDone {
				row.Status = entities.WorkCompleted
			}
		}
		if row.Status == entities.WorkCompleted {
			k.CompletedTasks++
		}
		rows = append(rows, row)
	}
	return Summary{KPIs: k, Tasks: rows}
}

// Search keeps rows whose description contains q, ignoring case. An empty q
// keeps everything.
func Search(rows []TaskRow, q string) []TaskRow {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]TaskRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, r)
		}
	}
	return out
}

var CSVHeader = []string{"Task ID", "Description", "Total Length (m)", "Length Completed (m)", "Status", "Due Date"}

func CSV(rows []TaskRow) ([]byte, error) {
	recs := make([][]string, len(rows))
	for i, r := range rows {
		recs[i] = []string{
			r.TaskID,
			r.Description,
			strconv.FormatFloat(r.TotalLength, 'f', -1, 64),
			strconv.FormatFloat(r.LengthCompleted, 'f', -1, 64),
			r.Status,
			r.DueDate,
		}
	}
	return export.CSV(CSVHeader, recs)
}
