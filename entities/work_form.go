package entities

import (
	"strings"
	"time"
)

// Phase is a stage of reporting field work against a task.
type Phase string

const (
	PhaseStart    Phase = "start"
	PhaseProgress Phase = "progress"
	PhaseEnd      Phase = "end"
)

// Phases lists the phases in reporting order.
var Phases = []Phase{PhaseStart, PhaseProgress, PhaseEnd}

// ParsePhase accepts "start", "Start", "PROGRESS" and so on.
func ParsePhase(s string) (Phase, bool) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PhaseStart, PhaseProgress, PhaseEnd:
		return p, true
	}
	return "", false
}

// Title is the capitalised phase name used in messages.
func (p Phase) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

const (
	WorkCompleted          = "Completed"
	WorkPartiallyCompleted = "Partially Completed"
	WorkPaused             = "Paused"
)

// WorkStatuses is the fixed set an End report may carry.
var WorkStatuses = []string{WorkCompleted, WorkPartiallyCompleted, WorkPaused}

// PhaseFields is the part of the work form owned by one phase. Start uses
// Notes; Progress uses Length and Notes; End uses Length, WorkStatus and Remarks.
type PhaseFields struct {
	Location   *Location    `json:"location"`
	Images     []Attachment `json:"images"`
	Notes      string       `json:"notes"`
	Length     string       `json:"length"`
	WorkStatus string       `json:"work_status"`
	Remarks    string       `json:"remarks"`
}

// WorkForm is the supervisor's in-flight report.
type WorkForm struct {
	TaskID      string      `json:"task_id"`
	ActivePhase Phase       `json:"active_phase"`
	Start       PhaseFields `json:"start"`
	Progress    PhaseFields `json:"progress"`
	End         PhaseFields `json:"end"`
}

// NewWorkForm returns the blank form, positioned on the Start phase.
func NewWorkForm() WorkForm {
	return WorkForm{
		ActivePhase: PhaseStart,
		Start:       PhaseFields{Images: []Attachment{}},
		Progress:    PhaseFields{Images: []Attachment{}},
		End:         PhaseFields{Images: []Attachment{}},
	}
}

// Fields returns the fields of phase p, or nil for an unknown phase.
func (f *WorkForm) Fields(p Phase) *PhaseFields {
	switch p {
	case PhaseStart:
		return &f.Start
	case PhaseProgress:
		return &f.Progress
	case PhaseEnd:
		return &f.End
	}
	return nil
}

// WorkPayload is what gets posted for one phase.
type WorkPayload struct {
	TaskID          string       `json:"task_id"`
	Phase           Phase        `json:"phase"`
	Location        *Location    `json:"location"`
	Images          []Attachment `json:"images"`
	Notes           string       `json:"notes,omitempty"`
	LengthCompleted *float64     `json:"length_completed,omitempty"`
	WorkStatus      string       `json:"work_status,omitempty"`
	Remarks         string       `json:"remarks,omitempty"`
	SubmittedAt     time.Time    `json:"submitted_at"`
}
