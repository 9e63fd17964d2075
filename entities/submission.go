package entities

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "Pending"
	ReviewApproved ReviewStatus = "Approved"
	ReviewRejected ReviewStatus = "Rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Location is a position fix taken in the field.
type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// Attachment describes one photo attached to a phase. Only metadata is kept;
// the preview handle is what the browser renders.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Preview  string `json:"preview"`
}

// WorkSubmission is one reported phase of field work against a task.
type WorkSubmission struct {
	ID              string       `gorm:"primaryKey" json:"submission_id"`
	TaskID          string       `gorm:"index" json:"task_id"`
	TaskDescription string       `json:"task_description"`
	Phase           Phase        `gorm:"index" json:"phase"`
	Location        Location     `gorm:"serializer:json" json:"location"`
	Images          []Attachment `gorm:"serializer:json" json:"images"`
	LengthCompleted *float64     `json:"length_completed,omitempty"`
	WorkStatus      string       `json:"work_status,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	Remarks         string       `json:"remarks,omitempty"`
	Status          ReviewStatus `gorm:"index" json:"status"`
	SubmittedAt     time.Time    `json:"submitted_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// StatusPatch is the body of a review decision.
type StatusPatch struct {
	Status ReviewStatus `json:"status"`
}
