package entities

import "time"

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	CategoryWaterSupply = "Water Supply"
	CategorySewerage    = "Sewerage"
	CategoryDrainage    = "Drainage"
)

const DefaultTaskStatus = "Pending"

// Task is an assigned unit of municipal work. Rows are written once by the
// task form and never edited afterwards.
type Task struct {
	ID                string    `gorm:"primaryKey" json:"task_id"`
	Description       string    `json:"description"`
	Category          string    `json:"task_category" gorm:"index"`
	Type              string    `json:"task_type"`
	Priority          string    `json:"priority"`
	Status            string    `json:"task_status" gorm:"index"`
	SupervisorID      string    `json:"supervisor_id" gorm:"index"`
	TeamID            string    `json:"team_id"`
	MachineryID       string    `json:"machinery_id,omitempty"`
	EquipmentQuantity *int      `json:"equipment_quantity,omitempty"`
	Area              string    `json:"area"`
	UnionCouncil      string    `json:"union_council"`
	NAConstituency    string    `json:"na_constituency,omitempty"`
	TotalLength       *float64  `json:"total_length,omitempty"`       // meters
	EstimatedDuration *float64  `json:"estimated_duration,omitempty"` // hours
	BudgetEstimate    *float64  `json:"budget_estimate,omitempty"`
	CrewSize          *int      `json:"crew_size,omitempty"`
	ReferenceID       string    `json:"task_reference_id,omitempty"`
	DueDate           string    `json:"due_date"` // YYYY-MM-DD
	Remarks           string    `json:"remarks,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// TaskSummary is what the work form needs to show about a task.
type TaskSummary struct {
	TaskID      string  `json:"task_id"`
	Description string  `json:"description"`
	Category    string  `json:"task_category"`
	Type        string  `json:"task_type"`
	TeamName    string  `json:"team_name"`
	TotalLength float64 `json:"total_length"`
	DueDate     string  `json:"due_date"`
}

// TaskForm holds the admin task form exactly as typed. Numbers stay strings
// until validation so that bad input can be reported per field.
type TaskForm struct {
	Description       string `json:"description"`
	Priority          string `json:"priority"`
	SupervisorID      string `json:"supervisor_id"`
	TeamID            string `json:"team_id"`
	MachineryID       string `json:"machinery_id"`
	EquipmentQuantity string `json:"equipment_quantity"`
	Area              string `json:"area"`
	UnionCouncil      string `json:"union_council"`
	NAConstituency    string `json:"na_constituency"`
	TotalLength       string `json:"total_length"`
	TaskType          string `json:"task_type"`
	TaskStatus        string `json:"task_status"`
	DueDate           string `json:"due_date"`
	EstimatedDuration string `json:"estimated_duration"`
	Remarks           string `json:"remarks"`
	TaskCategory      string `json:"task_category"`
	BudgetEstimate    string `json:"budget_estimate"`
	CrewSize          string `json:"crew_size"`
	TaskReferenceID   string `json:"task_reference_id"`
}

// NewTaskForm returns the blank form.
func NewTaskForm() TaskForm {
	return TaskForm{Priority: PriorityMedium, TaskStatus: DefaultTaskStatus}
}

// Field returns the value of the form field with the given json name.
func (f *TaskForm) Field(name string) (string, bool) {
	p := f.fieldPtr(name)
	if p == nil {
		return "", false
	}
	return *p, true
}

// SetField sets the form field with the given json name. It reports false
// for unknown names.
func (f *TaskForm) SetField(name, value string) bool {
	p := f.fieldPtr(name)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (f *TaskForm) fieldPtr(name string) *string {
	switch name {
	case "description":
		return &f.Description
	case "priority":
		return &f.Priority
	case "supervisor_id":
		return &f.SupervisorID
	case "team_id":
		return &f.TeamID
	case "machinery_id":
		return &f.MachineryID
	case "equipment_quantity":
		return &f.EquipmentQuantity
	case "area":
		return &f.Area
	case "union_council":
		return &f.UnionCouncil
	case "na_constituency":
		return &f.NAConstituency
	case "total_length":
		return &f.TotalLength
	case "task_type":
		return &f.TaskType
	case "task_status":
		return &f.TaskStatus
	case "due_date":
		return &f.DueDate
	case "estimated_duration":
		return &f.EstimatedDuration
	case "remarks":
		return &f.Remarks
	case "task_category":
		return &f.TaskCategory
	case "budget_estimate":
		return &f.BudgetEstimate
	case "crew_size":
		return &f.CrewSize
	case "task_reference_id":
		return &f.TaskReferenceID
	}
	return nil
}

// RequiredTaskFields drives the form fill indicator.
var RequiredTaskFields = []string{
	"description",
	"supervisor_id",
	"team_id",
	"area",
	"union_council",
	"task_type",
	"task_status",
	"due_date",
	"task_category",
}
