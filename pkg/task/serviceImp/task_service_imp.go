package serviceImp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/catalog"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/task/repository"
	"github.com/Muneeb381a/disiltting/pkg/task/service"
	"github.com/Muneeb381a/disiltting/pkg/validator"
)

type taskSvc struct {
	r   repository.TaskRepository
	cat *catalog.Catalog
	now flow.Clock
}

func NewTaskService(r repository.TaskRepository, cat *catalog.Catalog) service.TaskService {
	return &taskSvc{r: r, cat: cat, now: time.Now}
}

func (s *taskSvc) Create(f entities.TaskForm) (*entities.Task, error) {
	// "today" is left empty: whether a due date is in the past was decided by
	// the form in the admin's timezone.
	if errs := validator.TaskForm(f, ""); !errs.OK() {
		return nil, fmt.Errorf("%w: %v", flow.ErrInvalid, errs)
	}
	t := FromForm(f)
	t.ID = uuid.NewString()
	t.CreatedAt = s.now()
	if err := s.r.Create(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *taskSvc) Get(id string) (*entities.Task, error) {
	t, err := s.r.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("task %s: %w", id, flow.ErrNotFound)
	}
	return t, err
}

func (s *taskSvc) List() ([]entities.Task, error) { return s.r.List() }

// Assignable lists every task not yet marked Completed.
func (s *taskSvc) Assignable() ([]entities.TaskSummary, error) {
	tasks, err := s.r.List()
	if err != nil {
		return nil, err
	}
	out := make([]entities.TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == "Completed" {
			continue
		}
		out = append(out, Summary(t, s.cat))
	}
	return out, nil
}

// Summary is the task as the work form shows it.
func Summary(t entities.Task, cat *catalog.Catalog) entities.TaskSummary {
	sum := entities.TaskSummary{
		TaskID:      t.ID,
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
		TeamName:    t.TeamID,
		DueDate:     t.DueDate,
	}
	if cat != nil {
		if n := cat.TeamName(t.TeamID); n != "" {
			sum.TeamName = n
		}
	}
	if t.TotalLength != nil {
		sum.TotalLength = *t.TotalLength
	}
	return sum
}

// FromForm converts a validated form into a task. Optional numbers that are
// empty stay nil.
func FromForm(f entities.TaskForm) entities.Task {
	t := entities.Task{
		Description:       strings.TrimSpace(f.Description),
		Category:          f.TaskCategory,
		Type:              f.TaskType,
		Priority:          f.Priority,
		Status:            f.TaskStatus,
		SupervisorID:      f.SupervisorID,
		TeamID:            f.TeamID,
		MachineryID:       f.MachineryID,
		Area:              f.Area,
		UnionCouncil:      f.UnionCouncil,
		NAConstituency:    f.NAConstituency,
		ReferenceID:       strings.TrimSpace(f.TaskReferenceID),
		DueDate:           strings.TrimSpace(f.DueDate),
		Remarks:           f.Remarks,
		TotalLength:       floatPtr(f.TotalLength),
		EstimatedDuration: floatPtr(f.EstimatedDuration),
		BudgetEstimate:    floatPtr(f.BudgetEstimate),
		CrewSize:          intPtr(f.CrewSize),
	}
	if t.Priority == "" {
		t.Priority = entities.PriorityMedium
	}
	if t.MachineryID != "" {
		t.EquipmentQuantity = intPtr(f.EquipmentQuantity)
	}
	return t
}

func floatPtr(s string) *float64 {
	v, ok := validator.Number(s)
	if !ok {
		return nil
	}
	return &v
}

// intPtr keeps only whole counts; Create has already rejected anything else.
func intPtr(s string) *int {
	n, ok := validator.Count(s)
	if !ok {
		return nil
	}
	return &n
}
