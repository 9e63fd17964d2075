package serviceImp

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/submission/repository"
	"github.com/Muneeb381a/disiltting/pkg/submission/service"
	taskRepo "github.com/Muneeb381a/disiltting/pkg/task/repository"
	"github.com/Muneeb381a/disiltting/pkg/validator"
)

type submissionSvc struct {
	r     repository.SubmissionRepository
	tasks taskRepo.TaskRepository
	now   flow.Clock
}

func NewSubmissionService(r repository.SubmissionRepository, tasks taskRepo.TaskRepository) service.SubmissionService {
	return &submissionSvc{r: r, tasks: tasks, now: time.Now}
}

func (s *submissionSvc) Create(p entities.WorkPayload) (*entities.WorkSubmission, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}
	t, err := s.tasks.FindByID(p.TaskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("task %s: %w", p.TaskID, flow.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	sub := entities.WorkSubmission{
		ID:              uuid.NewString(),
		TaskID:          t.ID,
		TaskDescription: t.Description,
		Phase:           p.Phase,
		Location:        *p.Location,
		Images:          p.Images,
		LengthCompleted: p.LengthCompleted,
		WorkStatus:      p.WorkStatus,
		Notes:           p.Notes,
		Remarks:         p.Remarks,
		Status:          entities.ReviewPending,
		SubmittedAt:     p.SubmittedAt,
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now()
	}
	if err := s.r.Create(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *submissionSvc) List() ([]entities.WorkSubmission, error) { return s.r.List() }

func (s *submissionSvc) Decide(id string, status entities.ReviewStatus) (*entities.WorkSubmission, error) {
	if status != entities.ReviewApproved && status != entities.ReviewRejected {
		return nil, fmt.Errorf("%w: status must be Approved or Rejected", flow.ErrInvalid)
	}
	cur, err := s.r.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("submission %s: %w", id, flow.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if cur.Status != entities.ReviewPending {
		return nil, fmt.Errorf("submission %s is %s: %w", id, cur.Status, flow.ErrNotPending)
	}
	cur.Status = status
	return cur, s.r.Update(cur)
}

// checkPayload repeats the work form rules on what actually arrived.
func checkPayload(p entities.WorkPayload) error {
	errs := validator.Errors{}
	if p.TaskID == "" {
		errs["task_id"] = "Please select a task."
	}
	if !slices.Contains(entities.Phases, p.Phase) {
		errs["phase"] = fmt.Sprintf("Unknown phase %q.", p.Phase)
	}
	if p.Location == nil {
		errs["location"] = "Live location is required."
	}
	switch n := len(p.Images); {
	case n == 0:
		errs["images"] = "At least one image is required."
	case n > validator.MaxImages:
		errs["images"] = fmt.Sprintf("Maximum %d images allowed per section.", validator.MaxImages)
	}
	if p.Phase == entities.PhaseProgress || p.Phase == entities.PhaseEnd {
		if p.LengthCompleted == nil || *p.LengthCompleted < 0 {
			errs["length_completed"] = "Total length completed must be a non-negative number."
		}
	}
	if p.Phase == entities.PhaseEnd && !slices.Contains(entities.WorkStatuses, p.WorkStatus) {
		errs["work_status"] = "Work status is required."
	}
	if !errs.OK() {
		return fmt.Errorf("%w: %v", flow.ErrInvalid, errs)
	}
	return nil
}
