package service

import "github.com/Muneeb381a/disiltting/entities"

type SubmissionService interface {
	// Create stores one phase report as Pending.
	Create(p entities.WorkPayload) (*entities.WorkSubmission, error)
	List() ([]entities.WorkSubmission, error)
	// Decide moves a Pending submission to Approved or Rejected.
	Decide(id string, status entities.ReviewStatus) (*entities.WorkSubmission, error)
}
