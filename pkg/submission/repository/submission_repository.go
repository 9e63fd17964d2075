package repository

import "github.com/Muneeb381a/disiltting/entities"

type SubmissionRepository interface {
	Create(s *entities.WorkSubmission) error
	FindByID(id string) (*entities.WorkSubmission, error)
	List() ([]entities.WorkSubmission, error)
	Update(s *entities.WorkSubmission) error
}
