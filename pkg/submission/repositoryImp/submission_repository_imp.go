package repositoryImp

import (
	"gorm.io/gorm"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/submission/repository"
)

type submissionRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.SubmissionRepository { return &submissionRepo{db} }

func (r *submissionRepo) Create(s *entities.WorkSubmission) error { return r.db.Create(s).Error }

func (r *submissionRepo) FindByID(id string) (*entities.WorkSubmission, error) {
	var s entities.WorkSubmission
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns submissions in the order they were received.
func (r *submissionRepo) List() ([]entities.WorkSubmission, error) {
	var out []entities.WorkSubmission
	if err := r.db.Order("submitted_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) Update(s *entities.WorkSubmission) error { return r.db.Save(s).Error }
