package repositoryImp

import (
	"gorm.io/gorm"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/task/repository"
)

type taskRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TaskRepository { return &taskRepo{db} }

func (r *taskRepo) Create(t *entities.Task) error { return r.db.Create(t).Error }

func (r *taskRepo) FindByID(id string) (*entities.Task, error) {
	var t entities.Task
	if err := r.db.Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) List() ([]entities.Task, error) {
	var out []entities.Task
	if err := r.db.Order("due_date ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
