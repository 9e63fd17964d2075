package repository

import "github.com/Muneeb381a/disiltting/entities"

type TaskRepository interface {
	Create(t *entities.Task) error
	FindByID(id string) (*entities.Task, error)
	List() ([]entities.Task, error)
}
