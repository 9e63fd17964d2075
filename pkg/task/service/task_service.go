package service

import "github.com/Muneeb381a/disiltting/entities"

type TaskService interface {
	Create(f entities.TaskForm) (*entities.Task, error)
	Get(id string) (*entities.Task, error)
	List() ([]entities.Task, error)
	Assignable() ([]entities.TaskSummary, error)
}
