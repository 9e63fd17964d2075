// Package backend is how the workflows reach the service that owns tasks and
// work submissions. Endpoints are paths relative to the /api/v1 root.
package backend

import (
	"context"

	"github.com/Muneeb381a/disiltting/entities"
)

const (
	EndpointTasks       = "/tasks"
	EndpointAssignable  = "/tasks/assignable"
	EndpointSubmissions = "/submissions"
	EndpointDashboard   = "/dashboard"
)

// WorkEndpoint is where a report for phase p is posted.
func WorkEndpoint(p entities.Phase) string { return "/work-submissions/" + string(p) }

// Client is the Submission Client. Any error is reported to the user and the
// action may be retried; none of them is fatal.
type Client interface {
	Post(ctx context.Context, endpoint string, payload any) error
	// Put applies patch to the submission with the given id.
	Put(ctx context.Context, id string, patch any) error
	// Get decodes the collection at endpoint into out.
	Get(ctx context.Context, endpoint string, out any) error
}

// TaskLookup feeds the work form's task picker.
type TaskLookup interface {
	AssignableTasks(ctx context.Context) ([]entities.TaskSummary, error)
}

type lookup struct{ c Client }

// NewLookup answers task lookups through c.
func NewLookup(c Client) TaskLookup { return lookup{c} }

func (l lookup) AssignableTasks(ctx context.Context) ([]entities.TaskSummary, error) {
	var out []entities.TaskSummary
	if err := l.c.Get(ctx, EndpointAssignable, &out); err != nil {
		return nil, err
	}
	return out, nil
}
