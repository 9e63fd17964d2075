package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/dashboard"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	subService "github.com/Muneeb381a/disiltting/pkg/submission/service"
	taskService "github.com/Muneeb381a/disiltting/pkg/task/service"
)

type storeClient struct {
	tasks taskService.TaskService
	subs  subService.SubmissionService
}

// NewStore serves the workflows from the services in this process. Values
// pass through JSON both ways so callers see exactly what NewHTTP would give
// them.
func NewStore(tasks taskService.TaskService, subs subService.SubmissionService) Client {
	return &storeClient{tasks: tasks, subs: subs}
}

func (c *storeClient) Post(ctx context.Context, endpoint string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if endpoint == EndpointTasks {
		var f entities.TaskForm
		if err := convert(payload, &f); err != nil {
			return err
		}
		_, err := c.tasks.Create(f)
		return err
	}
	if rest, ok := strings.CutPrefix(endpoint, "/work-submissions/"); ok {
		phase, ok := entities.ParsePhase(rest)
		if !ok {
			return fmt.Errorf("post %s: %w", endpoint, flow.ErrNotFound)
		}
		var p entities.WorkPayload
		if err := convert(payload, &p); err != nil {
			return err
		}
		p.Phase = phase
		_, err := c.subs.Create(p)
		return err
	}
	return fmt.Errorf("post %s: %w", endpoint, flow.ErrNotFound)
}

func (c *storeClient) Put(ctx context.Context, id string, patch any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var p entities.StatusPatch
	if err := convert(patch, &p); err != nil {
		return err
	}
	_, err := c.subs.Decide(id, p.Status)
	return err
}

func (c *storeClient) Get(ctx context.Context, endpoint string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var (
		v   any
		err error
	)
	switch endpoint {
	case EndpointTasks:
		v, err = c.tasks.List()
	case EndpointAssignable:
		v, err = c.tasks.Assignable()
	case EndpointSubmissions:
		v, err = c.subs.List()
	case EndpointDashboard:
		v, err = c.dashboard()
	default:
		return fmt.Errorf("get %s: %w", endpoint, flow.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return convert(v, out)
}

func (c *storeClient) dashboard() (dashboard.Summary, error) {
	tasks, err := c.tasks.List()
	if err != nil {
		return dashboard.Summary{}, err
	}
	subs, err := c.subs.List()
	if err != nil {
		return dashboard.Summary{}, err
	}
	return dashboard.Summarize(tasks, subs), nil
}

func convert(in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
