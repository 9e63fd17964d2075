package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muneeb381a/disiltting/database"
	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/catalog"
	dashCtrl "github.com/Muneeb381a/disiltting/pkg/dashboard/controllerImp"
	"github.com/Muneeb381a/disiltting/pkg/dashboard"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	subCtrl "github.com/Muneeb381a/disiltting/pkg/submission/controllerImp"
	subRepo "github.com/Muneeb381a/disiltting/pkg/submission/repositoryImp"
	subSvc "github.com/Muneeb381a/disiltting/pkg/submission/serviceImp"
	taskCtrl "github.com/Muneeb381a/disiltting/pkg/task/controllerImp"
	taskRepo "github.com/Muneeb381a/disiltting/pkg/task/repositoryImp"
	taskSvc "github.com/Muneeb381a/disiltting/pkg/task/serviceImp"
)

// clients returns an HTTP client talking to a real server and a store client
// over a second database, so every test runs against both.
func clients(t *testing.T) map[string]backend.Client {
	t.Helper()

	db := database.OpenTest(t)
	tr := taskRepo.New(db)
	ts := taskSvc.NewTaskService(tr, catalog.Default())
	ss := subSvc.NewSubmissionService(subRepo.New(db), tr)
	e := echo.New()
	taskCtrl.New(ts).Register(e)
	subCtrl.New(ss).Register(e)
	dashCtrl.NewSummaryCtrl(ts, ss).Register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	db2 := database.OpenTest(t)
	tr2 := taskRepo.New(db2)
	ts2 := taskSvc.NewTaskService(tr2, catalog.Default())
	ss2 := subSvc.NewSubmissionService(subRepo.New(db2), tr2)

	return map[string]backend.Client{
		"http":  backend.NewHTTP(srv.URL+"/api/v1/", 5*time.Second),
		"store": backend.NewStore(ts2, ss2),
	}
}

func taskForm() entities.TaskForm {
	f := entities.NewTaskForm()
	f.Description = "Clean sewer line in Peoples Colony"
	f.SupervisorID = "3"
	f.TeamID = "2"
	f.Area = "Residential"
	f.UnionCouncil = "UC-2 Peoples Colony"
	f.TaskType = "Sewer Cleaning"
	f.DueDate = "2030-01-01"
	f.TaskCategory = entities.CategorySewerage
	f.TotalLength = "300"
	return f
}

func TestClient_RoundTrip(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, c.Post(ctx, backend.EndpointTasks, taskForm()))

			tasks, err := backend.NewLookup(c).AssignableTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, "Sewerage Task Force", tasks[0].TeamName)
			assert.Equal(t, 300.0, tasks[0].TotalLength)

			length := 120.0
			require.NoError(t, c.Post(ctx, backend.WorkEndpoint(entities.PhaseProgress), entities.WorkPayload{
				TaskID:          tasks[0].TaskID,
				Location:        &entities.Location{Lat: 31.39, Lng: 73.12, Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
				Images:          []entities.Attachment{{Name: "p.png", MimeType: "image/png", Size: 99}},
				LengthCompleted: &length,
				Notes:           "half done",
				SubmittedAt:     time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC),
			}))

			var subs []entities.WorkSubmission
			require.NoError(t, c.Get(ctx, backend.EndpointSubmissions, &subs))
			require.Len(t, subs, 1)
			assert.Equal(t, entities.PhaseProgress, subs[0].Phase)
			assert.Equal(t, entities.ReviewPending, subs[0].Status)
			assert.Equal(t, "Clean sewer line in Peoples Colony", subs[0].TaskDescription)

			require.NoError(t, c.Put(ctx, subs[0].ID, entities.StatusPatch{Status: entities.ReviewApproved}))
			err = c.Put(ctx, subs[0].ID, entities.StatusPatch{Status: entities.ReviewRejected})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not pending")

			var sum dashboard.Summary
			require.NoError(t, c.Get(ctx, backend.EndpointDashboard, &sum))
			assert.Equal(t, 1, sum.KPIs.TotalSubmissions)
			assert.Equal(t, 0, sum.KPIs.PendingApprovals)
			assert.Equal(t, 120.0, sum.KPIs.TotalLengthCompleted)
			assert.Equal(t, 40.0, sum.Tasks[0].Percent())
		})
	}
}

func TestClient_ErrorsCarryServerMessage(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			bad := taskForm()
			bad.CrewSize = "0"
			err := c.Post(ctx, backend.EndpointTasks, bad)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Crew size must be a positive number")

			err = c.Post(ctx, backend.WorkEndpoint(entities.PhaseStart), entities.WorkPayload{TaskID: "ghost"})
			require.Error(t, err)

			err = c.Put(ctx, "ghost", entities.StatusPatch{Status: entities.ReviewApproved})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not found")
		})
	}
}

func TestHTTP_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := backend.NewHTTP(srv.URL, time.Second).Get(context.Background(), backend.EndpointSubmissions, &[]entities.WorkSubmission{})
	var se *backend.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "backend returned 502 Bad Gateway", err.Error())
}

func TestStore_UnknownEndpoint(t *testing.T) {
	c := clients(t)["store"]
	assert.ErrorIs(t, c.Get(context.Background(), "/nowhere", &struct{}{}), flow.ErrNotFound)
	assert.ErrorIs(t, c.Post(context.Background(), "/work-submissions/middle", struct{}{}), flow.ErrNotFound)
}

func TestMock(t *testing.T) {
	m := backend.NewMock()
	ctx := context.Background()
	require.NoError(t, m.Post(ctx, "/tasks", 1))
	m.SetFail(backend.ErrSimulated)
	assert.ErrorIs(t, m.Put(ctx, "7", nil), backend.ErrSimulated)
	assert.Error(t, m.Get(ctx, "/submissions", &[]int{}))
	m.SetFail(nil)
	assert.Error(t, m.Get(ctx, "/submissions", &[]int{}), "no canned response")

	m.Responses["/submissions"] = []int{1, 2}
	var got []int
	require.NoError(t, m.Get(ctx, "/submissions", &got))
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 1, m.CallCount("POST"))
	assert.Equal(t, "/submissions/7", m.Calls[1].Endpoint)
}
