package serviceImp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/backend"
	draftRepo "github.com/Muneeb381a/disiltting/pkg/draft/repository"
	"github.com/Muneeb381a/disiltting/pkg/draft/repositoryImp"
	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/geo"
	"github.com/Muneeb381a/disiltting/pkg/prompt"
	"github.com/Muneeb381a/disiltting/pkg/workform/service"
)

const formID = "sup-1:work_form"

var (
	pkt = time.FixedZone("PKT", 5*3600)
	now = time.Date(2026, 3, 10, 4, 15, 0, 0, time.UTC)
)

var tasks = []entities.TaskSummary{
	{TaskID: "T-1", Description: "Desilt sewer line", TeamName: "Sewerage Task Force", TotalLength: 500, DueDate: "2026-04-01"},
	{TaskID: "T-2", Description: "Survey drain", TeamName: "Drainage Crew", DueDate: "2026-04-02"},
}

type harness struct {
	w       service.WorkForm
	client  *backend.Mock
	drafts  draftRepo.DraftStore
	confirm *prompt.Recorder
	files   *export.Recorder
	geo     geo.Provider
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		client:  backend.NewMock(),
		drafts:  repositoryImp.NewMemory(),
		confirm: prompt.NewRecorder(prompt.Always(true)),
		files:   export.NewRecorder(),
		geo:     geo.Fixed(geo.Position{Lat: 31.45041234, Lng: 73.13499876}),
	}
	h.client.Responses[backend.EndpointAssignable] = tasks
	h.w = h.build()
	return h
}

func (h *harness) build() service.WorkForm {
	return New(Deps{
		FormID:   formID,
		Client:   h.client,
		Geo:      geo.Func(func(ctx context.Context) (geo.Position, error) { return h.geo.CurrentPosition(ctx) }),
		Drafts:   h.drafts,
		Confirm:  h.confirm,
		Export:   h.files,
		Clock:    func() time.Time { return now },
		Location: pkt,
	})
}

func jpeg(name string) entities.Attachment {
	return entities.Attachment{Name: name, MimeType: "image/jpeg", Size: 2048}
}

// ready fills phase p so that it passes validation.
func ready(t *testing.T, h *harness, p entities.Phase) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.w.SelectTask(ctx, "T-1"))
	require.NoError(t, h.w.SetPhase(p))
	require.NoError(t, h.w.CaptureLocation(ctx, p))
	require.NoError(t, h.w.AttachImage(p, jpeg(string(p)+".jpg")))
	switch p {
	case entities.PhaseStart:
		require.NoError(t, h.w.SetField(p, "notes", "crew on site"))
	case entities.PhaseProgress:
		require.NoError(t, h.w.SetField(p, "length", "200"))
		require.NoError(t, h.w.SetField(p, "notes", "half way"))
	case entities.PhaseEnd:
		require.NoError(t, h.w.SetField(p, "length", "480"))
		require.NoError(t, h.w.SetField(p, "work_status", entities.WorkPartiallyCompleted))
		require.NoError(t, h.w.SetField(p, "remarks", "blocked by parked cars"))
	}
}

func TestCompletionPercentage(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0.0, h.w.CompletionPercentage())

	require.NoError(t, h.w.SetField(entities.PhaseProgress, "length", "200"))
	assert.Equal(t, 0.0, h.w.CompletionPercentage(), "no task selected")

	require.NoError(t, h.w.SelectTask(context.Background(), "T-1"))
	assert.Equal(t, 40.0, h.w.CompletionPercentage())

	prev := 0.0
	for _, l := range []string{"0", "1", "123", "333.33", "499", "500", "600", "10000"} {
		require.NoError(t, h.w.SetField(entities.PhaseProgress, "length", l))
		got := h.w.CompletionPercentage()
		assert.GreaterOrEqual(t, got, prev, l)
		assert.LessOrEqual(t, got, 100.0, l)
		prev = got
	}
	assert.Equal(t, 100.0, prev)

	require.NoError(t, h.w.SetField(entities.PhaseProgress, "length", "333.33"))
	assert.Equal(t, 66.7, h.w.State().Completion)

	require.NoError(t, h.w.SelectTask(context.Background(), "T-2"))
	assert.Equal(t, 0.0, h.w.CompletionPercentage(), "task without length")
}

func TestSubmit_WithoutTaskIsValidationError(t *testing.T) {
	h := newHarness(t)
	for _, p := range entities.Phases {
		assert.ErrorIs(t, h.w.Submit(context.Background(), p), flow.ErrInvalid)
		st := h.w.State()
		assert.Equal(t, "Please select a task.", st.Errors["task_id"])
		assert.Equal(t, "Please fix the errors in the form.", st.Message.Text)
	}
	assert.Empty(t, h.client.Calls)
	assert.Empty(t, h.confirm.Messages)
}

func TestSubmit_SuccessResetsAndClearsDraft(t *testing.T) {
	h := newHarness(t)
	ready(t, h, entities.PhaseProgress)

	var f map[string]any
	require.True(t, h.drafts.Load(formID, &f))

	require.NoError(t, h.w.Submit(context.Background(), entities.PhaseProgress))
	assert.Equal(t, "Are you sure you want to submit the progress work details?", h.confirm.Last())

	posts := h.client.Calls[len(h.client.Calls)-1]
	assert.Equal(t, "POST", posts.Method)
	assert.Equal(t, "/work-submissions/progress", posts.Endpoint)
	payload := posts.Body.(entities.WorkPayload)
	assert.Equal(t, "T-1", payload.TaskID)
	assert.Equal(t, entities.PhaseProgress, payload.Phase)
	require.NotNil(t, payload.LengthCompleted)
	assert.Equal(t, 200.0, *payload.LengthCompleted)
	assert.Equal(t, "half way", payload.Notes)
	assert.Empty(t, payload.WorkStatus)
	assert.Len(t, payload.Images, 1)
	assert.True(t, payload.SubmittedAt.Equal(now))

	st := h.w.State()
	assert.Equal(t, entities.NewWorkForm(), st.Form)
	assert.Nil(t, st.Task)
	assert.Equal(t, flow.Success("Progress work details submitted successfully!"), st.Message)
	assert.Len(t, st.History, 1)
	assert.False(t, h.drafts.Load(formID, &f))
}

func TestSubmit_EndPayloadCarriesEndFields(t *testing.T) {
	h := newHarness(t)
	ready(t, h, entities.PhaseEnd)
	require.NoError(t, h.w.SetField(entities.PhaseProgress, "notes", "not sent with end"))

	require.NoError(t, h.w.Submit(context.Background(), entities.PhaseEnd))
	payload := h.client.Calls[len(h.client.Calls)-1].Body.(entities.WorkPayload)
	assert.Equal(t, entities.WorkPartiallyCompleted, payload.WorkStatus)
	assert.Equal(t, "blocked by parked cars", payload.Remarks)
	assert.Empty(t, payload.Notes)
	assert.Equal(t, 480.0, *payload.LengthCompleted)
}

func TestSubmit_FailureKeepsEverything(t *testing.T) {
	h := newHarness(t)
	ready(t, h, entities.PhaseStart)
	before := h.w.State().Form
	h.client.SetFail(backend.ErrSimulated)

	err := h.w.Submit(context.Background(), entities.PhaseStart)
	assert.ErrorIs(t, err, backend.ErrSimulated)

	st := h.w.State()
	assert.Equal(t, before, st.Form)
	assert.NotNil(t, st.Task)
	assert.False(t, st.Busy)
	assert.Empty(t, st.History)
	assert.Equal(t, flow.Failure("Error submitting start details: simulated network error"), st.Message)

	var s saved
	require.True(t, h.drafts.Load(formID, &s))
	assert.Equal(t, "crew on site", s.Form.Start.Notes)
}

func TestSubmit_Declined(t *testing.T) {
	h := newHarness(t)
	ready(t, h, entities.PhaseStart)
	h.confirm = prompt.NewRecorder(prompt.Always(false))
	h.w = h.build()

	assert.ErrorIs(t, h.w.Submit(context.Background(), entities.PhaseStart), flow.ErrDeclined)
	assert.Equal(t, 0, h.client.CallCount("POST"))
	assert.Equal(t, "crew on site", h.w.State().Form.Start.Notes)
}

func TestCaptureLocation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.w.CaptureLocation(ctx, entities.PhaseStart))
	loc := h.w.State().Form.Start.Location
	require.NotNil(t, loc)
	assert.Equal(t, 31.450412, loc.Lat)
	assert.Equal(t, 73.134999, loc.Lng)
	assert.True(t, loc.Timestamp.Equal(now))
	assert.Equal(t, pkt, loc.Timestamp.Location())

	h.geo = geo.Failing(geo.ErrDenied)
	assert.Error(t, h.w.CaptureLocation(ctx, entities.PhaseStart))
	st := h.w.State()
	assert.Equal(t, loc, st.Form.Start.Location, "previous fix kept")
	assert.Equal(t, geo.ErrDenied.Error(), st.Errors["start_location"])
	assert.False(t, st.Busy)

	h.geo = geo.Reported()
	assert.ErrorIs(t, h.w.CaptureLocation(ctx, entities.PhaseEnd), geo.ErrUnsupported)
	assert.Equal(t, "Geolocation is not supported by your browser.", h.w.State().Errors["end_location"])

	h.geo = geo.Fixed(geo.Position{Lat: 200})
	assert.Error(t, h.w.CaptureLocation(ctx, entities.PhaseEnd))
	assert.Nil(t, h.w.State().Form.End.Location)
}

func TestCaptureLocation_BusyBlocksSubmitAndReset(t *testing.T) {
	h := newHarness(t)
	ready(t, h, entities.PhaseStart)
	var submitErr, resetErr error
	h.geo = geo.Func(func(ctx context.Context) (geo.Position, error) {
		assert.True(t, h.w.State().Busy)
		submitErr = h.w.Submit(ctx, entities.PhaseStart)
		resetErr = h.w.Reset(ctx)
		return geo.Position{Lat: 31.5, Lng: 73.1}, nil
	})

	require.NoError(t, h.w.CaptureLocation(context.Background(), entities.PhaseStart))
	assert.ErrorIs(t, submitErr, flow.ErrBusy)
	assert.ErrorIs(t, resetErr, flow.ErrBusy)
	assert.False(t, h.w.State().Busy)
	assert.Equal(t, 31.5, h.w.State().Form.Start.Location.Lat)
}

func TestSetLocation_Manual(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.w.SetLocation(entities.PhaseProgress, 31.1234567, 73.7654321))
	loc := h.w.State().Form.Progress.Location
	assert.Equal(t, 31.123457, loc.Lat)
	assert.Equal(t, 73.765432, loc.Lng)

	assert.ErrorIs(t, h.w.SetLocation(entities.PhaseProgress, 95, 0), flow.ErrInvalid)
	assert.Contains(t, h.w.State().Errors, "progress_location")
	assert.Equal(t, 31.123457, h.w.State().Form.Progress.Location.Lat)
}

func TestImages(t *testing.T) {
	h := newHarness(t)
	p := entities.PhaseStart

	assert.ErrorIs(t, h.w.AttachImage(p, entities.Attachment{Name: "a.gif", MimeType: "image/gif", Size: 1}), flow.ErrInvalid)
	assert.Equal(t, "Only JPEG or PNG images are allowed.", h.w.State().Errors["start_images"])

	for i := 0; i < 5; i++ {
		require.NoError(t, h.w.AttachImage(p, jpeg(string(rune('a'+i))+".jpg")))
	}
	assert.NotContains(t, h.w.State().Errors, "start_images")
	assert.ErrorIs(t, h.w.AttachImage(p, jpeg("f.jpg")), flow.ErrInvalid)
	assert.Equal(t, "Maximum 5 images allowed per section.", h.w.State().Errors["start_images"])

	imgs := h.w.State().Form.Start.Images
	require.Len(t, imgs, 5)
	assert.Equal(t, "a.jpg", imgs[0].Name)
	assert.True(t, strings.HasPrefix(imgs[0].Preview, "blob:"))
	assert.NotEqual(t, imgs[0].Preview, imgs[1].Preview)

	require.NoError(t, h.w.RemoveImage(p, 1))
	imgs = h.w.State().Form.Start.Images
	require.Len(t, imgs, 4)
	assert.Equal(t, []string{"a.jpg", "c.jpg", "d.jpg", "e.jpg"}, []string{imgs[0].Name, imgs[1].Name, imgs[2].Name, imgs[3].Name})
	assert.ErrorIs(t, h.w.RemoveImage(p, 4), flow.ErrInvalid)
	assert.Empty(t, h.w.State().Form.Progress.Images)
}

func TestSetFieldAndPhase(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.w.SetField(entities.PhaseStart, "length", "5"), flow.ErrInvalid)
	assert.ErrorIs(t, h.w.SetField(entities.PhaseEnd, "notes", "x"), flow.ErrInvalid)
	assert.ErrorIs(t, h.w.SetField("middle", "notes", "x"), flow.ErrInvalid)
	assert.ErrorIs(t, h.w.SetPhase("middle"), flow.ErrInvalid)

	require.NoError(t, h.w.SetPhase(entities.PhaseEnd))
	require.NoError(t, h.w.SetPhase(entities.PhaseStart))
	assert.Equal(t, entities.PhaseStart, h.w.State().Form.ActivePhase)
}

func TestSelectTask(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.w.SelectTask(ctx, "T-9"), flow.ErrNotFound)
	assert.Equal(t, "Please select a valid task.", h.w.State().Errors["task_id"])

	require.NoError(t, h.w.SelectTask(ctx, "T-1"))
	st := h.w.State()
	assert.Equal(t, "T-1", st.Form.TaskID)
	assert.Equal(t, "Sewerage Task Force", st.Task.TeamName)
	assert.NotContains(t, st.Errors, "task_id")

	h.client.SetFail(backend.ErrSimulated)
	assert.Error(t, h.w.SelectTask(ctx, "T-2"))
	assert.Equal(t, "T-1", h.w.State().Form.TaskID)

	require.NoError(t, h.w.SelectTask(ctx, ""))
	assert.Nil(t, h.w.State().Task)
}

func TestDraft_RoundTrip(t *testing.T) {
	h := newHarness(t)
	ready(t, h, entities.PhaseProgress)
	want := h.w.State()

	again := h.build()
	got := again.State()
	// timestamps come back with an unnamed zone, so compare the encoded form
	wantJSON, err := json.Marshal(want.Form)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got.Form)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
	assert.True(t, want.Form.Progress.Location.Timestamp.Equal(got.Form.Progress.Location.Timestamp))
	assert.Equal(t, want.Task, got.Task)
	assert.Equal(t, 40.0, again.CompletionPercentage())
}

func TestDraft_DefaultsWhenAbsentOrCorrupt(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, entities.NewWorkForm(), h.w.State().Form)

	require.NoError(t, h.drafts.Save(formID, map[string]any{"form": "not an object"}))
	assert.Equal(t, entities.NewWorkForm(), h.build().State().Form)
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	ready(t, h, entities.PhaseStart)

	require.NoError(t, h.w.Reset(context.Background()))
	assert.Equal(t, confirmReset, h.confirm.Last())
	st := h.w.State()
	assert.Equal(t, entities.NewWorkForm(), st.Form)
	assert.Nil(t, st.Task)
	assert.Empty(t, st.Errors)
	var s saved
	assert.False(t, h.drafts.Load(formID, &s))
}

func TestHistoryFilterAndExport(t *testing.T) {
	h := newHarness(t)
	ready(t, h, entities.PhaseStart)
	require.NoError(t, h.w.Submit(context.Background(), entities.PhaseStart))
	ready(t, h, entities.PhaseProgress)
	require.NoError(t, h.w.SelectTask(context.Background(), "T-2"))
	require.NoError(t, h.w.Submit(context.Background(), entities.PhaseProgress))

	assert.Len(t, h.w.History(""), 2)
	assert.Len(t, h.w.History("T-1"), 1)
	assert.Len(t, h.w.History("T-2"), 1)

	require.NoError(t, h.w.ExportHistory(context.Background()))
	f, ok := h.files.Last()
	require.True(t, ok)
	assert.Equal(t, "wasa-work-history-2026-03-10T04-15-00.000Z.json", f.Name)
	var got []entities.WorkPayload
	require.NoError(t, json.Unmarshal(f.Content, &got))
	require.Len(t, got, 2)
	assert.Equal(t, entities.PhaseStart, got[0].Phase)
	assert.Equal(t, "T-2", got[1].TaskID)
}
