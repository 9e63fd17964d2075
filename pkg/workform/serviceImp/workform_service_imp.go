package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/draft"
	"github.com/Muneeb381a/disiltting/pkg/draft/repository"
	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/geo"
	"github.com/Muneeb381a/disiltting/pkg/prompt"
	"github.com/Muneeb381a/disiltting/pkg/validator"
	"github.com/Muneeb381a/disiltting/pkg/workform/service"
)

const confirmReset = "Are you sure you want to reset the form? All unsaved data will be lost."

// Deps are the collaborators of one work form. Clock and Location default to
// time.Now and UTC.
type Deps struct {
	FormID   string
	Client   backend.Client
	Tasks    backend.TaskLookup
	Geo      geo.Provider
	Drafts   repository.DraftStore
	Confirm  prompt.Confirmer
	Export   export.Exporter
	Clock    flow.Clock
	Location *time.Location
	Debounce time.Duration
}

// saved is what goes into the draft. The task summary rides along so that a
// restored form can show progress without another lookup.
type saved struct {
	Form entities.WorkForm     `json:"form"`
	Task *entities.TaskSummary `json:"task,omitempty"`
}

type workForm struct {
	d        Deps
	autosave *draft.Debouncer

	mu      sync.Mutex
	form    entities.WorkForm
	task    *entities.TaskSummary
	errors  validator.Errors
	message *flow.Message
	busy    bool
	dirty   bool
	history []entities.WorkPayload
}

func New(d Deps) service.WorkForm {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Tasks == nil {
		d.Tasks = backend.NewLookup(d.Client)
	}
	w := &workForm{d: d, form: entities.NewWorkForm(), errors: validator.Errors{}}
	var s saved
	if d.Drafts.Load(d.FormID, &s) {
		w.form, w.task = s.Form, s.Task
		normalize(&w.form)
	}
	w.autosave = draft.NewDebouncer(d.Debounce, w.saveDraft)
	return w
}

// normalize repairs what an old or hand-edited draft may lack.
func normalize(f *entities.WorkForm) {
	if _, ok := entities.ParsePhase(string(f.ActivePhase)); !ok {
		f.ActivePhase = entities.PhaseStart
	}
	for _, p := range entities.Phases {
		if ph := f.Fields(p); ph.Images == nil {
			ph.Images = []entities.Attachment{}
		}
	}
}

func (w *workForm) saveDraft() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirty {
		return
	}
	if err := w.d.Drafts.Save(w.d.FormID, saved{Form: w.form, Task: w.task}); err != nil {
		log.Printf("[workform] save draft %s: %v", w.d.FormID, err)
		return
	}
	w.dirty = false
}

func (w *workForm) edit(fn func() error) error {
	w.mu.Lock()
	err := fn()
	if err == nil {
		w.dirty = true
	}
	w.mu.Unlock()
	if err == nil {
		w.autosave.Trigger()
	}
	return err
}

// phase returns the fields of p, or an error naming the bad phase.
func (w *workForm) phase(p entities.Phase) (*entities.PhaseFields, error) {
	f := w.form.Fields(p)
	if f == nil {
		return nil, fmt.Errorf("%w: unknown phase %q", flow.ErrInvalid, p)
	}
	return f, nil
}

func (w *workForm) begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return flow.ErrBusy
	}
	w.busy = true
	return nil
}

func (w *workForm) end() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

func (w *workForm) State() service.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	form := w.form
	for _, p := range entities.Phases {
		ph := form.Fields(p)
		ph.Images = slices.Clone(ph.Images)
	}
	errs := make(validator.Errors, len(w.errors))
	for k, v := range w.errors {
		errs[k] = v
	}
	var task *entities.TaskSummary
	if w.task != nil {
		t := *w.task
		task = &t
	}
	return service.State{
		Form:       form,
		Task:       task,
		Errors:     errs,
		Message:    w.message,
		Busy:       w.busy,
		Completion: w.completionLocked(),
		History:    append([]entities.WorkPayload{}, w.history...),
	}
}

func (w *workForm) Tasks(ctx context.Context) ([]entities.TaskSummary, error) {
	return w.d.Tasks.AssignableTasks(ctx)
}

// SelectTask does not schedule a draft save on its own; the selection is
// saved with the next edit.
func (w *workForm) SelectTask(ctx context.Context, taskID string) error {
	if taskID == "" {
		w.mu.Lock()
		w.form.TaskID, w.task = "", nil
		w.mu.Unlock()
		return nil
	}
	tasks, err := w.d.Tasks.AssignableTasks(ctx)
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.message = flow.Failure("Failed to load tasks: " + err.Error())
		return fmt.Errorf("load tasks: %w", err)
	}
	for _, t := range tasks {
		if t.TaskID == taskID {
			w.form.TaskID = t.TaskID
			w.task = &t
			delete(w.errors, "task_id")
			return nil
		}
	}
	w.errors["task_id"] = "Please select a valid task."
	return fmt.Errorf("task %s: %w", taskID, flow.ErrNotFound)
}

// SetPhase moves freely between phases; nothing forces Start before End.
func (w *workForm) SetPhase(p entities.Phase) error {
	return w.edit(func() error {
		if _, err := w.phase(p); err != nil {
			return err
		}
		w.form.ActivePhase = p
		return nil
	})
}

func (w *workForm) SetField(p entities.Phase, name, value string) error {
	return w.edit(func() error {
		f, err := w.phase(p)
		if err != nil {
			return err
		}
		switch {
		case name == "notes" && p != entities.PhaseEnd:
			f.Notes = value
		case name == "length" && p != entities.PhaseStart:
			f.Length = value
			delete(w.errors, string(p)+"_length")
		case name == "work_status" && p == entities.PhaseEnd:
			f.WorkStatus = value
			delete(w.errors, "end_status")
		case name == "remarks" && p == entities.PhaseEnd:
			f.Remarks = value
		default:
			return fmt.Errorf("%w: %s has no field %q", flow.ErrInvalid, p, name)
		}
		return nil
	})
}

func (w *workForm) AttachImage(p entities.Phase, a entities.Attachment) error {
	return w.edit(func() error {
		f, err := w.phase(p)
		if err != nil {
			return err
		}
		key := string(p) + "_images"
		if msg := validator.Image(a.MimeType, a.Size, len(f.Images)); msg != "" {
			w.errors[key] = msg
			return fmt.Errorf("%w: %s", flow.ErrInvalid, msg)
		}
		a.Preview = "blob:" + uuid.NewString()
		f.Images = append(f.Images, a)
		delete(w.errors, key)
		return nil
	})
}

func (w *workForm) RemoveImage(p entities.Phase, index int) error {
	return w.edit(func() error {
		f, err := w.phase(p)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(f.Images) {
			return fmt.Errorf("%w: no image %d in %s", flow.ErrInvalid, index, p)
		}
		f.Images = slices.Delete(f.Images, index, index+1)
		return nil
	})
}

func (w *workForm) CaptureLocation(ctx context.Context, p entities.Phase) error {
	w.mu.Lock()
	_, err := w.phase(p)
	w.mu.Unlock()
	if err != nil {
		return err
	}
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	pos, err := w.d.Geo.CurrentPosition(ctx)
	if err == nil && !pos.Valid() {
		err = fmt.Errorf("bad fix %v,%v", pos.Lat, pos.Lng)
	}
	key := string(p) + "_location"
	if err != nil {
		msg := geo.ErrDenied.Error()
		if errors.Is(err, geo.ErrUnsupported) {
			msg = geo.ErrUnsupported.Error()
		}
		w.mu.Lock()
		w.errors[key] = msg
		w.mu.Unlock()
		log.Printf("[workform] %s location: %v", p, err)
		return fmt.Errorf("capture %s location: %w", p, err)
	}
	return w.edit(func() error {
		w.form.Fields(p).Location = &entities.Location{
			Lat:       geo.Round6(pos.Lat),
			Lng:       geo.Round6(pos.Lng),
			Timestamp: w.d.Clock().In(w.d.Location),
		}
		delete(w.errors, key)
		return nil
	})
}

// SetLocation takes coordinates typed in by hand.
func (w *workForm) SetLocation(p entities.Phase, lat, lng float64) error {
	pos := geo.Position{Lat: lat, Lng: lng}
	return w.edit(func() error {
		f, err := w.phase(p)
		if err != nil {
			return err
		}
		key := string(p) + "_location"
		if !pos.Valid() {
			w.errors[key] = "Please enter a valid latitude and longitude."
			return fmt.Errorf("%w: coordinates out of range", flow.ErrInvalid)
		}
		f.Location = &entities.Location{
			Lat:       geo.Round6(lat),
			Lng:       geo.Round6(lng),
			Timestamp: w.d.Clock().In(w.d.Location),
		}
		delete(w.errors, key)
		return nil
	})
}

func (w *workForm) Submit(ctx context.Context, p entities.Phase) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return flow.ErrBusy
	}
	w.errors = validator.WorkForm(w.form, p)
	if !w.errors.OK() {
		w.message = flow.Failure("Please fix the errors in the form.")
		w.mu.Unlock()
		return flow.ErrInvalid
	}
	w.mu.Unlock()

	if !w.d.Confirm.Confirm(ctx, fmt.Sprintf("Are you sure you want to submit the %s work details?", p)) {
		return flow.ErrDeclined
	}
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	w.mu.Lock()
	w.message = nil
	payload := w.payloadLocked(p)
	w.mu.Unlock()

	err := w.d.Client.Post(ctx, backend.WorkEndpoint(p), payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.message = flow.Failure(fmt.Sprintf("Error submitting %s details: %v", p, err))
		log.Printf("[workform] submit %s for task %s: %v", p, payload.TaskID, err)
		return fmt.Errorf("submit %s: %w", p, err)
	}
	w.history = append(w.history, payload)
	w.message = flow.Success(p.Title() + " work details submitted successfully!")
	w.clearLocked()
	return nil
}

// payloadLocked carries only the fields phase p owns.
func (w *workForm) payloadLocked(p entities.Phase) entities.WorkPayload {
	f := w.form.Fields(p)
	out := entities.WorkPayload{
		TaskID:      w.form.TaskID,
		Phase:       p,
		Images:      slices.Clone(f.Images),
		SubmittedAt: w.d.Clock().In(w.d.Location),
	}
	if f.Location != nil {
		loc := *f.Location
		out.Location = &loc
	}
	if p != entities.PhaseEnd {
		out.Notes = f.Notes
	}
	if p != entities.PhaseStart {
		if v, ok := validator.Number(f.Length); ok {
			out.LengthCompleted = &v
		}
	}
	if p == entities.PhaseEnd {
		out.WorkStatus = f.WorkStatus
		out.Remarks = f.Remarks
	}
	return out
}

func (w *workForm) Reset(ctx context.Context) error {
	w.mu.Lock()
	busy := w.busy
	w.mu.Unlock()
	if busy {
		return flow.ErrBusy
	}
	if !w.d.Confirm.Confirm(ctx, confirmReset) {
		return flow.ErrDeclined
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return flow.ErrBusy
	}
	w.message = nil
	w.clearLocked()
	return nil
}

func (w *workForm) clearLocked() {
	w.form = entities.NewWorkForm()
	w.task = nil
	w.errors = validator.Errors{}
	w.dirty = false
	w.autosave.Cancel()
	if err := w.d.Drafts.Clear(w.d.FormID); err != nil {
		log.Printf("[workform] clear draft %s: %v", w.d.FormID, err)
	}
}

func (w *workForm) CompletionPercentage() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.completionLocked()
}

// completionLocked is progress length over the task's total length, clamped
// to [0, 100] and rounded to one decimal.
func (w *workForm) completionLocked() float64 {
	if w.task == nil || w.task.TotalLength <= 0 {
		return 0
	}
	done, ok := validator.Number(w.form.Progress.Length)
	if !ok {
		return 0
	}
	pct := math.Max(0, math.Min(100, 100*done/w.task.TotalLength))
	return math.Round(pct*10) / 10
}

func (w *workForm) History(taskID string) []entities.WorkPayload {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]entities.WorkPayload, 0, len(w.history))
	for _, h := range w.history {
		if taskID == "" || h.TaskID == taskID {
			out = append(out, h)
		}
	}
	return out
}

func (w *workForm) ExportHistory(ctx context.Context) error {
	w.mu.Lock()
	hist := append([]entities.WorkPayload{}, w.history...)
	now := w.d.Clock()
	w.mu.Unlock()

	b, err := export.JSON(hist)
	if err != nil {
		return fmt.Errorf("export work history: %w", err)
	}
	w.d.Export.ExportAsFile(export.Filename("wasa-work-history", now, "json"), export.MimeJSON, b)
	return nil
}

func (w *workForm) Close() { w.autosave.Flush() }
