package serviceImp

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/draft"
	"github.com/Muneeb381a/disiltting/pkg/draft/repository"
	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/prompt"
	"github.com/Muneeb381a/disiltting/pkg/taskform/service"
	"github.com/Muneeb381a/disiltting/pkg/validator"
)

const (
	confirmSubmit = "Are you sure you want to assign this task?"
	confirmReset  = "Are you sure you want to reset the form? All unsaved data will be lost."
)

// Deps are the collaborators of one task form. Clock and Location default to
// time.Now and UTC.
type Deps struct {
	FormID   string
	Client   backend.Client
	Drafts   repository.DraftStore
	Confirm  prompt.Confirmer
	Export   export.Exporter
	Clock    flow.Clock
	Location *time.Location
	Debounce time.Duration
}

type taskForm struct {
	d        Deps
	autosave *draft.Debouncer

	mu      sync.Mutex
	form    entities.TaskForm
	errors  validator.Errors
	message *flow.Message
	busy    bool
	dirty   bool
	history []service.Assigned
}

// New builds the workflow and restores the form from its draft when one
// exists.
func New(d Deps) service.TaskForm {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	w := &taskForm{d: d, form: entities.NewTaskForm(), errors: validator.Errors{}}
	var saved entities.TaskForm
	if d.Drafts.Load(d.FormID, &saved) {
		w.form = saved
	}
	w.autosave = draft.NewDebouncer(d.Debounce, w.saveDraft)
	return w
}

func (w *taskForm) saveDraft() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirty {
		return
	}
	if err := w.d.Drafts.Save(w.d.FormID, w.form); err != nil {
		log.Printf("[taskform] save draft %s: %v", w.d.FormID, err)
		return
	}
	w.dirty = false
}

// edit applies fn under the lock and schedules a draft save.
func (w *taskForm) edit(fn func() error) error {
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

func (w *taskForm) State() service.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	errs := make(validator.Errors, len(w.errors))
	for k, v := range w.errors {
		errs[k] = v
	}
	return service.State{
		Form:     w.form,
		Errors:   errs,
		Message:  w.message,
		Busy:     w.busy,
		Progress: progress(w.form),
		History:  append([]service.Assigned{}, w.history...),
	}
}

func (w *taskForm) Set(field, value string) error {
	return w.edit(func() error {
		if !w.form.SetField(field, value) {
			return fmt.Errorf("%w: unknown field %q", flow.ErrInvalid, field)
		}
		delete(w.errors, field)
		return nil
	})
}

func (w *taskForm) Replace(f entities.TaskForm) {
	_ = w.edit(func() error {
		w.form = f
		return nil
	})
}

func (w *taskForm) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return flow.ErrBusy
	}
	w.errors = validator.TaskForm(w.form, flow.Today(w.d.Clock(), w.d.Location))
	if !w.errors.OK() {
		w.message = flow.Failure("Please fix the errors in the form")
		w.mu.Unlock()
		return flow.ErrInvalid
	}
	w.mu.Unlock()

	if !w.d.Confirm.Confirm(ctx, confirmSubmit) {
		return flow.ErrDeclined
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return flow.ErrBusy
	}
	w.busy = true
	w.message = nil
	form := w.form
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	err := w.d.Client.Post(ctx, backend.EndpointTasks, form)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.message = flow.Failure("Error assigning task: " + err.Error())
		log.Printf("[taskform] assign: %v", err)
		return fmt.Errorf("assign task: %w", err)
	}
	w.history = append(w.history, service.Assigned{TaskForm: form, SubmittedAt: w.d.Clock().In(w.d.Location)})
	w.message = flow.Success("Task assigned successfully!")
	w.clearLocked()
	return nil
}

func (w *taskForm) Reset(ctx context.Context) error {
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

// clearLocked empties the form and drops its draft. w.mu must be held.
func (w *taskForm) clearLocked() {
	w.form = entities.NewTaskForm()
	w.errors = validator.Errors{}
	w.dirty = false
	w.autosave.Cancel()
	if err := w.d.Drafts.Clear(w.d.FormID); err != nil {
		log.Printf("[taskform] clear draft %s: %v", w.d.FormID, err)
	}
}

func (w *taskForm) Progress() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return progress(w.form)
}

func progress(f entities.TaskForm) int {
	filled := 0
	for _, name := range entities.RequiredTaskFields {
		if v, _ := f.Field(name); strings.TrimSpace(v) != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(entities.RequiredTaskFields)) * 100))
}

func (w *taskForm) History(status string) []service.Assigned {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]service.Assigned, 0, len(w.history))
	for _, h := range w.history {
		if status == "" || h.TaskStatus == status {
			out = append(out, h)
		}
	}
	return out
}

func (w *taskForm) ExportHistory(ctx context.Context) error {
	w.mu.Lock()
	hist := append([]service.Assigned{}, w.history...)
	now := w.d.Clock()
	w.mu.Unlock()

	b, err := export.JSON(hist)
	if err != nil {
		return fmt.Errorf("export task history: %w", err)
	}
	w.d.Export.ExportAsFile(export.Filename("wasa-task-history", now, "json"), export.MimeJSON, b)
	return nil
}

func (w *taskForm) Close() { w.autosave.Flush() }
