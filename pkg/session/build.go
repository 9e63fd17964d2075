package session

import (
	"time"

	"github.com/Muneeb381a/disiltting/pkg/backend"
	dashServiceImp "github.com/Muneeb381a/disiltting/pkg/dashboard/serviceImp"
	"github.com/Muneeb381a/disiltting/pkg/draft/repository"
	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/geo"
	"github.com/Muneeb381a/disiltting/pkg/prompt"
	reviewServiceImp "github.com/Muneeb381a/disiltting/pkg/review/serviceImp"
	taskFormServiceImp "github.com/Muneeb381a/disiltting/pkg/taskform/serviceImp"
	workFormServiceImp "github.com/Muneeb381a/disiltting/pkg/workform/serviceImp"
)

// Env is what every session shares.
type Env struct {
	Client   backend.Client
	Drafts   repository.DraftStore
	Clock    flow.Clock
	Location *time.Location
	Debounce time.Duration
	// ExportDir, when set, also keeps a copy of every export on disk.
	ExportDir string
}

// Build wires the workflows of a session. Confirmations come from the
// request context and reported positions from the browser.
func Build(env Env) Builder {
	return func(uid string) *Session {
		rec := export.NewRecorder()
		var out export.Exporter = rec
		if env.ExportDir != "" {
			out = export.Multi(rec, export.NewDir(env.ExportDir))
		}
		confirm := prompt.FromContext()
		return &Session{
			UID: uid,
			TaskForm: taskFormServiceImp.New(taskFormServiceImp.Deps{
				FormID:   FormID(uid, TaskForm),
				Client:   env.Client,
				Drafts:   env.Drafts,
				Confirm:  confirm,
				Export:   out,
				Clock:    env.Clock,
				Location: env.Location,
				Debounce: env.Debounce,
			}),
			WorkForm: workFormServiceImp.New(workFormServiceImp.Deps{
				FormID:   FormID(uid, WorkForm),
				Client:   env.Client,
				Geo:      geo.Reported(),
				Drafts:   env.Drafts,
				Confirm:  confirm,
				Export:   out,
				Clock:    env.Clock,
				Location: env.Location,
				Debounce: env.Debounce,
			}),
			Review: reviewServiceImp.New(reviewServiceImp.Deps{
				Client:  env.Client,
				Confirm: confirm,
				Export:  out,
				Clock:   env.Clock,
			}),
			Dashboard: dashServiceImp.New(env.Client, out, env.Clock),
			Exports:   rec,
		}
	}
}
