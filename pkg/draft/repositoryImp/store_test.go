package repositoryImp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muneeb381a/disiltting/database"
	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/draft/repository"
)

func stores(t *testing.T) map[string]repository.DraftStore {
	return map[string]repository.DraftStore{
		"memory": NewMemory(),
		"sqlite": NewSQLite(database.OpenTest(t)),
	}
}

func sampleWorkForm() entities.WorkForm {
	f := entities.NewWorkForm()
	f.TaskID = "2"
	f.ActivePhase = entities.PhaseProgress
	f.Start.Location = &entities.Location{Lat: 31.397812, Lng: 73.123401, Timestamp: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)}
	f.Start.Images = append(f.Start.Images, entities.Attachment{Name: "before.png", MimeType: "image/png", Size: 2048, Preview: "blob:abc"})
	f.Progress.Length = "120"
	f.Progress.Notes = "Cleared 120m"
	return f
}

func TestDraftStore_RoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			in := sampleWorkForm()
			require.NoError(t, s.Save("work", in))

			out := entities.NewWorkForm()
			require.True(t, s.Load("work", &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestDraftStore_LaterSaveWins(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			first := entities.NewTaskForm()
			first.Description = "first"
			second := entities.NewTaskForm()
			second.Description = "second"
			require.NoError(t, s.Save("task", first))
			require.NoError(t, s.Save("task", second))

			var out entities.TaskForm
			require.True(t, s.Load("task", &out))
			assert.Equal(t, "second", out.Description)
		})
	}
}

func TestDraftStore_MissingAndCleared(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			out := entities.NewTaskForm()
			assert.False(t, s.Load("nothing", &out))
			assert.Equal(t, entities.NewTaskForm(), out)

			require.NoError(t, s.Save("task", entities.TaskForm{Description: "x"}))
			require.NoError(t, s.Clear("task"))
			require.NoError(t, s.Clear("task"))
			assert.False(t, s.Load("task", &out))
		})
	}
}

func TestDraftStore_IncompatibleDraftIsAbsent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save("task", map[string]any{"description": 42}))
			out := entities.NewTaskForm()
			assert.False(t, s.Load("task", &out))
			assert.Equal(t, entities.NewTaskForm(), out, "out must keep its defaults")

			require.NoError(t, s.Save("task", map[string]any{"unknown_field": "x"}))
			assert.False(t, s.Load("task", &out))
		})
	}
}

func TestSQLiteStore_CorruptRow(t *testing.T) {
	db := database.OpenTest(t)
	s := NewSQLite(db)
	require.NoError(t, db.Create(&entities.Draft{FormID: "task", State: []byte(`{"description":`)}).Error)

	out := entities.NewTaskForm()
	assert.False(t, s.Load("task", &out))
}
