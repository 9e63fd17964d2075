package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muneeb381a/disiltting/entities"
)

func TestOpen_MigratesTables(t *testing.T) {
	db := OpenTest(t)
	for _, m := range []any{&entities.Task{}, &entities.WorkSubmission{}, &entities.Draft{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestOpen_SubmissionJSONColumns(t *testing.T) {
	db := OpenTest(t)
	length := 120.5
	in := entities.WorkSubmission{
		ID:              "s1",
		TaskID:          "t1",
		Phase:           entities.PhaseProgress,
		Location:        entities.Location{Lat: 31.4505, Lng: 73.1351},
		Images:          []entities.Attachment{{Name: "a.jpg", MimeType: "image/jpeg", Size: 10}},
		LengthCompleted: &length,
		Status:          entities.ReviewPending,
	}
	require.NoError(t, db.Create(&in).Error)

	var out entities.WorkSubmission
	require.NoError(t, db.First(&out, "id = ?", "s1").Error)
	assert.Equal(t, in.Location.Lat, out.Location.Lat)
	assert.Equal(t, in.Images, out.Images)
	assert.Equal(t, 120.5, *out.LengthCompleted)
}
