package serviceImp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/dashboard"
	"github.com/Muneeb381a/disiltting/pkg/export"
)

func TestDashboard(t *testing.T) {
	client := backend.NewMock()
	client.Responses[backend.EndpointDashboard] = dashboard.Summary{
		KPIs: dashboard.KPIs{TotalSubmissions: 3, PendingApprovals: 1, CompletedTasks: 1, TotalLengthCompleted: 700},
		Tasks: []dashboard.TaskRow{
			{TaskID: "1", Description: "Repair pipeline leak", TotalLength: 500, LengthCompleted: 400, Status: "In Progress", DueDate: "2026-04-01"},
			{TaskID: "2", Description: "Clean sewer line", TotalLength: 300, LengthCompleted: 300, Status: "Completed", DueDate: "2026-04-05"},
		},
	}
	files := export.NewRecorder()
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d := New(client, files, func() time.Time { return at })

	require.NoError(t, d.Refresh(context.Background()))
	v := d.View()
	assert.Equal(t, 700.0, v.KPIs.TotalLengthCompleted)
	assert.Len(t, v.Tasks, 2)

	d.SetQuery("SEWER")
	v = d.View()
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, "2", v.Tasks[0].TaskID)

	require.NoError(t, d.ExportCSV(context.Background()))
	f, ok := files.Last()
	require.True(t, ok)
	assert.Equal(t, "wasa-tasks-2026-03-10T00-00-00.000Z.csv", f.Name)
	assert.Equal(t, export.MimeCSV, f.MimeType)
	lines := strings.Split(strings.TrimSpace(string(f.Content)), "\n")
	assert.Equal(t, []string{
		"Task ID,Description,Total Length (m),Length Completed (m),Status,Due Date",
		"2,Clean sewer line,300,300,Completed,2026-04-05",
	}, lines)

	client.SetFail(backend.ErrSimulated)
	assert.Error(t, d.Refresh(context.Background()))
	v = d.View()
	assert.Equal(t, "Failed to fetch dashboard data. Please try again.", v.Message.Text)
	assert.Len(t, v.Tasks, 1, "last good data kept")
}
