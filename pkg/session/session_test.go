package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/draft/repositoryImp"
	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/prompt"
)

func newRegistry() *Registry {
	return NewRegistry(Build(Env{
		Client:   backend.NewMock(),
		Drafts:   repositoryImp.NewMemory(),
		Debounce: time.Hour,
	}))
}

func TestRegistry_OneSessionPerUID(t *testing.T) {
	r := newRegistry()
	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.NotSame(t, a, r.Get("b"))
	assert.Equal(t, []string{"a", "b"}, r.UIDs())
}

func TestRegistry_CloseFlushesDrafts(t *testing.T) {
	drafts := repositoryImp.NewMemory()
	r := NewRegistry(Build(Env{Client: backend.NewMock(), Drafts: drafts, Debounce: time.Hour}))
	require.NoError(t, r.Get("u1").TaskForm.Set("description", "Clean drain"))
	r.Close()

	var f entities.TaskForm
	require.True(t, drafts.Load(FormID("u1", TaskForm), &f))
	assert.Equal(t, "Clean drain", f.Description)

	// a new process picks the draft up again
	r2 := NewRegistry(Build(Env{Client: backend.NewMock(), Drafts: drafts, Debounce: time.Hour}))
	assert.Equal(t, "Clean drain", r2.Get("u1").TaskForm.State().Form.Description)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decided(ctx context.Context) bool {
	return prompt.FromContext().Confirm(ctx, "ok?")
}

func TestConfirmed(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/?confirm=true", "")
	assert.True(t, decided(Confirmed(c)))

	c, _ = newContext(http.MethodPost, "/", `{"confirm":true}`)
	assert.True(t, decided(Confirmed(c)))

	c, _ = newContext(http.MethodPost, "/", "")
	assert.False(t, decided(Confirmed(c)))
}

func TestRespond(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/", "")
	require.NoError(t, Respond(c, flow.ErrBusy, map[string]int{"n": 1}))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":{"n":1}`)
}

func TestDownload(t *testing.T) {
	files := export.NewRecorder()
	c, rec := newContext(http.MethodGet, "/", "")
	require.NoError(t, Download(c, files, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	files.ExportAsFile("wasa.csv", export.MimeCSV, []byte("a,b\n"))
	c, rec = newContext(http.MethodGet, "/", "")
	require.NoError(t, Download(c, files, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="wasa.csv"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "a,b\n", rec.Body.String())
}
