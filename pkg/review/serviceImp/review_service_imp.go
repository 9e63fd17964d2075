package serviceImp

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/prompt"
	"github.com/Muneeb381a/disiltting/pkg/review/service"
)

type Deps struct {
	Client  backend.Client
	Confirm prompt.Confirmer
	Export  export.Exporter
	Clock   flow.Clock
}

type review struct {
	d Deps

	mu       sync.Mutex
	subs     []entities.WorkSubmission
	filter   service.Filter
	sortKey  string
	sortDesc bool
	page     int
	loading  bool
	inFlight map[string]bool
	message  *flow.Message
}

// New starts sorted by submission time, newest first. Nothing is fetched
// until Load.
func New(d Deps) service.Review {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return &review{
		d:        d,
		sortKey:  service.SortSubmittedAt,
		sortDesc: true,
		page:     1,
		inFlight: map[string]bool{},
	}
}

func (r *review) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.loading {
		r.mu.Unlock()
		return flow.ErrBusy
	}
	r.loading = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.loading = false
		r.mu.Unlock()
	}()

	var subs []entities.WorkSubmission
	err := r.d.Client.Get(ctx, backend.EndpointSubmissions, &subs)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.message = flow.Failure("Failed to fetch submissions. Please try again.")
		log.Printf("[review] load: %v", err)
		return fmt.Errorf("load submissions: %w", err)
	}
	r.subs = subs
	r.message = nil
	return nil
}

// SetFilter goes back to the first page.
func (r *review) SetFilter(f service.Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filter = f
	r.page = 1
}

func (r *review) SetSort(key string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: unknown sort key %q", flow.ErrInvalid, key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sortKey == key {
		r.sortDesc = !r.sortDesc
		return nil
	}
	r.sortKey, r.sortDesc = key, false
	return nil
}

func (r *review) SetPage(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.page = clamp(n, pages(len(r.filteredLocked())))
}

func (r *review) View() service.View {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.sortedLocked()
	total := max(1, pages(len(rows)))
	r.page = clamp(r.page, total)
	lo := min((r.page-1)*service.PageSize, len(rows))
	hi := min(lo+service.PageSize, len(rows))

	pending := make([]string, 0, len(r.inFlight))
	for id := range r.inFlight {
		pending = append(pending, id)
	}
	slices.Sort(pending)

	return service.View{
		Items:      slices.Clone(rows[lo:hi]),
		Page:       r.page,
		TotalPages: total,
		Total:      len(rows),
		Filter:     r.filter,
		SortKey:    r.sortKey,
		SortDesc:   r.sortDesc,
		TaskIDs:    r.taskIDsLocked(),
		Pending:    pending,
		Loading:    r.loading,
		Message:    r.message,
	}
}

func (r *review) Approve(ctx context.Context, id string) error {
	return r.decide(ctx, id, entities.ReviewApproved, "approve", "approving")
}

func (r *review) Reject(ctx context.Context, id string) error {
	return r.decide(ctx, id, entities.ReviewRejected, "reject", "rejecting")
}

// checkLocked says whether id may be decided right now.
func (r *review) checkLocked(id string) error {
	i := r.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("submission %s: %w", id, flow.ErrNotFound)
	}
	if r.subs[i].Status != entities.ReviewPending {
		return fmt.Errorf("submission %s is %s: %w", id, r.subs[i].Status, flow.ErrNotPending)
	}
	if r.inFlight[id] {
		return flow.ErrBusy
	}
	return nil
}

func (r *review) decide(ctx context.Context, id string, to entities.ReviewStatus, verb, gerund string) error {
	r.mu.Lock()
	err := r.checkLocked(id)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if !r.d.Confirm.Confirm(ctx, fmt.Sprintf("Are you sure you want to %s this submission?", verb)) {
		return flow.ErrDeclined
	}

	r.mu.Lock()
	if err := r.checkLocked(id); err != nil {
		r.mu.Unlock()
		return err
	}
	r.inFlight[id] = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.inFlight, id)
		r.mu.Unlock()
	}()

	err = r.d.Client.Put(ctx, id, entities.StatusPatch{Status: to})

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.message = flow.Failure(fmt.Sprintf("Error %s submission: %v", gerund, err))
		log.Printf("[review] %s %s: %v", verb, id, err)
		return fmt.Errorf("%s submission %s: %w", verb, id, err)
	}
	if i := r.indexLocked(id); i >= 0 {
		r.subs[i].Status = to
	}
	r.message = flow.Success(fmt.Sprintf("Submission %s successfully.", strings.ToLower(string(to))))
	return nil
}

func (r *review) ExportFiltered(ctx context.Context) error {
	r.mu.Lock()
	rows := r.sortedLocked()
	now := r.d.Clock()
	r.mu.Unlock()

	b, err := export.JSON(rows)
	if err != nil {
		return fmt.Errorf("export submissions: %w", err)
	}
	r.d.Export.ExportAsFile(export.Filename("wasa-submissions", now, "json"), export.MimeJSON, b)
	return nil
}

var xlsxHeader = []string{"Submission ID", "Task ID", "Task Description", "Phase", "Latitude", "Longitude", "Images", "Length Completed (m)", "Work Status", "Status", "Submitted At"}

func (r *review) ExportFilteredXLSX(ctx context.Context) error {
	r.mu.Lock()
	rows := r.sortedLocked()
	now := r.d.Clock()
	r.mu.Unlock()

	out := make([][]any, len(rows))
	for i, s := range rows {
		var length any = ""
		if s.LengthCompleted != nil {
			length = *s.LengthCompleted
		}
		out[i] = []any{
			s.ID, s.TaskID, s.TaskDescription, string(s.Phase),
			s.Location.Lat, s.Location.Lng, len(s.Images), length,
			s.WorkStatus, string(s.Status), s.SubmittedAt.Format(time.RFC3339),
		}
	}
	b, err := export.XLSX("Submissions", xlsxHeader, out)
	if err != nil {
		return fmt.Errorf("export submissions: %w", err)
	}
	r.d.Export.ExportAsFile(export.Filename("wasa-submissions", now, "xlsx"), export.MimeXLSX, b)
	return nil
}

func (r *review) TaskIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taskIDsLocked()
}

// taskIDsLocked lists task ids in order of first appearance.
func (r *review) taskIDsLocked() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range r.subs {
		if !seen[s.TaskID] {
			seen[s.TaskID] = true
			out = append(out, s.TaskID)
		}
	}
	return out
}

func (r *review) indexLocked(id string) int {
	return slices.IndexFunc(r.subs, func(s entities.WorkSubmission) bool { return s.ID == id })
}

func (r *review) filteredLocked() []entities.WorkSubmission {
	out := make([]entities.WorkSubmission, 0, len(r.subs))
	for _, s := range r.subs {
		if r.filter.Status != "" && s.Status != r.filter.Status {
			continue
		}
		if r.filter.TaskID != "" && s.TaskID != r.filter.TaskID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// sortedLocked filters then sorts. Equal keys keep their fetched order in
// both directions.
func (r *review) sortedLocked() []entities.WorkSubmission {
	rows := r.filteredLocked()
	key, desc := r.sortKey, r.sortDesc
	slices.SortStableFunc(rows, func(a, b entities.WorkSubmission) int {
		c := compare(a, b, key)
		if desc {
			return -c
		}
		return c
	})
	return rows
}

func compare(a, b entities.WorkSubmission, key string) int {
	if key == service.SortSubmittedAt {
		return a.SubmittedAt.Compare(b.SubmittedAt)
	}
	return strings.Compare(strings.ToLower(text(a, key)), strings.ToLower(text(b, key)))
}

func text(s entities.WorkSubmission, key string) string {
	switch key {
	case service.SortSubmissionID:
		return s.ID
	case service.SortTaskID:
		return s.TaskID
	case service.SortTaskDescription:
		return s.TaskDescription
	case service.SortPhase:
		return string(s.Phase)
	case service.SortStatus:
		return string(s.Status)
	case service.SortLength:
		if s.LengthCompleted == nil {
			return ""
		}
		return strconv.FormatFloat(*s.LengthCompleted, 'f', -1, 64)
	}
	return ""
}

func validKey(key string) bool {
	switch key {
	case service.SortSubmittedAt, service.SortSubmissionID, service.SortTaskID,
		service.SortTaskDescription, service.SortPhase, service.SortStatus, service.SortLength:
		return true
	}
	return false
}

func pages(n int) int { return (n + service.PageSize - 1) / service.PageSize }

// clamp keeps n within [1, last]; an empty list still has page 1.
func clamp(n, last int) int {
	if n > last {
		n = last
	}
	if n < 1 {
		n = 1
	}
	return n
}
