// Package session keeps one set of workflows per browser session, the way a
// single tab would own them.
package session

import (
	"log"
	"sort"
	"sync"

	dashService "github.com/Muneeb381a/disiltting/pkg/dashboard/service"
	"github.com/Muneeb381a/disiltting/pkg/export"
	reviewService "github.com/Muneeb381a/disiltting/pkg/review/service"
	taskFormService "github.com/Muneeb381a/disiltting/pkg/taskform/service"
	workFormService "github.com/Muneeb381a/disiltting/pkg/workform/service"
)

const (
	TaskForm = "task_form"
	WorkForm = "work_form"
)

// FormID names the draft of form in session uid.
func FormID(uid, form string) string { return uid + ":" + form }

type Session struct {
	UID       string
	TaskForm  taskFormService.TaskForm
	WorkForm  workFormService.WorkForm
	Review    reviewService.Review
	Dashboard dashService.Dashboard
	// Exports holds what this session exported, for download.
	Exports *export.Recorder
}

// Builder creates the workflows of a new session.
type Builder func(uid string) *Session

type Registry struct {
	build Builder

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(build Builder) *Registry {
	return &Registry{build: build, sessions: map[string]*Session{}}
}

// Get returns the session for uid, creating it on first use. Drafts saved by
// an earlier process are picked up at that point.
func (r *Registry) Get(uid string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[uid]
	if !ok {
		s = r.build(uid)
		r.sessions[uid] = s
		log.Printf("[session] new %s", uid)
	}
	return s
}

// UIDs lists the live sessions.
func (r *Registry) UIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sessions))
	for uid := range r.sessions {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}

// Close writes every draft still waiting on its debounce delay.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.TaskForm.Close()
		s.WorkForm.Close()
	}
}
