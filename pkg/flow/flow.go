// Package flow has the pieces the form and review workflows share: the
// outcome errors callers switch on and the banner message shown after an
// action.
package flow

import (
	"errors"
	"net/http"
	"time"
)

var (
	// ErrInvalid means validation failed; the field errors are in the state.
	ErrInvalid = errors.New("please fix the errors in the form")
	// ErrDeclined means the user did not confirm. Nothing changed.
	ErrDeclined = errors.New("action not confirmed")
	// ErrBusy means the same action is already in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrNotPending means a review decision was asked for a decided submission.
	ErrNotPending = errors.New("submission is not pending")
	ErrNotFound   = errors.New("not found")
)

const (
	MessageSuccess = "success"
	MessageError   = "error"
)

// Message is the banner shown after an action.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func Success(text string) *Message { return &Message{Type: MessageSuccess, Text: text} }
func Failure(text string) *Message { return &Message{Type: MessageError, Text: text} }

// Clock returns the current time. Workflows take one so tests can pin "today".
type Clock func() time.Time

// Today formats now in loc as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return now.Format("2006-01-02")
}

// HTTPStatus maps an outcome error to the status a view answers with.
// Anything unrecognised is a collaborator failure.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrDeclined):
		return http.StatusPreconditionRequired
	case errors.Is(err, ErrBusy), errors.Is(err, ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
