// Package validator holds the form rules. Every function is pure: it looks at
// the form and returns the fields that are wrong, keyed by field name. A field
// that is not in the result is valid.
package validator

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Muneeb381a/disiltting/entities"
)

const (
	MaxDescriptionLen = 500
	MaxReferenceIDLen = 20
	MaxImages         = 5
	MaxImageBytes     = 5 * 1024 * 1024
	// MaxCount bounds crew size and equipment quantity.
	MaxCount = 100000
)

// Errors maps a field name to its message.
type Errors map[string]string

func (e Errors) OK() bool { return len(e) == 0 }

// Error joins the messages in field-name order.
func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return strings.Join(parts, "; ")
}

// TaskForm checks the admin task form. today is YYYY-MM-DD; ISO dates compare
// correctly as strings so no parsing is needed.
func TaskForm(f entities.TaskForm, today string) Errors {
	errs := Errors{}

	desc := strings.TrimSpace(f.Description)
	switch {
	case desc == "":
		errs["description"] = "Task description is required"
	case utf8.RuneCountInString(f.Description) > MaxDescriptionLen:
		errs["description"] = fmt.Sprintf("Description must be %d characters or less", MaxDescriptionLen)
	}
	if blank(f.SupervisorID) {
		errs["supervisor_id"] = "Supervisor is required"
	}
	if blank(f.TeamID) {
		errs["team_id"] = "Team is required"
	}
	if blank(f.Area) {
		errs["area"] = "Area of performance is required"
	}
	if blank(f.UnionCouncil) {
		errs["union_council"] = "Union council is required"
	}
	if !optionalMin(f.TotalLength, 0) {
		errs["total_length"] = "Total length must be a non-negative number"
	}
	if blank(f.TaskType) {
		errs["task_type"] = "Task type is required"
	}
	if blank(f.TaskStatus) {
		errs["task_status"] = "Task status is required"
	}
	due := strings.TrimSpace(f.DueDate)
	switch {
	case due == "":
		errs["due_date"] = "Due date is required"
	case due < today:
		errs["due_date"] = "Due date cannot be in the past"
	}
	if !optionalMin(f.EstimatedDuration, 0) {
		errs["estimated_duration"] = "Estimated duration must be a non-negative number"
	}
	if !optionalMin(f.BudgetEstimate, 0) {
		errs["budget_estimate"] = "Budget estimate must be a non-negative number"
	}
	switch {
	case !optionalMin(f.CrewSize, 1):
		errs["crew_size"] = "Crew size must be a positive number"
	case !optionalCount(f.CrewSize):
		errs["crew_size"] = fmt.Sprintf("Crew size must be a whole number up to %d", MaxCount)
	}
	switch {
	case !blank(f.MachineryID) && blank(f.EquipmentQuantity):
		errs["equipment_quantity"] = "Equipment quantity is required when machinery is selected"
	case !optionalMin(f.EquipmentQuantity, 1):
		errs["equipment_quantity"] = "Equipment quantity must be a positive number"
	case !optionalCount(f.EquipmentQuantity):
		errs["equipment_quantity"] = fmt.Sprintf("Equipment quantity must be a whole number up to %d", MaxCount)
	}
	if blank(f.TaskCategory) {
		errs["task_category"] = "Task category is required"
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.TaskReferenceID)) > MaxReferenceIDLen {
		errs["task_reference_id"] = fmt.Sprintf("Task reference ID must be %d characters or less", MaxReferenceIDLen)
	}
	return errs
}

// WorkForm checks the supervisor form for one phase. A missing task is
// reported whatever the phase.
func WorkForm(f entities.WorkForm, phase entities.Phase) Errors {
	errs := Errors{}
	if blank(f.TaskID) {
		errs["task_id"] = "Please select a task."
	}
	fields := f.Fields(phase)
	if fields == nil {
		errs["phase"] = fmt.Sprintf("Unknown phase %q.", phase)
		return errs
	}
	prefix := string(phase)

	if fields.Location == nil {
		errs[prefix+"_location"] = "Live location is required."
	}
	if len(fields.Images) == 0 {
		errs[prefix+"_images"] = "At least one image is required."
	}
	if phase == entities.PhaseProgress || phase == entities.PhaseEnd {
		if _, ok := Number(fields.Length); !ok || !optionalMin(fields.Length, 0) {
			errs[prefix+"_length"] = "Total length completed must be a non-negative number."
		}
	}
	if phase == entities.PhaseEnd && !slices.Contains(entities.WorkStatuses, strings.TrimSpace(fields.WorkStatus)) {
		errs["end_status"] = "Work status is required."
	}
	return errs
}

// Image returns a message when a photo cannot be attached, or "" when it can.
// existing is how many photos the phase already has.
func Image(mimeType string, size int64, existing int) string {
	switch {
	case mimeType != "image/jpeg" && mimeType != "image/png":
		return "Only JPEG or PNG images are allowed."
	case size > MaxImageBytes:
		return "Each image must be less than 5MB."
	case existing+1 > MaxImages:
		return fmt.Sprintf("Maximum %d images allowed per section.", MaxImages)
	}
	return ""
}

// Number parses a form value. Empty, NaN and infinite values are not numbers.
func Number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// optionalMin accepts an empty value, or a number no lower than min.
func optionalMin(s string, min float64) bool {
	if blank(s) {
		return true
	}
	v, ok := Number(s)
	return ok && v >= min
}

// optionalCount accepts an empty value, or a whole number within MaxCount.
func optionalCount(s string) bool {
	if blank(s) {
		return true
	}
	_, ok := Count(s)
	return ok
}

// Count parses a whole number in [0, MaxCount].
func Count(s string) (int, bool) {
	v, ok := Number(s)
	if !ok || v != math.Trunc(v) || v < 0 || v > MaxCount {
		return 0, false
	}
	return int(v), true
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
