package repository

// DraftStore keeps one autosaved form state per form id. Save replaces what
// was there. Load fills out and reports whether a usable draft existed; a
// draft that no longer decodes counts as missing. Clear is idempotent.
type DraftStore interface {
	Save(formID string, state any) error
	Load(formID string, out any) bool
	Clear(formID string) error
}
