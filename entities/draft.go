package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Draft is the autosaved snapshot of one form.
type Draft struct {
	FormID    string         `gorm:"primaryKey" json:"form_id"`
	State     datatypes.JSON `json:"state"`
	UpdatedAt time.Time      `json:"updated_at"`
}
