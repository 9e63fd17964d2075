package repositoryImp

import (
	"encoding/json"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/draft/repository"
)

type sqliteStore struct{ db *gorm.DB }

// NewSQLite stores drafts in the drafts table, one row per form id.
func NewSQLite(db *gorm.DB) repository.DraftStore { return &sqliteStore{db: db} }

func (s *sqliteStore) Save(formID string, state any) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	row := entities.Draft{FormID: formID, State: b}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "form_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(&row).Error
}

func (s *sqliteStore) Load(formID string, out any) bool {
	var row entities.Draft
	if err := s.db.Where("form_id = ?", formID).First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[draft] load %s: %v", formID, err)
		}
		return false
	}
	if err := decodeInto(row.State, out); err != nil {
		log.Printf("[draft] discarding unreadable draft %s: %v", formID, err)
		return false
	}
	return true
}

func (s *sqliteStore) Clear(formID string) error {
	return s.db.Where("form_id = ?", formID).Delete(&entities.Draft{}).Error
}
