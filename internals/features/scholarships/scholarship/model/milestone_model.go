package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MilestoneModel: checkpoint progress report satu beasiswa
// (target tingkat + semester, berurutan).
type MilestoneModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ScholarshipID   uuid.UUID `gorm:"type:uuid;not null;index" json:"scholarship_id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	TargetYearLevel int       `gorm:"not null" json:"target_year_level"`
	TargetSemester  string    `gorm:"size:1;not null" json:"target_semester"`
	OrderIndex      int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MilestoneModel) TableName() string {
	return "milestones"
}

func (m *MilestoneModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
