package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScholarshipModel merepresentasikan satu program beasiswa.
// Threshold GPA/GPAX nullable = tanpa batasan.
type ScholarshipModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Active      bool       `gorm:"not null;default:true" json:"active"`
	MinGPA      *float64   `json:"min_gpa,omitempty"`
	MinGPAX     *float64   `json:"min_gpax,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Milestones []MilestoneModel `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"milestones,omitempty"`
}

func (ScholarshipModel) TableName() string {
	return "scholarships"
}

func (s *ScholarshipModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
