package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MandatoryActivityModel: kegiatan wajib yang dibuat admin dengan filter
// scope opsional. Field filter nil = tanpa batasan (bukan "kosong").
type MandatoryActivityModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Date        time.Time  `gorm:"not null" json:"date"`
	// snapshot filter yang dipakai saat fan-out (untuk jejak historis)
	ScholarshipID *uuid.UUID `gorm:"type:uuid" json:"scholarship_id,omitempty"`
	DegreeLevel   *string    `gorm:"type:varchar(20)" json:"degree_level,omitempty"`
	YearLevel     *int       `json:"year_level,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Participations []ActivityParticipationModel `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"participations,omitempty"`
}

func (MandatoryActivityModel) TableName() string {
	return "mandatory_activities"
}

func (m *MandatoryActivityModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ActivityParticipationModel: snapshot peserta saat kegiatan dibuat.
// Perubahan profil setelahnya tidak menambah/menghapus baris.
type ActivityParticipationModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_participation" json:"activity_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_participation" json:"user_id"`
	Attended   bool      `gorm:"not null;default:false" json:"attended"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActivityParticipationModel) TableName() string {
	return "activity_participations"
}

func (p *ActivityParticipationModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
