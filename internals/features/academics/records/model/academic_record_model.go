package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AcademicRecordModel: satu laporan GPA/GPAX per (mahasiswa, tahun ajaran,
// semester) — keunikan dijaga lewat unique index gabungan.
type AcademicRecordModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_record_user_term" json:"user_id"`
	AcademicYear  string     `gorm:"size:4;not null;uniqueIndex:ux_record_user_term" json:"academic_year"`
	Semester      string     `gorm:"size:1;not null;uniqueIndex:ux_record_user_term" json:"semester"`
	GPA           float64    `gorm:"not null" json:"gpa"`
	GPAX          *float64   `json:"gpax,omitempty"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewNote    *string    `gorm:"type:text" json:"review_note,omitempty"`
	ReviewerID    *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	TranscriptURL *string    `gorm:"size:500" json:"transcript_url,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AcademicRecordModel) TableName() string {
	return "academic_records"
}

func (r *AcademicRecordModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
