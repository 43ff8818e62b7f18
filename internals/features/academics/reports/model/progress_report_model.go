package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressReportModel: laporan progres terhadap milestone tertentu, atau
// pasangan (tahun ajaran, semester) bebas bila tidak ada milestone yang cocok.
// Status reviewed = terkunci permanen.
type ProgressReportModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	MilestoneID  *uuid.UUID `gorm:"type:uuid;index" json:"milestone_id,omitempty"`
	AcademicYear *string    `gorm:"size:4" json:"academic_year,omitempty"`
	Semester     *string    `gorm:"size:1" json:"semester,omitempty"`
	Summary      string     `gorm:"type:text;not null" json:"summary"`
	Status       string     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	ReviewNote   *string    `gorm:"type:text" json:"review_note,omitempty"`
	ReviewerID   *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Attachments []ReportAttachmentModel `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (ProgressReportModel) TableName() string {
	return "progress_reports"
}

func (r *ProgressReportModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type ReportAttachmentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	FileURL   string    `gorm:"size:500;not null" json:"file_url"`
	FileName  string    `gorm:"size:255" json:"file_name"`
	FileSize  int64     `json:"file_size"`
	FileType  string    `gorm:"size:100" json:"file_type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ReportAttachmentModel) TableName() string {
	return "report_attachments"
}

func (a *ReportAttachmentModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
