package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AchievementModel: entri portofolio mahasiswa (publikasi, lomba, dsb).
type AchievementModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type         string     `gorm:"type:varchar(20);not null" json:"type"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Date         *time.Time `json:"date,omitempty"`
	CoAuthors    string     `gorm:"size:500" json:"co_authors"`
	ReferenceURL string     `gorm:"size:500" json:"reference_url"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewNote   *string    `gorm:"type:text" json:"review_note,omitempty"`
	ReviewerID   *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Attachments []AchievementAttachmentModel `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (AchievementModel) TableName() string {
	return "achievements"
}

func (a *AchievementModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AchievementAttachmentModel menyimpan kontrak upload (url/name/size/type).
type AchievementAttachmentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AchievementID uuid.UUID `gorm:"type:uuid;not null;index" json:"achievement_id"`
	FileURL       string    `gorm:"size:500;not null" json:"file_url"`
	FileName      string    `gorm:"size:255" json:"file_name"`
	FileSize      int64     `json:"file_size"`
	FileType      string    `gorm:"size:100" json:"file_type"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AchievementAttachmentModel) TableName() string {
	return "achievement_attachments"
}

func (a *AchievementAttachmentModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
