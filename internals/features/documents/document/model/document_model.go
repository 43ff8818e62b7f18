package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentModel: file yang bisa diunduh mahasiswa. scope_all=true berarti
// terlihat semua mahasiswa; selain itu pakai baris DocumentScopeModel.
type DocumentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	FileURL     string    `gorm:"size:500;not null" json:"file_url"`
	FileName    string    `gorm:"size:255" json:"file_name"`
	FileSize    int64     `json:"file_size"`
	FileType    string    `gorm:"size:100" json:"file_type"`
	Published   bool      `gorm:"not null;default:false" json:"published"`
	ScopeAll    bool      `gorm:"not null;default:true" json:"scope_all"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Scopes []DocumentScopeModel `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"scopes,omitempty"`
}

func (DocumentModel) TableName() string {
	return "documents"
}

func (d *DocumentModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type DocumentScopeModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_document_scope" json:"document_id"`
	ScholarshipID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_document_scope" json:"scholarship_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DocumentScopeModel) TableName() string {
	return "document_scopes"
}

func (s *DocumentScopeModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
