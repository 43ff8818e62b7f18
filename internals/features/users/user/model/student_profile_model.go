package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "beasiswaku_backend/internals/helpers"
)

// StudentProfileModel 1:1 dengan user ber-role student.
// year_level TIDAK disimpan — selalu diturunkan dari student_code + tanggal.
type StudentProfileModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FullName      string     `gorm:"size:120" json:"full_name" validate:"omitempty,max=120"`
	Nickname      string     `gorm:"size:50" json:"nickname"`
	StudentCode   string     `gorm:"size:20;index" json:"student_code"`
	Major         string     `gorm:"size:120" json:"major"`
	DegreeLevel   string     `gorm:"type:varchar(20)" json:"degree_level" validate:"omitempty,oneof=bachelor master doctoral"`
	Phone         string     `gorm:"size:30" json:"phone"`
	Address       string     `gorm:"size:255" json:"address"`
	ScholarshipID *uuid.UUID `gorm:"type:uuid;index" json:"scholarship_id,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentProfileModel) TableName() string {
	return "student_profiles"
}

func (p *StudentProfileModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// YearLevel menghitung tingkat dari kode mahasiswa; 0 jika kode belum diisi.
func (p *StudentProfileModel) YearLevel(now time.Time) int {
	return helper.ComputeYearLevel(p.StudentCode, now)
}

func (p *StudentProfileModel) Validate() error {
	if err := validate.Struct(p); err != nil {
		return formatValidationError(err)
	}
	return nil
}
