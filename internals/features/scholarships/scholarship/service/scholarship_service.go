package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	scholarshipModel "beasiswaku_backend/internals/features/scholarships/scholarship/model"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	helpers "beasiswaku_backend/internals/helpers"
	"beasiswaku_backend/internals/helpers/apperr"
)

type MilestoneInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	TargetYearLevel int    `json:"target_year_level"`
	TargetSemester  string `json:"target_semester"`
	OrderIndex      int    `json:"order_index"`
}

type ScholarshipInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Active      *bool            `json:"active,omitempty"`
	MinGPA      *float64         `json:"min_gpa,omitempty"`
	MinGPAX     *float64         `json:"min_gpax,omitempty"`
	Milestones  []MilestoneInput `json:"milestones"`
}

func (in *ScholarshipInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("Nama beasiswa wajib diisi")
	}
	if in.MinGPA != nil && !helpers.ValidGPA(*in.MinGPA) {
		return apperr.Validation("Min GPA harus di rentang 0.00 - 4.00")
	}
	if in.MinGPAX != nil && !helpers.ValidGPA(*in.MinGPAX) {
		return apperr.Validation("Min GPAX harus di rentang 0.00 - 4.00")
	}
	for _, m := range in.Milestones {
		if strings.TrimSpace(m.Title) == "" {
			return apperr.Validation("Judul milestone wajib diisi")
		}
		if m.TargetYearLevel < 1 || m.TargetYearLevel > 8 {
			return apperr.Validation("Target tingkat milestone harus 1-8")
		}
		if m.TargetSemester != "1" && m.TargetSemester != "2" && m.TargetSemester != "3" {
			return apperr.Validation("Target semester milestone harus 1, 2, atau 3")
		}
	}
	return nil
}

// Create membuat program beasiswa baru beserta milestone-nya.
func Create(db *gorm.DB, adminID uuid.UUID, in ScholarshipInput) (*scholarshipModel.ScholarshipModel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s := scholarshipModel.ScholarshipModel{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Active:      true,
		MinGPA:      in.MinGPA,
		MinGPAX:     in.MinGPAX,
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	for _, m := range in.Milestones {
		s.Milestones = append(s.Milestones, scholarshipModel.MilestoneModel{
			Title:           strings.TrimSpace(m.Title),
			Description:     m.Description,
			TargetYearLevel: m.TargetYearLevel,
			TargetSemester:  m.TargetSemester,
			OrderIndex:      m.OrderIndex,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&s).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, auditModel.ActionScholarshipCreated, nil, map[string]any{
			"scholarship_id": s.ID.String(),
			"name":           s.Name,
		})
	})
	if err != nil {
		return nil, apperr.Internal("gagal membuat beasiswa", err)
	}
	return &s, nil
}

// Update mengganti atribut program dan seluruh milestone-nya.
func Update(db *gorm.DB, adminID, scholarshipID uuid.UUID, in ScholarshipInput) (*scholarshipModel.ScholarshipModel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s, err := load(db, scholarshipID)
	if err != nil {
		return nil, err
	}

	active := s.Active
	if in.Active != nil {
		active = *in.Active
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":        strings.TrimSpace(in.Name),
			"description": in.Description,
			"active":      active,
			"min_gpa":     in.MinGPA,
			"min_gpax":    in.MinGPAX,
		}
		if err := tx.Model(s).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("scholarship_id = ?", s.ID).
			Delete(&scholarshipModel.MilestoneModel{}).Error; err != nil {
			return err
		}
		for _, m := range in.Milestones {
			row := scholarshipModel.MilestoneModel{
				ScholarshipID:   s.ID,
				Title:           strings.TrimSpace(m.Title),
				Description:     m.Description,
				TargetYearLevel: m.TargetYearLevel,
				TargetSemester:  m.TargetSemester,
				OrderIndex:      m.OrderIndex,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return audit.Record(tx, adminID, auditModel.ActionScholarshipUpdated, nil, map[string]any{
			"scholarship_id": s.ID.String(),
			"name":           strings.TrimSpace(in.Name),
		})
	})
	if err != nil {
		return nil, apperr.Internal("gagal update beasiswa", err)
	}
	return load(db, scholarshipID)
}

// Delete menolak menghapus program yang masih dirujuk profil mahasiswa —
// penerima harus dipindahkan dulu. Program usang cukup di-nonaktifkan.
func Delete(db *gorm.DB, adminID, scholarshipID uuid.UUID) error {
	s, err := load(db, scholarshipID)
	if err != nil {
		return err
	}

	var holders int64
	if err := db.Model(&userModel.StudentProfileModel{}).
		Where("scholarship_id = ?", scholarshipID).
		Count(&holders).Error; err != nil {
		return apperr.Internal("gagal cek penerima beasiswa", err)
	}
	if holders > 0 {
		return apperr.Conflict("Beasiswa masih punya penerima aktif; nonaktifkan saja")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scholarship_id = ?", scholarshipID).
			Delete(&scholarshipModel.MilestoneModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(s).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, auditModel.ActionScholarshipDeleted, nil, map[string]any{
			"scholarship_id": s.ID.String(),
			"name":           s.Name,
		})
	})
	if err != nil {
		return apperr.Internal("gagal hapus beasiswa", err)
	}
	return nil
}

// ListActive: direktori publik, hanya program aktif.
func ListActive(db *gorm.DB) ([]scholarshipModel.ScholarshipModel, error) {
	var rows []scholarshipModel.ScholarshipModel
	if err := db.Preload("Milestones", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index ASC")
	}).Where("active = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Internal("gagal ambil beasiswa", err)
	}
	return rows, nil
}

// ListAll untuk admin, termasuk program nonaktif.
func ListAll(db *gorm.DB, limit, offset int) ([]scholarshipModel.ScholarshipModel, int64, error) {
	var total int64
	if err := db.Model(&scholarshipModel.ScholarshipModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("gagal hitung beasiswa", err)
	}
	var rows []scholarshipModel.ScholarshipModel
	if err := db.Preload("Milestones", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index ASC")
	}).Order("name ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("gagal ambil beasiswa", err)
	}
	return rows, total, nil
}

// Get memuat satu program dengan milestone berurutan.
func Get(db *gorm.DB, scholarshipID uuid.UUID) (*scholarshipModel.ScholarshipModel, error) {
	var s scholarshipModel.ScholarshipModel
	err := db.Preload("Milestones", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index ASC")
	}).First(&s, "id = ?", scholarshipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Beasiswa tidak ditemukan")
	}
	if err != nil {
		return nil, apperr.Internal("gagal load beasiswa", err)
	}
	return &s, nil
}

func load(db *gorm.DB, scholarshipID uuid.UUID) (*scholarshipModel.ScholarshipModel, error) {
	var s scholarshipModel.ScholarshipModel
	if err := db.First(&s, "id = ?", scholarshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Beasiswa tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load beasiswa", err)
	}
	return &s, nil
}
