package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	achievementModel "beasiswaku_backend/internals/features/academics/achievements/model"
	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	"beasiswaku_backend/internals/helpers/apperr"
)

type AttachmentInput struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`
}

type CreateAchievementInput struct {
	Type         string            `json:"type"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Date         *time.Time        `json:"date,omitempty"`
	CoAuthors    string            `json:"co_authors"`
	ReferenceURL string            `json:"reference_url"`
	Attachments  []AttachmentInput `json:"attachments"`
}

// Create menyimpan entri portofolio baru beserta lampirannya, status pending.
func Create(db *gorm.DB, userID uuid.UUID, in CreateAchievementInput) (*achievementModel.AchievementModel, error) {
	if !constants.IsValidAchievementType(in.Type) {
		return nil, apperr.Validation("Jenis prestasi tidak dikenal: " + in.Type)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("Judul wajib diisi")
	}

	ach := achievementModel.AchievementModel{
		UserID:       userID,
		Type:         in.Type,
		Title:        title,
		Description:  in.Description,
		Date:         in.Date,
		CoAuthors:    in.CoAuthors,
		ReferenceURL: in.ReferenceURL,
		Status:       constants.VerifyStatusPending,
	}
	for _, att := range in.Attachments {
		if att.FileURL == "" {
			return nil, apperr.Validation("Lampiran tanpa URL file")
		}
		ach.Attachments = append(ach.Attachments, achievementModel.AchievementAttachmentModel{
			FileURL:  att.FileURL,
			FileName: att.FileName,
			FileSize: att.FileSize,
			FileType: att.FileType,
		})
	}

	if err := db.Create(&ach).Error; err != nil {
		return nil, apperr.Internal("gagal membuat prestasi", err)
	}
	return &ach, nil
}

// Update: pemilik boleh edit selama belum verified. Entri rejected boleh
// diperbaiki lalu otomatis kembali ke antrean pending.
func Update(db *gorm.DB, userID, achievementID uuid.UUID, in CreateAchievementInput) (*achievementModel.AchievementModel, error) {
	ach, err := loadOwned(db, userID, achievementID)
	if err != nil {
		return nil, err
	}
	if ach.Status == constants.VerifyStatusVerified {
		return nil, apperr.Conflict("Prestasi yang sudah diverifikasi terkunci")
	}
	if !constants.IsValidAchievementType(in.Type) {
		return nil, apperr.Validation("Jenis prestasi tidak dikenal: " + in.Type)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("Judul wajib diisi")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"type":          in.Type,
			"title":         title,
			"description":   in.Description,
			"date":          in.Date,
			"co_authors":    in.CoAuthors,
			"reference_url": in.ReferenceURL,
			"status":        constants.VerifyStatusPending,
			"review_note":   nil,
			"reviewer_id":   nil,
		}
		if err := tx.Model(ach).Updates(updates).Error; err != nil {
			return err
		}
		// lampiran diganti utuh, bukan merge per-baris
		if err := tx.Where("achievement_id = ?", ach.ID).
			Delete(&achievementModel.AchievementAttachmentModel{}).Error; err != nil {
			return err
		}
		for _, att := range in.Attachments {
			row := achievementModel.AchievementAttachmentModel{
				AchievementID: ach.ID,
				FileURL:       att.FileURL,
				FileName:      att.FileName,
				FileSize:      att.FileSize,
				FileType:      att.FileType,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("gagal update prestasi", err)
	}

	return loadOwned(db, userID, achievementID)
}

// Delete: pemilik boleh hapus selama belum verified.
func Delete(db *gorm.DB, userID, achievementID uuid.UUID) error {
	ach, err := loadOwned(db, userID, achievementID)
	if err != nil {
		return err
	}
	if ach.Status == constants.VerifyStatusVerified {
		return apperr.Conflict("Prestasi yang sudah diverifikasi tidak bisa dihapus")
	}
	if err := db.Select("Attachments").Delete(ach).Error; err != nil {
		return apperr.Internal("gagal hapus prestasi", err)
	}
	return nil
}

func actionForAchievementStatus(status string) (auditModel.Action, error) {
	switch status {
	case constants.VerifyStatusVerified:
		return auditModel.ActionAchievementVerified, nil
	case constants.VerifyStatusRejected:
		return auditModel.ActionAchievementRejected, nil
	default:
		return "", apperr.Validation("Status review tidak dikenal: " + status)
	}
}

// Review: keputusan admin. Verified bersifat final satu arah.
func Review(db *gorm.DB, adminID, achievementID uuid.UUID, newStatus string, note *string) (*achievementModel.AchievementModel, error) {
	action, err := actionForAchievementStatus(newStatus)
	if err != nil {
		return nil, err
	}

	var ach achievementModel.AchievementModel
	if err := db.First(&ach, "id = ?", achievementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Prestasi tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load prestasi", err)
	}
	if ach.Status == constants.VerifyStatusVerified {
		return nil, apperr.Conflict("Prestasi sudah diverifikasi dan terkunci")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":      newStatus,
			"review_note": note,
			"reviewer_id": adminID,
		}
		if err := tx.Model(&ach).Updates(updates).Error; err != nil {
			return err
		}
		detail := map[string]any{
			"achievement_id": ach.ID.String(),
			"title":          ach.Title,
		}
		if note != nil {
			detail["note"] = *note
		}
		return audit.Record(tx, adminID, action, &ach.UserID, detail)
	})
	if err != nil {
		return nil, apperr.Internal("gagal review prestasi", err)
	}

	ach.Status = newStatus
	ach.ReviewNote = note
	ach.ReviewerID = &adminID
	return &ach, nil
}

// ListByUser memuat portofolio milik satu mahasiswa berikut lampirannya.
func ListByUser(db *gorm.DB, userID uuid.UUID) ([]achievementModel.AchievementModel, error) {
	var rows []achievementModel.AchievementModel
	if err := db.Preload("Attachments").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperr.Internal("gagal ambil prestasi", err)
	}
	return rows, nil
}

// ListPending: antrean verifikasi admin.
func ListPending(db *gorm.DB, limit, offset int) ([]achievementModel.AchievementModel, int64, error) {
	var total int64
	q := db.Model(&achievementModel.AchievementModel{}).Where("status = ?", constants.VerifyStatusPending)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("gagal hitung antrean", err)
	}
	var rows []achievementModel.AchievementModel
	if err := db.Preload("Attachments").
		Where("status = ?", constants.VerifyStatusPending).
		Order("created_at ASC").Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("gagal ambil antrean", err)
	}
	return rows, total, nil
}

func loadOwned(db *gorm.DB, userID, achievementID uuid.UUID) (*achievementModel.AchievementModel, error) {
	var ach achievementModel.AchievementModel
	if err := db.Preload("Attachments").First(&ach, "id = ?", achievementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Prestasi tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load prestasi", err)
	}
	if ach.UserID != userID {
		return nil, apperr.Permission("Bukan prestasi milik Anda")
	}
	return &ach, nil
}
