package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	reportModel "beasiswaku_backend/internals/features/academics/reports/model"
	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	scholarshipModel "beasiswaku_backend/internals/features/scholarships/scholarship/model"
	"beasiswaku_backend/internals/helpers/apperr"
)

type AttachmentInput struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`
}

// CreateReportInput: laporan menunjuk milestone ATAU pasangan tahun/semester
// bebas — tepat salah satu, tidak dua-duanya.
type CreateReportInput struct {
	MilestoneID  *uuid.UUID        `json:"milestone_id,omitempty"`
	AcademicYear *string           `json:"academic_year,omitempty"`
	Semester     *string           `json:"semester,omitempty"`
	Summary      string            `json:"summary"`
	Attachments  []AttachmentInput `json:"attachments"`
}

func (in *CreateReportInput) validate(db *gorm.DB) error {
	hasMilestone := in.MilestoneID != nil
	hasTerm := in.AcademicYear != nil && in.Semester != nil
	if hasMilestone == hasTerm {
		return apperr.Validation("Isi milestone ATAU tahun+semester, tepat salah satu")
	}
	if strings.TrimSpace(in.Summary) == "" {
		return apperr.Validation("Ringkasan laporan wajib diisi")
	}
	if hasMilestone {
		var count int64
		if err := db.Model(&scholarshipModel.MilestoneModel{}).
			Where("id = ?", *in.MilestoneID).Count(&count).Error; err != nil {
			return apperr.Internal("gagal cek milestone", err)
		}
		if count == 0 {
			return apperr.Validation("Milestone tidak ditemukan")
		}
	}
	if hasTerm {
		if len(*in.AcademicYear) != 4 {
			return apperr.Validation("Tahun ajaran harus 4 digit")
		}
		if *in.Semester != "1" && *in.Semester != "2" && *in.Semester != "3" {
			return apperr.Validation("Semester harus 1, 2, atau 3")
		}
	}
	return nil
}

// Create menyimpan laporan sebagai draft; belum masuk antrean review.
func Create(db *gorm.DB, userID uuid.UUID, in CreateReportInput) (*reportModel.ProgressReportModel, error) {
	if err := in.validate(db); err != nil {
		return nil, err
	}

	report := reportModel.ProgressReportModel{
		UserID:       userID,
		MilestoneID:  in.MilestoneID,
		AcademicYear: in.AcademicYear,
		Semester:     in.Semester,
		Summary:      strings.TrimSpace(in.Summary),
		Status:       constants.ReportStatusDraft,
	}
	for _, att := range in.Attachments {
		if att.FileURL == "" {
			return nil, apperr.Validation("Lampiran tanpa URL file")
		}
		report.Attachments = append(report.Attachments, reportModel.ReportAttachmentModel{
			FileURL:  att.FileURL,
			FileName: att.FileName,
			FileSize: att.FileSize,
			FileType: att.FileType,
		})
	}

	if err := db.Create(&report).Error; err != nil {
		return nil, apperr.Internal("gagal membuat laporan", err)
	}
	return &report, nil
}

// UpdateDraft: edit hanya mungkin di draft atau need_revision.
func UpdateDraft(db *gorm.DB, userID, reportID uuid.UUID, in CreateReportInput) (*reportModel.ProgressReportModel, error) {
	report, err := loadOwned(db, userID, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != constants.ReportStatusDraft && report.Status != constants.ReportStatusNeedRevision {
		return nil, apperr.Conflict("Laporan pada status ini tidak bisa diedit")
	}
	if err := in.validate(db); err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"milestone_id":  in.MilestoneID,
			"academic_year": in.AcademicYear,
			"semester":      in.Semester,
			"summary":       strings.TrimSpace(in.Summary),
		}
		if err := tx.Model(report).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", report.ID).
			Delete(&reportModel.ReportAttachmentModel{}).Error; err != nil {
			return err
		}
		for _, att := range in.Attachments {
			row := reportModel.ReportAttachmentModel{
				ReportID: report.ID,
				FileURL:  att.FileURL,
				FileName: att.FileName,
				FileSize: att.FileSize,
				FileType: att.FileType,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("gagal update laporan", err)
	}
	return loadOwned(db, userID, reportID)
}

// Submit memindahkan draft / need_revision ke antrean review.
func Submit(db *gorm.DB, userID, reportID uuid.UUID) (*reportModel.ProgressReportModel, error) {
	report, err := loadOwned(db, userID, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != constants.ReportStatusDraft && report.Status != constants.ReportStatusNeedRevision {
		return nil, apperr.Conflict("Laporan pada status ini tidak bisa disubmit")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":       constants.ReportStatusSubmitted,
		"submitted_at": now,
	}
	if err := db.Model(report).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("gagal submit laporan", err)
	}
	report.Status = constants.ReportStatusSubmitted
	report.SubmittedAt = &now
	return report, nil
}

// Delete: laporan reviewed adalah arsip permanen dan tidak bisa dihapus.
func Delete(db *gorm.DB, userID, reportID uuid.UUID) error {
	report, err := loadOwned(db, userID, reportID)
	if err != nil {
		return err
	}
	if report.Status == constants.ReportStatusReviewed {
		return apperr.Conflict("Laporan yang sudah direview tidak bisa dihapus")
	}
	if err := db.Select("Attachments").Delete(report).Error; err != nil {
		return apperr.Internal("gagal hapus laporan", err)
	}
	return nil
}

func actionForReportStatus(status string) (auditModel.Action, error) {
	switch status {
	case constants.ReportStatusReviewed:
		return auditModel.ActionReportReviewed, nil
	case constants.ReportStatusNeedRevision:
		return auditModel.ActionReportNeedRevision, nil
	default:
		return "", apperr.Validation("Status review tidak dikenal: " + status)
	}
}

// Review: admin menutup laporan submitted jadi reviewed (final) atau
// mengembalikannya sebagai need_revision.
func Review(db *gorm.DB, adminID, reportID uuid.UUID, newStatus string, note *string) (*reportModel.ProgressReportModel, error) {
	action, err := actionForReportStatus(newStatus)
	if err != nil {
		return nil, err
	}

	var report reportModel.ProgressReportModel
	if err := db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Laporan tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load laporan", err)
	}
	if report.Status != constants.ReportStatusSubmitted {
		return nil, apperr.Conflict("Hanya laporan submitted yang bisa direview")
	}

	now := time.Now().UTC()
	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":      newStatus,
			"review_note": note,
			"reviewer_id": adminID,
			"reviewed_at": now,
		}
		if err := tx.Model(&report).Updates(updates).Error; err != nil {
			return err
		}
		detail := map[string]any{"report_id": report.ID.String()}
		if note != nil {
			detail["note"] = *note
		}
		return audit.Record(tx, adminID, action, &report.UserID, detail)
	})
	if err != nil {
		return nil, apperr.Internal("gagal review laporan", err)
	}

	report.Status = newStatus
	report.ReviewNote = note
	report.ReviewerID = &adminID
	report.ReviewedAt = &now
	return &report, nil
}

// ListByUser: laporan milik mahasiswa, terbaru dulu.
func ListByUser(db *gorm.DB, userID uuid.UUID) ([]reportModel.ProgressReportModel, error) {
	var rows []reportModel.ProgressReportModel
	if err := db.Preload("Attachments").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperr.Internal("gagal ambil laporan", err)
	}
	return rows, nil
}

// ListSubmitted: antrean review admin.
func ListSubmitted(db *gorm.DB, limit, offset int) ([]reportModel.ProgressReportModel, int64, error) {
	var total int64
	q := db.Model(&reportModel.ProgressReportModel{}).Where("status = ?", constants.ReportStatusSubmitted)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("gagal hitung antrean", err)
	}
	var rows []reportModel.ProgressReportModel
	if err := db.Preload("Attachments").
		Where("status = ?", constants.ReportStatusSubmitted).
		Order("submitted_at ASC").Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("gagal ambil antrean", err)
	}
	return rows, total, nil
}

func loadOwned(db *gorm.DB, userID, reportID uuid.UUID) (*reportModel.ProgressReportModel, error) {
	var report reportModel.ProgressReportModel
	if err := db.Preload("Attachments").First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Laporan tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load laporan", err)
	}
	if report.UserID != userID {
		return nil, apperr.Permission("Bukan laporan milik Anda")
	}
	return &report, nil
}
