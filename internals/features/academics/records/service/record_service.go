package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	recordModel "beasiswaku_backend/internals/features/academics/records/model"
	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	helpers "beasiswaku_backend/internals/helpers"
	"beasiswaku_backend/internals/helpers/apperr"
)

var academicYearRe = regexp.MustCompile(`^\d{4}$`)

type CreateRecordInput struct {
	AcademicYear  string   `json:"academic_year"`
	Semester      string   `json:"semester"`
	GPA           float64  `json:"gpa"`
	GPAX          *float64 `json:"gpax,omitempty"`
	TranscriptURL *string  `json:"transcript_url,omitempty"`
}

func (in *CreateRecordInput) validate() error {
	if !academicYearRe.MatchString(in.AcademicYear) {
		return apperr.Validation("Tahun ajaran harus 4 digit (พ.ศ.)")
	}
	if in.Semester != "1" && in.Semester != "2" && in.Semester != "3" {
		return apperr.Validation("Semester harus 1, 2, atau 3")
	}
	if !helpers.ValidGPA(in.GPA) {
		return apperr.Validation("GPA harus di rentang 0.00 - 4.00")
	}
	if in.GPAX != nil && !helpers.ValidGPA(*in.GPAX) {
		return apperr.Validation("GPAX harus di rentang 0.00 - 4.00")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "duplicate key") || strings.Contains(low, "unique")
}

// Create membuat laporan nilai baru milik mahasiswa, status awal pending.
// Satu baris per (user, tahun, semester) — bentrok berarti sudah pernah lapor.
func Create(db *gorm.DB, userID uuid.UUID, in CreateRecordInput) (*recordModel.AcademicRecordModel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	rec := recordModel.AcademicRecordModel{
		UserID:        userID,
		AcademicYear:  in.AcademicYear,
		Semester:      in.Semester,
		GPA:           in.GPA,
		GPAX:          in.GPAX,
		Status:        constants.VerifyStatusPending,
		TranscriptURL: in.TranscriptURL,
	}
	if err := db.Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("Laporan nilai untuk semester ini sudah ada")
		}
		return nil, apperr.Internal("gagal membuat laporan nilai", err)
	}
	return &rec, nil
}

// Delete menghapus laporan milik sendiri. Baris yang sudah verified dikunci;
// pending atau rejected boleh dihapus (lalu dibuat ulang kalau mau revisi).
func Delete(db *gorm.DB, userID, recordID uuid.UUID) error {
	var rec recordModel.AcademicRecordModel
	if err := db.First(&rec, "id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Laporan nilai tidak ditemukan")
		}
		return apperr.Internal("gagal load laporan nilai", err)
	}
	if rec.UserID != userID {
		return apperr.Permission("Bukan laporan milik Anda")
	}
	if rec.Status == constants.VerifyStatusVerified {
		return apperr.Conflict("Laporan yang sudah diverifikasi tidak bisa dihapus")
	}
	if err := db.Delete(&rec).Error; err != nil {
		return apperr.Internal("gagal hapus laporan nilai", err)
	}
	return nil
}

func actionForRecordStatus(status string) (auditModel.Action, error) {
	switch status {
	case constants.VerifyStatusVerified:
		return auditModel.ActionRecordVerified, nil
	case constants.VerifyStatusRejected:
		return auditModel.ActionRecordRejected, nil
	default:
		return "", apperr.Validation("Status review tidak dikenal: " + status)
	}
}

// Review: admin memutuskan verified / rejected atas laporan pending.
func Review(db *gorm.DB, adminID, recordID uuid.UUID, newStatus string, note *string) (*recordModel.AcademicRecordModel, error) {
	action, err := actionForRecordStatus(newStatus)
	if err != nil {
		return nil, err
	}

	var rec recordModel.AcademicRecordModel
	if err := db.First(&rec, "id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Laporan nilai tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load laporan nilai", err)
	}
	if rec.Status == constants.VerifyStatusVerified {
		return nil, apperr.Conflict("Laporan sudah diverifikasi dan terkunci")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":      newStatus,
			"review_note": note,
			"reviewer_id": adminID,
		}
		if err := tx.Model(&rec).Updates(updates).Error; err != nil {
			return err
		}
		detail := map[string]any{
			"record_id":     rec.ID.String(),
			"academic_year": rec.AcademicYear,
			"semester":      rec.Semester,
		}
		if note != nil {
			detail["note"] = *note
		}
		return audit.Record(tx, adminID, action, &rec.UserID, detail)
	})
	if err != nil {
		return nil, apperr.Internal("gagal review laporan nilai", err)
	}

	rec.Status = newStatus
	rec.ReviewNote = note
	rec.ReviewerID = &adminID
	return &rec, nil
}

// EditAndVerify: admin mengoreksi angka yang salah ketik langsung dari
// transkrip, lalu menandai verified dalam satu langkah. Nilai lama tercatat
// di audit supaya koreksi bisa ditelusuri.
func EditAndVerify(db *gorm.DB, adminID, recordID uuid.UUID, gpa float64, gpax *float64) (*recordModel.AcademicRecordModel, error) {
	if !helpers.ValidGPA(gpa) {
		return nil, apperr.Validation("GPA harus di rentang 0.00 - 4.00")
	}
	if gpax != nil && !helpers.ValidGPA(*gpax) {
		return nil, apperr.Validation("GPAX harus di rentang 0.00 - 4.00")
	}

	var rec recordModel.AcademicRecordModel
	if err := db.First(&rec, "id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Laporan nilai tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load laporan nilai", err)
	}

	oldGPA := rec.GPA
	var oldGPAX *float64
	if rec.GPAX != nil {
		v := *rec.GPAX
		oldGPAX = &v
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"gpa":         gpa,
			"gpax":        gpax,
			"status":      constants.VerifyStatusVerified,
			"reviewer_id": adminID,
		}
		if err := tx.Model(&rec).Updates(updates).Error; err != nil {
			return err
		}
		// satu baris audit per transisi: koreksi + keputusan verified jadi
		// satu entri dengan nilai lama dan baru
		detail := map[string]any{
			"record_id":     rec.ID.String(),
			"academic_year": rec.AcademicYear,
			"semester":      rec.Semester,
			"old_gpa":       oldGPA,
			"new_gpa":       gpa,
			"new_status":    constants.VerifyStatusVerified,
		}
		if oldGPAX != nil {
			detail["old_gpax"] = *oldGPAX
		}
		if gpax != nil {
			detail["new_gpax"] = *gpax
		}
		return audit.Record(tx, adminID, auditModel.ActionRecordEdited, &rec.UserID, detail)
	})
	if err != nil {
		return nil, apperr.Internal("gagal edit laporan nilai", err)
	}

	rec.GPA = gpa
	rec.GPAX = gpax
	rec.Status = constants.VerifyStatusVerified
	rec.ReviewerID = &adminID
	return &rec, nil
}

// ListByUser mengembalikan laporan milik satu mahasiswa, urut terbaru.
func ListByUser(db *gorm.DB, userID uuid.UUID) ([]recordModel.AcademicRecordModel, error) {
	var recs []recordModel.AcademicRecordModel
	if err := db.Where("user_id = ?", userID).
		Order("academic_year DESC, semester DESC").
		Find(&recs).Error; err != nil {
		return nil, apperr.Internal("gagal ambil laporan nilai", err)
	}
	return recs, nil
}

// ListPending: antrean review admin, yang paling lama menunggu duluan.
func ListPending(db *gorm.DB, limit, offset int) ([]recordModel.AcademicRecordModel, int64, error) {
	var total int64
	q := db.Model(&recordModel.AcademicRecordModel{}).Where("status = ?", constants.VerifyStatusPending)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("gagal hitung antrean", err)
	}
	var recs []recordModel.AcademicRecordModel
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&recs).Error; err != nil {
		return nil, 0, apperr.Internal("gagal ambil antrean", err)
	}
	return recs, total, nil
}
