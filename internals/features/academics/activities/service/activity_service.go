package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	activityModel "beasiswaku_backend/internals/features/academics/activities/model"
	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	"beasiswaku_backend/internals/helpers/apperr"
)

// MatchCriteria: filter scope fan-out. Field nil berarti tanpa batasan;
// semua field terisi digabung AND.
type MatchCriteria struct {
	ScholarshipID *uuid.UUID `json:"scholarship_id,omitempty"`
	DegreeLevel   *string    `json:"degree_level,omitempty"`
	YearLevel     *int       `json:"year_level,omitempty"`
}

func (c MatchCriteria) validate() error {
	if c.DegreeLevel != nil && !constants.IsValidDegreeLevel(*c.DegreeLevel) {
		return apperr.Validation("Jenjang studi tidak dikenal: " + *c.DegreeLevel)
	}
	if c.YearLevel != nil && (*c.YearLevel < 1 || *c.YearLevel > 8) {
		return apperr.Validation("Tingkat tahun harus 1-8")
	}
	return nil
}

// matchStudents mengevaluasi kriteria terhadap mahasiswa approved saat ini.
// Beasiswa & jenjang difilter di SQL; tingkat tahun dihitung dari kode
// mahasiswa, jadi difilter di aplikasi.
func matchStudents(db *gorm.DB, c MatchCriteria, now time.Time) ([]uuid.UUID, error) {
	q := db.Model(&userModel.StudentProfileModel{}).
		Joins("JOIN users ON users.id = student_profiles.user_id").
		Where("users.role = ? AND users.status = ?", constants.RoleStudent, constants.UserStatusApproved)
	if c.ScholarshipID != nil {
		q = q.Where("student_profiles.scholarship_id = ?", *c.ScholarshipID)
	}
	if c.DegreeLevel != nil {
		q = q.Where("student_profiles.degree_level = ?", *c.DegreeLevel)
	}

	var profiles []userModel.StudentProfileModel
	if err := q.Find(&profiles).Error; err != nil {
		return nil, apperr.Internal("gagal cari mahasiswa", err)
	}

	var ids []uuid.UUID
	for _, p := range profiles {
		if c.YearLevel != nil && p.YearLevel(now) != *c.YearLevel {
			continue
		}
		ids = append(ids, p.UserID)
	}
	return ids, nil
}

type CreateActivityInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	Criteria    MatchCriteria `json:"criteria"`
}

// CreateWithFanOut membuat kegiatan lalu snapshot pesertanya dalam satu
// transaksi. Peserta dikunci saat pembuatan: perubahan profil setelah ini
// tidak menggeser daftar hadir.
func CreateWithFanOut(db *gorm.DB, adminID uuid.UUID, in CreateActivityInput) (*activityModel.MandatoryActivityModel, int, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, 0, apperr.Validation("Judul kegiatan wajib diisi")
	}
	if in.Date.IsZero() {
		return nil, 0, apperr.Validation("Tanggal kegiatan wajib diisi")
	}
	if err := in.Criteria.validate(); err != nil {
		return nil, 0, err
	}

	memberIDs, err := matchStudents(db, in.Criteria, time.Now())
	if err != nil {
		return nil, 0, err
	}

	activity := activityModel.MandatoryActivityModel{
		Title:         title,
		Description:   in.Description,
		Date:          in.Date,
		ScholarshipID: in.Criteria.ScholarshipID,
		DegreeLevel:   in.Criteria.DegreeLevel,
		YearLevel:     in.Criteria.YearLevel,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}
		if len(memberIDs) > 0 {
			rows := make([]activityModel.ActivityParticipationModel, 0, len(memberIDs))
			for _, uid := range memberIDs {
				rows = append(rows, activityModel.ActivityParticipationModel{
					ActivityID: activity.ID,
					UserID:     uid,
				})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return err
			}
		}
		return audit.Record(tx, adminID, auditModel.ActionActivityCreated, nil, map[string]any{
			"activity_id": activity.ID.String(),
			"title":       title,
			"members":     len(memberIDs),
		})
	})
	if err != nil {
		return nil, 0, apperr.Internal("gagal membuat kegiatan", err)
	}

	return &activity, len(memberIDs), nil
}

// SetAttendance menandai hadir/tidak untuk satu peserta snapshot.
func SetAttendance(db *gorm.DB, adminID, activityID, studentID uuid.UUID, attended bool) error {
	var part activityModel.ActivityParticipationModel
	err := db.First(&part, "activity_id = ? AND user_id = ?", activityID, studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Mahasiswa bukan peserta kegiatan ini")
	}
	if err != nil {
		return apperr.Internal("gagal load kehadiran", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&part).Update("attended", attended).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, auditModel.ActionAttendanceSet, &studentID, map[string]any{
			"activity_id": activityID.String(),
			"attended":    attended,
		})
	})
	if err != nil {
		return apperr.Internal("gagal update kehadiran", err)
	}
	return nil
}

// Delete menghapus kegiatan beserta seluruh baris kehadirannya.
func Delete(db *gorm.DB, adminID, activityID uuid.UUID) error {
	var activity activityModel.MandatoryActivityModel
	if err := db.First(&activity, "id = ?", activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Kegiatan tidak ditemukan")
		}
		return apperr.Internal("gagal load kegiatan", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", activityID).
			Delete(&activityModel.ActivityParticipationModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&activity).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, auditModel.ActionActivityDeleted, nil, map[string]any{
			"activity_id": activityID.String(),
			"title":       activity.Title,
		})
	})
	if err != nil {
		return apperr.Internal("gagal hapus kegiatan", err)
	}
	return nil
}

// ListForStudent: kegiatan di mana mahasiswa tersebut jadi peserta snapshot.
func ListForStudent(db *gorm.DB, userID uuid.UUID) ([]activityModel.MandatoryActivityModel, error) {
	var rows []activityModel.MandatoryActivityModel
	err := db.
		Joins("JOIN activity_participations ap ON ap.activity_id = mandatory_activities.id").
		Where("ap.user_id = ?", userID).
		Order("mandatory_activities.date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Internal("gagal ambil kegiatan", err)
	}
	return rows, nil
}

// ListAll untuk admin, berikut jumlah peserta dan kehadiran per kegiatan.
func ListAll(db *gorm.DB, limit, offset int) ([]activityModel.MandatoryActivityModel, int64, error) {
	var total int64
	if err := db.Model(&activityModel.MandatoryActivityModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("gagal hitung kegiatan", err)
	}
	var rows []activityModel.MandatoryActivityModel
	if err := db.Preload("Participations").
		Order("date DESC").Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("gagal ambil kegiatan", err)
	}
	return rows, total, nil
}

// GetWithParticipants memuat satu kegiatan dengan daftar hadirnya.
func GetWithParticipants(db *gorm.DB, activityID uuid.UUID) (*activityModel.MandatoryActivityModel, error) {
	var activity activityModel.MandatoryActivityModel
	if err := db.Preload("Participations").First(&activity, "id = ?", activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Kegiatan tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load kegiatan", err)
	}
	return &activity, nil
}
