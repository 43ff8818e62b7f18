package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	scholarshipModel "beasiswaku_backend/internals/features/scholarships/scholarship/model"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	"beasiswaku_backend/internals/helpers/apperr"
)

func nowUTC() time.Time { return time.Now().UTC() }

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "duplicate key") || strings.Contains(low, "unique")
}

// ProfileInput: field yang boleh diubah mahasiswa sendiri maupun admin.
type ProfileInput struct {
	FullName      string     `json:"full_name"`
	Nickname      string     `json:"nickname"`
	StudentCode   string     `json:"student_code"`
	Major         string     `json:"major"`
	DegreeLevel   string     `json:"degree_level"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	ScholarshipID *uuid.UUID `json:"scholarship_id"`
}

func (in *ProfileInput) applyTo(p *userModel.StudentProfileModel) {
	p.FullName = strings.TrimSpace(in.FullName)
	p.Nickname = strings.TrimSpace(in.Nickname)
	p.StudentCode = strings.TrimSpace(in.StudentCode)
	p.Major = strings.TrimSpace(in.Major)
	p.DegreeLevel = in.DegreeLevel
	p.Phone = strings.TrimSpace(in.Phone)
	p.Address = strings.TrimSpace(in.Address)
	p.ScholarshipID = in.ScholarshipID
}

func validateScholarshipRef(db *gorm.DB, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := db.Model(&scholarshipModel.ScholarshipModel{}).
		Where("id = ? AND active = ?", *id, true).
		Count(&count).Error; err != nil {
		return apperr.Internal("gagal cek beasiswa", err)
	}
	if count == 0 {
		return apperr.Validation("Beasiswa tidak ditemukan atau sudah tidak aktif")
	}
	return nil
}

// UpsertOwnProfile: self-service mahasiswa (buat atau update profil sendiri).
func UpsertOwnProfile(db *gorm.DB, userID uuid.UUID, in ProfileInput) (*userModel.StudentProfileModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Pengguna tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load user", err)
	}
	if !user.IsStudent() {
		return nil, apperr.Permission("Hanya mahasiswa yang punya profil")
	}
	if err := validateScholarshipRef(db, in.ScholarshipID); err != nil {
		return nil, err
	}

	var profile userModel.StudentProfileModel
	err := db.First(&profile, "user_id = ?", userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = userModel.StudentProfileModel{UserID: userID}
	case err != nil:
		return nil, apperr.Internal("gagal load profil", err)
	}

	in.applyTo(&profile)
	if err := profile.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	if err := db.Save(&profile).Error; err != nil {
		return nil, apperr.Internal("gagal simpan profil", err)
	}
	return &profile, nil
}

// OverrideProfile: koreksi profil oleh admin, diaudit.
func OverrideProfile(db *gorm.DB, adminID, targetUserID uuid.UUID, in ProfileInput) (*userModel.StudentProfileModel, error) {
	var profile userModel.StudentProfileModel
	if err := db.First(&profile, "user_id = ?", targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Profil tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load profil", err)
	}
	if err := validateScholarshipRef(db, in.ScholarshipID); err != nil {
		return nil, err
	}

	in.applyTo(&profile)
	if err := profile.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, auditModel.ActionProfileOverridden, &targetUserID, map[string]any{
			"student_code": profile.StudentCode,
		})
	})
	if err != nil {
		return nil, apperr.Internal("gagal simpan profil", err)
	}
	return &profile, nil
}
