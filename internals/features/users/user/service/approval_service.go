package service

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	"beasiswaku_backend/internals/helpers/apperr"
)

// actionForUserStatus memetakan status tujuan ke aksi audit.
// Switch exhaustive: status baru yang belum dipetakan akan gagal eksplisit,
// tidak diam-diam jatuh ke default.
func actionForUserStatus(status string) (auditModel.Action, error) {
	switch status {
	case constants.UserStatusApproved:
		return auditModel.ActionUserApproved, nil
	case constants.UserStatusRejected:
		return auditModel.ActionUserRejected, nil
	case constants.UserStatusSuspended:
		return auditModel.ActionUserSuspended, nil
	case constants.UserStatusPending:
		return auditModel.ActionUserPending, nil
	default:
		return "", apperr.Validation("Status tidak dikenal: " + status)
	}
}

// SetStatus menjalankan transisi approval user oleh admin.
// Model mengizinkan transisi dari status mana pun ke mana pun
// (termasuk pemulihan dari rejected/suspended kembali ke pending/approved).
func SetStatus(db *gorm.DB, adminID, targetID uuid.UUID, newStatus string) (*userModel.UserModel, error) {
	action, err := actionForUserStatus(newStatus)
	if err != nil {
		return nil, err
	}

	var target userModel.UserModel
	if err := db.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Pengguna tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load user", err)
	}

	// Guard: admin tidak bisa (sengaja atau tidak) men-demote admin lain.
	if !target.IsStudent() {
		return nil, apperr.Permission("Status hanya bisa diubah untuk akun mahasiswa")
	}

	oldStatus := target.Status

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&target).Update("status", newStatus).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, action, &target.ID, map[string]any{
			"old_status": oldStatus,
			"new_status": newStatus,
		})
	})
	if err != nil {
		return nil, apperr.Internal("gagal update status user", err)
	}

	target.Status = newStatus
	return &target, nil
}

// CreateByAdmin membuat akun baru oleh admin; langsung approved dan
// email dianggap terverifikasi (akun dibuat internal).
func CreateByAdmin(db *gorm.DB, adminID uuid.UUID, email, password, role string) (*userModel.UserModel, error) {
	if role != constants.RoleStudent && role != constants.RoleAdmin {
		return nil, apperr.Validation("Role harus student atau admin")
	}
	if len(password) < 8 {
		return nil, apperr.Validation("Password minimal 8 karakter")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("gagal hash password", err)
	}
	hashStr := string(hash)
	now := nowUTC()

	user := userModel.UserModel{
		Email:           email,
		Password:        &hashStr,
		Role:            role,
		Status:          constants.UserStatusApproved,
		EmailVerifiedAt: &now,
	}
	if err := user.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, auditModel.ActionUserCreated, &user.ID, map[string]any{
			"email": email,
			"role":  role,
		})
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("Email sudah terdaftar")
		}
		return nil, apperr.Internal("gagal membuat user", err)
	}

	return &user, nil
}
