package seeds

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/configs"
	"beasiswaku_backend/internals/constants"
	userModel "beasiswaku_backend/internals/features/users/user/model"
)

// SeedAdminFromEnv membuat akun admin pertama dari ADMIN_EMAIL/ADMIN_PASSWORD
// bila belum ada admin sama sekali. Idempotent: tidak menyentuh apa pun kalau
// admin sudah terdaftar.
func SeedAdminFromEnv(db *gorm.DB) error {
	email := configs.GetEnv("ADMIN_EMAIL")
	password := configs.GetEnv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&userModel.UserModel{}).
		Where("role = ?", constants.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	now := time.Now().UTC()

	admin := userModel.UserModel{
		Email:           email,
		Password:        &hashStr,
		Role:            constants.RoleAdmin,
		Status:          constants.UserStatusApproved,
		EmailVerifiedAt: &now,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("[SEED] Admin pertama dibuat: %s", email)
	return nil
}
