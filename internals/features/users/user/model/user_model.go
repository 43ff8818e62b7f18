package model

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
)

// Validator instance
var validate = validator.New()

// UserModel merepresentasikan tabel users di database.
// Password nullable: akun Google tidak punya password lokal.
type UserModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password        *string    `gorm:"size:255" json:"-"`
	GoogleID        *string    `gorm:"size:255;unique" json:"-"`
	Role            string     `gorm:"type:varchar(20);not null;default:'student'" json:"role" validate:"omitempty,oneof=student admin"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status" validate:"omitempty,oneof=pending approved rejected suspended"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Profile *StudentProfileModel `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetDefaultValues memastikan nilai default sebelum validasi
func (u *UserModel) SetDefaultValues() {
	if u.Role == "" {
		u.Role = constants.RoleStudent
	}
	if u.Status == "" {
		u.Status = constants.UserStatusPending
	}
}

func (u *UserModel) IsStudent() bool { return u.Role == constants.RoleStudent }
func (u *UserModel) IsAdmin() bool   { return u.Role == constants.RoleAdmin }

// Validate memeriksa apakah input sesuai aturan yang telah didefinisikan
func (u *UserModel) Validate() error {
	u.SetDefaultValues()

	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var msg string
		for _, fieldErr := range validationErrs {
			switch fieldErr.Tag() {
			case "required":
				msg += fieldErr.Field() + " wajib diisi. "
			case "email":
				msg += "Format email tidak valid. "
			case "oneof":
				msg += fieldErr.Field() + " harus salah satu dari " + fieldErr.Param() + ". "
			case "min":
				msg += fieldErr.Field() + " minimal " + fieldErr.Param() + " karakter. "
			case "max":
				msg += fieldErr.Field() + " maksimal " + fieldErr.Param() + " karakter. "
			default:
				msg += fieldErr.Field() + ": format tidak valid. "
			}
		}
		return errors.New(msg)
	}
	return err
}
