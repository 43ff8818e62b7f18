package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	"beasiswaku_backend/internals/features/users/user/service"
	helpers "beasiswaku_backend/internals/helpers"
	"beasiswaku_backend/internals/helpers/storage"
)

// ProfileController: profil mahasiswa (self-service).
type ProfileController struct {
	DB      *gorm.DB
	Storage *storage.Client
}

func NewProfileController(db *gorm.DB, st *storage.Client) *ProfileController {
	return &ProfileController{DB: db, Storage: st}
}

// GET /api/u/me
func (pc *ProfileController) Me(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var user userModel.UserModel
	if err := pc.DB.Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusNotFound, "Pengguna tidak ditemukan")
	}

	resp := fiber.Map{"user": user}
	if user.Profile != nil {
		// year_level diturunkan saat dibaca, tidak pernah disimpan
		resp["year_level"] = user.Profile.YearLevel(time.Now())
	}
	return helpers.JsonOK(c, "Profil saya", resp)
}

// PUT /api/u/me/profile
func (pc *ProfileController) UpsertProfile(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input service.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	profile, err := service.UpsertOwnProfile(pc.DB, userID, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Profil disimpan", profile)
}

// POST /api/u/me/photo — foto profil dinormalisasi ke WebP 512x512.
func (pc *ProfileController) UploadPhoto(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "File foto tidak ada")
	}

	result, err := pc.Storage.UploadProfileImage(constants.UploadFolderProfile, fh, constants.MaxImageUploadSize)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helpers.JsonOK(c, "Foto profil diupload", fiber.Map{
		"url":     result.URL,
		"name":    result.Name,
		"size":    result.Size,
		"type":    result.Type,
		"user_id": userID,
	})
}
