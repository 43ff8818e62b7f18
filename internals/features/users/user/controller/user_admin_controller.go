package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	"beasiswaku_backend/internals/features/users/user/service"
	helpers "beasiswaku_backend/internals/helpers"
)

// ClaimInvalidator membuang klaim sesi yang di-cache untuk satu user sehingga
// perubahan status/scholarship langsung terlihat, tanpa menunggu TTL cache.
type ClaimInvalidator interface {
	Invalidate(userID uuid.UUID)
}

// UserAdminController: manajemen akun oleh admin (list, approval, create).
type UserAdminController struct {
	DB     *gorm.DB
	Claims ClaimInvalidator
}

func NewUserAdminController(db *gorm.DB, claims ClaimInvalidator) *UserAdminController {
	return &UserAdminController{DB: db, Claims: claims}
}

// GET /api/a/users?status=&role=&q=&page=&per_page=
func (uc *UserAdminController) List(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 20, 100)

	q := uc.DB.Model(&userModel.UserModel{}).Preload("Profile")
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !constants.IsValidUserStatus(status) {
			return helpers.JsonError(c, fiber.StatusBadRequest, "Status tidak dikenal: "+status)
		}
		q = q.Where("status = ?", status)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(email) LIKE ? OR id IN (?)",
			like,
			uc.DB.Model(&userModel.StudentProfileModel{}).
				Select("user_id").
				Where("LOWER(full_name) LIKE ? OR student_code LIKE ?", like, "%"+search+"%"),
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung user")
	}
	var users []userModel.UserModel
	if err := q.Order("created_at DESC").Limit(paging.Limit).Offset(paging.Offset).Find(&users).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}

	return helpers.JsonList(c, "Daftar user", users,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/a/users/:id
func (uc *UserAdminController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var user userModel.UserModel
	if err := uc.DB.Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusNotFound, "Pengguna tidak ditemukan")
	}
	return helpers.JsonOK(c, "Detail user", user)
}

func (uc *UserAdminController) setStatus(c *fiber.Ctx, status string) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	user, err := service.SetStatus(uc.DB, adminID, targetID, status)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	if uc.Claims != nil {
		uc.Claims.Invalidate(targetID)
	}
	return helpers.JsonUpdated(c, "Status user diperbarui", user)
}

// POST /api/a/users/:id/approve
func (uc *UserAdminController) Approve(c *fiber.Ctx) error {
	return uc.setStatus(c, constants.UserStatusApproved)
}

// POST /api/a/users/:id/reject
func (uc *UserAdminController) Reject(c *fiber.Ctx) error {
	return uc.setStatus(c, constants.UserStatusRejected)
}

// POST /api/a/users/:id/suspend
func (uc *UserAdminController) Suspend(c *fiber.Ctx) error {
	return uc.setStatus(c, constants.UserStatusSuspended)
}

// POST /api/a/users/:id/restore — kembalikan akun suspended/rejected.
func (uc *UserAdminController) Restore(c *fiber.Ctx) error {
	return uc.setStatus(c, constants.UserStatusApproved)
}

// POST /api/a/users — buat akun langsung approved (mis. staf baru).
func (uc *UserAdminController) Create(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if input.Role == "" {
		input.Role = constants.RoleStudent
	}
	user, err := service.CreateByAdmin(uc.DB, adminID, strings.ToLower(strings.TrimSpace(input.Email)), input.Password, input.Role)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonCreated(c, "User dibuat", user)
}

// PUT /api/a/users/:id/profile — koreksi profil oleh admin (diaudit).
func (uc *UserAdminController) OverrideProfile(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var input service.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	profile, err := service.OverrideProfile(uc.DB, adminID, targetID, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	// klaim scholarship_id di sesi ikut berubah
	if uc.Claims != nil {
		uc.Claims.Invalidate(targetID)
	}
	return helpers.JsonUpdated(c, "Profil diperbarui", profile)
}
