package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/features/academics/achievements/service"
	helpers "beasiswaku_backend/internals/helpers"
)

// AchievementController: portofolio prestasi mahasiswa.
type AchievementController struct {
	DB *gorm.DB
}

func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{DB: db}
}

// POST /api/u/achievements
func (ac *AchievementController) Create(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input service.CreateAchievementInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	ach, err := service.Create(ac.DB, userID, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonCreated(c, "Prestasi ditambahkan", ach)
}

// GET /api/u/achievements
func (ac *AchievementController) ListMine(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	rows, err := service.ListByUser(ac.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Prestasi saya", rows)
}

// PUT /api/u/achievements/:id
func (ac *AchievementController) Update(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var input service.CreateAchievementInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	ach, err := service.Update(ac.DB, userID, id, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Prestasi diperbarui", ach)
}

// DELETE /api/u/achievements/:id
func (ac *AchievementController) Delete(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := service.Delete(ac.DB, userID, id); err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonDeleted(c, "Prestasi dihapus", nil)
}

// GET /api/a/achievements/pending
func (ac *AchievementController) ListPending(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 20, 100)
	rows, total, err := service.ListPending(ac.DB, paging.Limit, paging.Offset)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonList(c, "Antrean verifikasi prestasi", rows,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/a/achievements/:id/review  {status, note}
func (ac *AchievementController) Review(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var input struct {
		Status string  `json:"status"`
		Note   *string `json:"note,omitempty"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	ach, err := service.Review(ac.DB, adminID, id, input.Status, input.Note)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Prestasi direview", ach)
}

// GET /api/a/users/:id/achievements
func (ac *AchievementController) ListByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	rows, err := service.ListByUser(ac.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Portofolio mahasiswa", rows)
}
