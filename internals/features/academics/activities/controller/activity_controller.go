package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/features/academics/activities/service"
	helpers "beasiswaku_backend/internals/helpers"
)

// ActivityController: kegiatan wajib + kehadiran.
type ActivityController struct {
	DB *gorm.DB
}

func NewActivityController(db *gorm.DB) *ActivityController {
	return &ActivityController{DB: db}
}

// POST /api/a/activities — buat kegiatan + fan-out peserta.
func (ac *ActivityController) Create(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input service.CreateActivityInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	activity, members, err := service.CreateWithFanOut(ac.DB, adminID, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonCreated(c, "Kegiatan dibuat", fiber.Map{
		"activity": activity,
		"members":  members,
	})
}

// GET /api/a/activities
func (ac *ActivityController) ListAll(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 20, 100)
	rows, total, err := service.ListAll(ac.DB, paging.Limit, paging.Offset)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonList(c, "Daftar kegiatan", rows,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/a/activities/:id
func (ac *ActivityController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	activity, err := service.GetWithParticipants(ac.DB, id)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Detail kegiatan", activity)
}

// POST /api/a/activities/:id/attendance  {user_id, attended}
func (ac *ActivityController) SetAttendance(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var input struct {
		UserID   uuid.UUID `json:"user_id"`
		Attended bool      `json:"attended"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := service.SetAttendance(ac.DB, adminID, activityID, input.UserID, input.Attended); err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Kehadiran diperbarui", nil)
}

// DELETE /api/a/activities/:id
func (ac *ActivityController) Delete(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := service.Delete(ac.DB, adminID, id); err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonDeleted(c, "Kegiatan dihapus", nil)
}

// GET /api/u/activities — kegiatan yang mencakup saya.
func (ac *ActivityController) ListMine(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	rows, err := service.ListForStudent(ac.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Kegiatan saya", rows)
}
