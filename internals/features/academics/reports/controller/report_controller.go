package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/features/academics/reports/service"
	helpers "beasiswaku_backend/internals/helpers"
)

// ReportController: laporan progres terhadap milestone beasiswa.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// POST /api/u/reports
func (rc *ReportController) Create(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input service.CreateReportInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	report, err := service.Create(rc.DB, userID, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonCreated(c, "Laporan dibuat (draft)", report)
}

// GET /api/u/reports
func (rc *ReportController) ListMine(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	rows, err := service.ListByUser(rc.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Laporan saya", rows)
}

// PUT /api/u/reports/:id
func (rc *ReportController) Update(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var input service.CreateReportInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	report, err := service.UpdateDraft(rc.DB, userID, id, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Laporan diperbarui", report)
}

// POST /api/u/reports/:id/submit
func (rc *ReportController) Submit(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	report, err := service.Submit(rc.DB, userID, id)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Laporan disubmit", report)
}

// DELETE /api/u/reports/:id
func (rc *ReportController) Delete(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := service.Delete(rc.DB, userID, id); err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonDeleted(c, "Laporan dihapus", nil)
}

// GET /api/a/reports/submitted
func (rc *ReportController) ListSubmitted(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 20, 100)
	rows, total, err := service.ListSubmitted(rc.DB, paging.Limit, paging.Offset)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonList(c, "Antrean review laporan", rows,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/a/reports/:id/review  {status, note}
func (rc *ReportController) Review(c *fiber.Ctx) error {
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
	report, err := service.Review(rc.DB, adminID, id, input.Status, input.Note)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Laporan direview", report)
}
