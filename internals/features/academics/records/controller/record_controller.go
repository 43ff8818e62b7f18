package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/features/academics/records/service"
	helpers "beasiswaku_backend/internals/helpers"
)

// RecordController: laporan GPA/GPAX per semester.
type RecordController struct {
	DB *gorm.DB
}

func NewRecordController(db *gorm.DB) *RecordController {
	return &RecordController{DB: db}
}

// POST /api/u/records
func (rc *RecordController) Create(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input service.CreateRecordInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	rec, err := service.Create(rc.DB, userID, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonCreated(c, "Laporan nilai dibuat", rec)
}

// GET /api/u/records
func (rc *RecordController) ListMine(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	recs, err := service.ListByUser(rc.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Laporan nilai saya", recs)
}

// DELETE /api/u/records/:id
func (rc *RecordController) Delete(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := service.Delete(rc.DB, userID, recordID); err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonDeleted(c, "Laporan nilai dihapus", nil)
}

// GET /api/a/records/pending
func (rc *RecordController) ListPending(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 20, 100)
	recs, total, err := service.ListPending(rc.DB, paging.Limit, paging.Offset)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonList(c, "Antrean verifikasi nilai", recs,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/a/records/:id/review  {status, note}
func (rc *RecordController) Review(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	recordID, err := uuid.Parse(c.Params("id"))
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
	rec, err := service.Review(rc.DB, adminID, recordID, input.Status, input.Note)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Laporan nilai direview", rec)
}

// POST /api/a/records/:id/edit-verify  {gpa, gpax}
func (rc *RecordController) EditAndVerify(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var input struct {
		GPA  float64  `json:"gpa"`
		GPAX *float64 `json:"gpax,omitempty"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	rec, err := service.EditAndVerify(rc.DB, adminID, recordID, input.GPA, input.GPAX)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Laporan nilai dikoreksi dan diverifikasi", rec)
}

// GET /api/a/users/:id/records — riwayat nilai satu mahasiswa.
func (rc *RecordController) ListByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	recs, err := service.ListByUser(rc.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Riwayat nilai", recs)
}
