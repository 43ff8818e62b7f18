package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/features/scholarships/scholarship/service"
	helpers "beasiswaku_backend/internals/helpers"
)

// ScholarshipController: katalog program beasiswa + milestone.
type ScholarshipController struct {
	DB *gorm.DB
}

func NewScholarshipController(db *gorm.DB) *ScholarshipController {
	return &ScholarshipController{DB: db}
}

// GET /api/public/scholarships — direktori publik program aktif.
func (sc *ScholarshipController) ListActive(c *fiber.Ctx) error {
	rows, err := service.ListActive(sc.DB)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Beasiswa aktif", rows)
}

// GET /api/public/scholarships/:id
func (sc *ScholarshipController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	s, err := service.Get(sc.DB, id)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Detail beasiswa", s)
}

// GET /api/a/scholarships — semua program, termasuk nonaktif.
func (sc *ScholarshipController) ListAll(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 20, 100)
	rows, total, err := service.ListAll(sc.DB, paging.Limit, paging.Offset)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonList(c, "Semua beasiswa", rows,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/a/scholarships
func (sc *ScholarshipController) Create(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input service.ScholarshipInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	s, err := service.Create(sc.DB, adminID, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonCreated(c, "Beasiswa dibuat", s)
}

// PUT /api/a/scholarships/:id
func (sc *ScholarshipController) Update(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var input service.ScholarshipInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	s, err := service.Update(sc.DB, adminID, id, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Beasiswa diperbarui", s)
}

// DELETE /api/a/scholarships/:id — ditolak bila masih punya penerima.
func (sc *ScholarshipController) Delete(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := service.Delete(sc.DB, adminID, id); err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonDeleted(c, "Beasiswa dihapus", nil)
}
