package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/features/documents/document/service"
	helpers "beasiswaku_backend/internals/helpers"
)

// DocumentController: pustaka dokumen (formulir, panduan, template).
type DocumentController struct {
	DB *gorm.DB
}

func NewDocumentController(db *gorm.DB) *DocumentController {
	return &DocumentController{DB: db}
}

// POST /api/a/documents
func (dc *DocumentController) Create(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input service.CreateDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	doc, err := service.Create(dc.DB, adminID, input)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonCreated(c, "Dokumen dibuat", doc)
}

// POST /api/a/documents/:id/publish
func (dc *DocumentController) Publish(c *fiber.Ctx) error {
	return dc.setPublished(c, true)
}

// POST /api/a/documents/:id/unpublish
func (dc *DocumentController) Unpublish(c *fiber.Ctx) error {
	return dc.setPublished(c, false)
}

func (dc *DocumentController) setPublished(c *fiber.Ctx, published bool) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	doc, err := service.SetPublished(dc.DB, adminID, id, published)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Status publikasi diperbarui", doc)
}

// DELETE /api/a/documents/:id
func (dc *DocumentController) Delete(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := service.Delete(dc.DB, adminID, id); err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonDeleted(c, "Dokumen dihapus", nil)
}

// GET /api/a/documents
func (dc *DocumentController) ListAll(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 20, 100)
	rows, total, err := service.ListAll(dc.DB, paging.Limit, paging.Offset)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonList(c, "Semua dokumen", rows,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/u/documents — hanya yang published dan dalam scope saya.
func (dc *DocumentController) ListMine(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	rows, err := service.ListForStudent(dc.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Dokumen untuk saya", rows)
}
