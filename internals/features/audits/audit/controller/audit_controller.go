package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	helpers "beasiswaku_backend/internals/helpers"
)

// AuditController: baca saja — ledger tidak pernah dimutasi lewat API.
type AuditController struct {
	DB *gorm.DB
}

func NewAuditController(db *gorm.DB) *AuditController {
	return &AuditController{DB: db}
}

// GET /api/a/audit-logs?action=&actor_id=&target_user_id=&page=&per_page=
func (ac *AuditController) List(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 50, 200)

	q := ac.DB.Model(&auditModel.AuditLogModel{})
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		q = q.Where("action = ?", action)
	}
	if actor := strings.TrimSpace(c.Query("actor_id")); actor != "" {
		id, err := uuid.Parse(actor)
		if err != nil {
			return helpers.JsonError(c, fiber.StatusBadRequest, "actor_id tidak valid")
		}
		q = q.Where("actor_id = ?", id)
	}
	if target := strings.TrimSpace(c.Query("target_user_id")); target != "" {
		id, err := uuid.Parse(target)
		if err != nil {
			return helpers.JsonError(c, fiber.StatusBadRequest, "target_user_id tidak valid")
		}
		q = q.Where("target_user_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung audit log")
	}
	var logs []auditModel.AuditLogModel
	if err := q.Order("created_at DESC").Limit(paging.Limit).Offset(paging.Offset).Find(&logs).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil audit log")
	}

	return helpers.JsonList(c, "Audit log", logs,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}
