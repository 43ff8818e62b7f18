package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	threadModel "beasiswaku_backend/internals/features/messages/threads/model"
	"beasiswaku_backend/internals/features/messages/threads/service"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	helpers "beasiswaku_backend/internals/helpers"
	"beasiswaku_backend/internals/notifier"
)

// ThreadController: pesan dua arah mahasiswa <-> staf.
type ThreadController struct {
	DB       *gorm.DB
	Producer *notifier.Producer
}

func NewThreadController(db *gorm.DB, prod *notifier.Producer) *ThreadController {
	return &ThreadController{DB: db, Producer: prod}
}

// POST /api/u/threads  {subject, content}
func (tc *ThreadController) Create(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	var input struct {
		Subject string `json:"subject"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	thread, err := service.CreateThread(tc.DB, userID, input.Subject, input.Content)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonCreated(c, "Thread dibuat", thread)
}

// POST /api/u/threads/:id/reply dan /api/a/threads/:id/reply
func (tc *ThreadController) Reply(c *fiber.Ctx) error {
	senderID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	role := helpers.GetUserRole(c)
	threadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	msg, err := service.Reply(tc.DB, senderID, role, threadID, input.Content)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}

	// balasan staf memicu email notifikasi ke mahasiswa (setelah commit,
	// best-effort)
	if role == constants.RoleAdmin {
		tc.notifyStudent(threadID, input.Content)
	}

	return helpers.JsonCreated(c, "Pesan terkirim", msg)
}

// truncatePreview memotong konten di batas rune, bukan byte — konten bisa
// Thai/multibyte dan byte-slice bisa membelah satu karakter.
func truncatePreview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

func (tc *ThreadController) notifyStudent(threadID uuid.UUID, preview string) {
	var thread threadModel.MessageThreadModel
	if err := tc.DB.First(&thread, "id = ?", threadID).Error; err != nil {
		return
	}
	var owner userModel.UserModel
	if err := tc.DB.First(&owner, "id = ?", thread.UserID).Error; err != nil {
		return
	}
	preview = truncatePreview(preview, 120)
	tc.Producer.Publish(notifier.Event{
		Type:    notifier.EventThreadReply,
		Email:   owner.Email,
		Subject: thread.Subject,
		Name:    strings.TrimSpace(preview),
	})
}

// POST /api/u/threads/:id/read (dan versi admin)
func (tc *ThreadController) MarkRead(c *fiber.Ctx) error {
	readerID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := service.MarkRead(tc.DB, readerID, helpers.GetUserRole(c), threadID); err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Pesan ditandai terbaca", nil)
}

// POST /api/a/threads/:id/close
func (tc *ThreadController) Close(c *fiber.Ctx) error {
	adminID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	thread, err := service.Close(tc.DB, adminID, threadID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonUpdated(c, "Thread ditutup", thread)
}

// GET /api/u/threads
func (tc *ThreadController) ListMine(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	rows, err := service.ListForUser(tc.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Thread saya", rows)
}

// GET /api/a/threads?status=
func (tc *ThreadController) ListAll(c *fiber.Ctx) error {
	paging := helpers.ResolvePaging(c, 20, 100)
	rows, total, err := service.ListAll(tc.DB, strings.TrimSpace(c.Query("status")), paging.Limit, paging.Offset)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonList(c, "Inbox", rows,
		helpers.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/u/threads/:id (dan versi admin)
func (tc *ThreadController) Detail(c *fiber.Ctx) error {
	readerID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	thread, err := service.GetWithMessages(tc.DB, readerID, helpers.GetUserRole(c), threadID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Detail thread", thread)
}

// GET /api/u/threads/unread-count
func (tc *ThreadController) UnreadCount(c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}
	count, err := service.UnreadCount(tc.DB, userID)
	if err != nil {
		return helpers.JsonAppError(c, err)
	}
	return helpers.JsonOK(c, "Jumlah belum terbaca", fiber.Map{"unread": count})
}
