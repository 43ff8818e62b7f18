package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	achievementController "beasiswaku_backend/internals/features/academics/achievements/controller"
	activityController "beasiswaku_backend/internals/features/academics/activities/controller"
	recordController "beasiswaku_backend/internals/features/academics/records/controller"
	reportController "beasiswaku_backend/internals/features/academics/reports/controller"
	documentController "beasiswaku_backend/internals/features/documents/document/controller"
	uploadController "beasiswaku_backend/internals/features/files/controller"
	threadController "beasiswaku_backend/internals/features/messages/threads/controller"
	profileController "beasiswaku_backend/internals/features/users/user/controller"
	"beasiswaku_backend/internals/helpers/storage"
	"beasiswaku_backend/internals/notifier"
)

// StudentRoutes: seluruh fitur mahasiswa (profil, nilai, prestasi, laporan,
// pesan, dokumen, upload).
func StudentRoutes(r fiber.Router, db *gorm.DB, st *storage.Client, prod *notifier.Producer) {
	profileCtrl := profileController.NewProfileController(db, st)
	recordCtrl := recordController.NewRecordController(db)
	achievementCtrl := achievementController.NewAchievementController(db)
	activityCtrl := activityController.NewActivityController(db)
	reportCtrl := reportController.NewReportController(db)
	threadCtrl := threadController.NewThreadController(db, prod)
	documentCtrl := documentController.NewDocumentController(db)
	uploadCtrl := uploadController.NewUploadController(st)

	r.Put("/me/profile", profileCtrl.UpsertProfile)
	r.Post("/me/photo", profileCtrl.UploadPhoto)

	r.Post("/records", recordCtrl.Create)
	r.Get("/records", recordCtrl.ListMine)
	r.Delete("/records/:id", recordCtrl.Delete)

	r.Post("/achievements", achievementCtrl.Create)
	r.Get("/achievements", achievementCtrl.ListMine)
	r.Put("/achievements/:id", achievementCtrl.Update)
	r.Delete("/achievements/:id", achievementCtrl.Delete)

	r.Get("/activities", activityCtrl.ListMine)

	r.Post("/reports", reportCtrl.Create)
	r.Get("/reports", reportCtrl.ListMine)
	r.Put("/reports/:id", reportCtrl.Update)
	r.Post("/reports/:id/submit", reportCtrl.Submit)
	r.Delete("/reports/:id", reportCtrl.Delete)

	// unread-count harus terdaftar sebelum /threads/:id
	r.Post("/threads", threadCtrl.Create)
	r.Get("/threads", threadCtrl.ListMine)
	r.Get("/threads/unread-count", threadCtrl.UnreadCount)
	r.Get("/threads/:id", threadCtrl.Detail)
	r.Post("/threads/:id/reply", threadCtrl.Reply)
	r.Post("/threads/:id/read", threadCtrl.MarkRead)

	r.Get("/documents", documentCtrl.ListMine)

	r.Post("/uploads", uploadCtrl.Upload)
}
