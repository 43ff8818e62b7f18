package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	achievementController "beasiswaku_backend/internals/features/academics/achievements/controller"
	activityController "beasiswaku_backend/internals/features/academics/activities/controller"
	recordController "beasiswaku_backend/internals/features/academics/records/controller"
	reportController "beasiswaku_backend/internals/features/academics/reports/controller"
	auditController "beasiswaku_backend/internals/features/audits/audit/controller"
	documentController "beasiswaku_backend/internals/features/documents/document/controller"
	threadController "beasiswaku_backend/internals/features/messages/threads/controller"
	scholarshipController "beasiswaku_backend/internals/features/scholarships/scholarship/controller"
	userController "beasiswaku_backend/internals/features/users/user/controller"
	"beasiswaku_backend/internals/notifier"
)

// AdminRoutes: seluruh fitur pengelolaan oleh admin beasiswa.
func AdminRoutes(r fiber.Router, db *gorm.DB, prod *notifier.Producer, claims userController.ClaimInvalidator) {
	userCtrl := userController.NewUserAdminController(db, claims)
	recordCtrl := recordController.NewRecordController(db)
	achievementCtrl := achievementController.NewAchievementController(db)
	activityCtrl := activityController.NewActivityController(db)
	reportCtrl := reportController.NewReportController(db)
	threadCtrl := threadController.NewThreadController(db, prod)
	documentCtrl := documentController.NewDocumentController(db)
	scholarshipCtrl := scholarshipController.NewScholarshipController(db)
	auditCtrl := auditController.NewAuditController(db)

	r.Get("/users", userCtrl.List)
	r.Post("/users", userCtrl.Create)
	r.Get("/users/:id", userCtrl.Detail)
	r.Post("/users/:id/approve", userCtrl.Approve)
	r.Post("/users/:id/reject", userCtrl.Reject)
	r.Post("/users/:id/suspend", userCtrl.Suspend)
	r.Post("/users/:id/restore", userCtrl.Restore)
	r.Put("/users/:id/profile", userCtrl.OverrideProfile)
	r.Get("/users/:id/records", recordCtrl.ListByUser)
	r.Get("/users/:id/achievements", achievementCtrl.ListByUser)

	r.Get("/records/pending", recordCtrl.ListPending)
	r.Post("/records/:id/review", recordCtrl.Review)
	r.Post("/records/:id/edit-verify", recordCtrl.EditAndVerify)

	r.Get("/achievements/pending", achievementCtrl.ListPending)
	r.Post("/achievements/:id/review", achievementCtrl.Review)

	r.Post("/activities", activityCtrl.Create)
	r.Get("/activities", activityCtrl.ListAll)
	r.Get("/activities/:id", activityCtrl.Detail)
	r.Post("/activities/:id/attendance", activityCtrl.SetAttendance)
	r.Delete("/activities/:id", activityCtrl.Delete)

	r.Get("/reports/submitted", reportCtrl.ListSubmitted)
	r.Post("/reports/:id/review", reportCtrl.Review)

	r.Get("/threads", threadCtrl.ListAll)
	r.Get("/threads/:id", threadCtrl.Detail)
	r.Post("/threads/:id/reply", threadCtrl.Reply)
	r.Post("/threads/:id/read", threadCtrl.MarkRead)
	r.Post("/threads/:id/close", threadCtrl.Close)

	r.Post("/documents", documentCtrl.Create)
	r.Get("/documents", documentCtrl.ListAll)
	r.Post("/documents/:id/publish", documentCtrl.Publish)
	r.Post("/documents/:id/unpublish", documentCtrl.Unpublish)
	r.Delete("/documents/:id", documentCtrl.Delete)

	r.Get("/scholarships", scholarshipCtrl.ListAll)
	r.Post("/scholarships", scholarshipCtrl.Create)
	r.Put("/scholarships/:id", scholarshipCtrl.Update)
	r.Delete("/scholarships/:id", scholarshipCtrl.Delete)

	r.Get("/audit-logs", auditCtrl.List)
}
