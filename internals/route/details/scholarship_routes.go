package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	scholarshipController "beasiswaku_backend/internals/features/scholarships/scholarship/controller"
)

// PublicScholarshipRoutes: direktori program beasiswa untuk calon pendaftar.
func PublicScholarshipRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := scholarshipController.NewScholarshipController(db)

	r.Get("/scholarships", ctrl.ListActive)
	r.Get("/scholarships/:id", ctrl.Detail)
}
