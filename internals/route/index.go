package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	helpers "beasiswaku_backend/internals/helpers"
	"beasiswaku_backend/internals/helpers/storage"
	authMiddleware "beasiswaku_backend/internals/middlewares/auth"
	"beasiswaku_backend/internals/notifier"
	"beasiswaku_backend/internals/ratelimit"
	routeDetails "beasiswaku_backend/internals/route/details"
)

var startTime time.Time

// Deps: dependensi runtime yang dibagikan ke seluruh route.
type Deps struct {
	Limiter  *ratelimit.Limiter
	Producer *notifier.Producer
	Storage  *storage.Client
	Claims   *authMiddleware.ClaimCache
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps *Deps) {
	startTime = time.Now()

	app.Get("/health", func(c *fiber.Ctx) error {
		return helpers.JsonOK(c, "ok", fiber.Map{
			"uptime": time.Since(startTime).String(),
		})
	})

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	routeDetails.AuthRoutes(public, db, deps.Limiter, deps.Producer)
	routeDetails.PublicScholarshipRoutes(public, db)

	// ===================== PRIVATE (semua role, harus approved) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u",
		authMiddleware.AuthMiddleware(db, deps.Claims),
		authMiddleware.RequireApproved(),
	)
	routeDetails.AccountRoutes(private, db, deps.Storage, deps.Limiter, deps.Producer)

	student := private.Group("",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorStudent("mahasiswa"), constants.StudentOnly),
	)
	routeDetails.StudentRoutes(student, db, deps.Storage, deps.Producer)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db, deps.Claims),
		authMiddleware.RequireApproved(),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("admin"), constants.AdminOnly),
	)
	routeDetails.AdminRoutes(admin, db, deps.Producer, deps.Claims)

	log.Println("[SUCCESS] Semua route terpasang.")
}
