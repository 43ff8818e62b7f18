package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "beasiswaku_backend/internals/features/users/auth/controller"
	profileController "beasiswaku_backend/internals/features/users/user/controller"
	"beasiswaku_backend/internals/helpers/storage"
	"beasiswaku_backend/internals/notifier"
	"beasiswaku_backend/internals/ratelimit"
)

// AccountRoutes: endpoint akun yang berlaku untuk semua role yang sudah login.
func AccountRoutes(r fiber.Router, db *gorm.DB, st *storage.Client, lim *ratelimit.Limiter, prod *notifier.Producer) {
	authCtrl := authController.NewAuthController(db, lim, prod)
	profileCtrl := profileController.NewProfileController(db, st)

	r.Get("/me", profileCtrl.Me)
	r.Post("/auth/logout", authCtrl.Logout)
	r.Post("/auth/change-password", authCtrl.ChangePassword)
}
