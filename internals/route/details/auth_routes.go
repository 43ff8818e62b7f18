package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "beasiswaku_backend/internals/features/users/auth/controller"
	"beasiswaku_backend/internals/middlewares"
	"beasiswaku_backend/internals/notifier"
	"beasiswaku_backend/internals/ratelimit"
)

// AuthRoutes: endpoint autentikasi yang bisa diakses tanpa login.
func AuthRoutes(r fiber.Router, db *gorm.DB, lim *ratelimit.Limiter, prod *notifier.Producer) {
	ctrl := authController.NewAuthController(db, lim, prod)

	auth := r.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", ctrl.Login)
	auth.Post("/login-google", ctrl.LoginGoogle)
	auth.Get("/verify-email", ctrl.VerifyEmail)
	auth.Post("/forgot-password", ctrl.ForgotPassword)
	auth.Post("/reset-password", ctrl.ResetPassword)
	auth.Post("/refresh-token", ctrl.RefreshToken)
}
