package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/features/users/auth/service"
	"beasiswaku_backend/internals/notifier"
	"beasiswaku_backend/internals/ratelimit"
)

type AuthController struct {
	DB       *gorm.DB
	Limiter  *ratelimit.Limiter
	Producer *notifier.Producer
}

func NewAuthController(db *gorm.DB, lim *ratelimit.Limiter, prod *notifier.Producer) *AuthController {
	return &AuthController{DB: db, Limiter: lim, Producer: prod}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	return service.Register(ac.DB, ac.Producer, c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, ac.Limiter, c)
}

func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	return service.LoginGoogle(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, c)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	return service.RefreshToken(ac.DB, c)
}

func (ac *AuthController) VerifyEmail(c *fiber.Ctx) error {
	return service.VerifyEmail(ac.DB, c)
}

func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	return service.ForgotPassword(ac.DB, ac.Limiter, ac.Producer, c)
}

func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	return service.ResetPassword(ac.DB, c)
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	return service.ChangePassword(ac.DB, c)
}
