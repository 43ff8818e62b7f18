package auth

import (
	"github.com/gofiber/fiber/v2"

	"beasiswaku_backend/internals/constants"
	helpers "beasiswaku_backend/internals/helpers"
)

// OnlyRolesSlice membatasi akses ke role tertentu. Dipasang SETELAH
// AuthMiddleware karena membaca Locals.
func OnlyRolesSlice(errMsg string, roles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole := helpers.GetUserRole(c)
		for _, r := range roles {
			if userRole == r {
				return c.Next()
			}
		}
		return helpers.JsonError(c, fiber.StatusForbidden, errMsg)
	}
}

// RequireApproved menolak akun yang belum/tidak lagi approved. Karena status
// diambil dari ClaimCache, suspend oleh admin efektif maksimal 60 detik.
func RequireApproved() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helpers.GetUserStatus(c) != constants.UserStatusApproved {
			return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda tidak aktif")
		}
		return c.Next()
	}
}
