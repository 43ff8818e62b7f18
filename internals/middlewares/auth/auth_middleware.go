package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/configs"
	authModel "beasiswaku_backend/internals/features/users/auth/model"
	helpers "beasiswaku_backend/internals/helpers"
)

// AuthMiddleware memverifikasi access token, menolak token blacklist, lalu
// menaruh klaim SEGAR (lewat ClaimCache, maks 60 detik basi) ke Locals.
func AuthMiddleware(db *gorm.DB, cache *ClaimCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := helpers.GetRawAccessToken(c)
		if tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token tidak ada")
		}
		helpers.SetRawAccessToken(c, tokenString)

		// token yang sudah logout
		var blacklisted int64
		if err := db.Model(&authModel.TokenBlacklistModel{}).
			Where("token = ?", tokenString).
			Count(&blacklisted).Error; err != nil {
			log.Println("[ERROR] DB error saat cek blacklist:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		if blacklisted > 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token sudah logout")
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secretKey), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if exp, ok := claims["exp"].(float64); !ok || time.Now().After(time.Unix(int64(exp), 0).Add(30*time.Second)) {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		sub, _ := claims["user_id"].(string)
		if sub == "" {
			sub, _ = claims["sub"].(string)
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid user ID")
		}

		// klaim segar dari cache/DB, bukan dari isi token
		entry, err := cache.Resolve(db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User tidak ditemukan")
			}
			log.Println("[ERROR] claim refresh:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		c.Locals(helpers.LocUserID, userID.String())
		c.Locals(helpers.LocUserRole, entry.Role)
		c.Locals(helpers.LocUserStatus, entry.Status)
		if entry.ScholarshipID != nil {
			c.Locals(helpers.LocScholarshipID, entry.ScholarshipID.String())
		}

		return c.Next()
	}
}
