package service

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/configs"
	userModel "beasiswaku_backend/internals/features/users/user/model"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	// token sekali pakai (link email)
	purposeVerifyEmail   = "verify_email"
	purposeResetPassword = "reset_password"
	purposeTokenTTL      = 1 * time.Hour
)

func nowUTC() time.Time { return time.Now().UTC() }

func timeFromUnix(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	}
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET"))
	}
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET belum diset")
	}
	return secret, nil
}

// buildAccessClaims menaruh role, status, dan scholarship_id ke dalam token.
// Klaim ini snapshot — middleware menyegarkannya paling lambat 60 detik
// setelah berubah di DB, tanpa memaksa login ulang.
func buildAccessClaims(user *userModel.UserModel, profile *userModel.StudentProfileModel, now time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"sub":     user.ID.String(),
		"user_id": user.ID.String(),
		"role":    user.Role,
		"status":  user.Status,
		"typ":     "access",
		"iat":     now.Unix(),
		"exp":     now.Add(accessTTLDefault).Unix(),
	}
	if profile != nil && profile.ScholarshipID != nil {
		claims["scholarship_id"] = profile.ScholarshipID.String()
	}
	return claims
}

// IssueTokens membuat access + refresh token dan memasangnya sebagai cookie.
// Access token juga dikembalikan di body untuk client non-browser.
func IssueTokens(c *fiber.Ctx, db *gorm.DB, user *userModel.UserModel) (string, error) {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return "", err
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return "", err
	}

	var profile userModel.StudentProfileModel
	var profilePtr *userModel.StudentProfileModel
	if err := db.First(&profile, "user_id = ?", user.ID).Error; err == nil {
		profilePtr = &profile
	}

	now := nowUTC()
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, profilePtr, now)).
		SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat access token")
	}

	refreshClaims := jwt.MapClaims{
		"sub": user.ID.String(),
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(refreshSecret))
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat refresh token")
	}

	secure := os.Getenv("COOKIE_SECURE") != "false"
	c.Cookie(&fiber.Cookie{
		Name: "access_token", Value: access,
		Expires: now.Add(accessTTLDefault), HTTPOnly: true, Secure: secure, SameSite: "Lax", Path: "/",
	})
	c.Cookie(&fiber.Cookie{
		Name: "refresh_token", Value: refresh,
		Expires: now.Add(refreshTTLDefault), HTTPOnly: true, Secure: secure, SameSite: "Lax", Path: "/",
	})

	return access, nil
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := nowUTC().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{Name: "access_token", Value: "", Expires: expired, HTTPOnly: true, Path: "/"})
	c.Cookie(&fiber.Cookie{Name: "refresh_token", Value: "", Expires: expired, HTTPOnly: true, Path: "/"})
}

// SignPurposeToken membuat token link email (verifikasi / reset password).
func SignPurposeToken(userID uuid.UUID, email, purpose string) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}
	now := nowUTC()
	claims := jwt.MapClaims{
		"sub":     userID.String(),
		"email":   email,
		"purpose": purpose,
		"iat":     now.Unix(),
		"exp":     now.Add(purposeTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

var errPurposeToken = errors.New("token tidak valid atau kadaluarsa")

// ParsePurposeToken memvalidasi token link email dan memastikan purpose cocok.
func ParsePurposeToken(raw, wantPurpose string) (uuid.UUID, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return uuid.Nil, err
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errPurposeToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, errPurposeToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errPurposeToken
	}
	if p, _ := claims["purpose"].(string); p != wantPurpose {
		return uuid.Nil, errPurposeToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errPurposeToken
	}
	return userID, nil
}

// parseRefreshToken memvalidasi refresh JWT dan mengembalikan user id.
func parseRefreshToken(raw string) (uuid.UUID, error) {
	secret, err := getRefreshSecret()
	if err != nil {
		return uuid.Nil, err
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errPurposeToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, errPurposeToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errPurposeToken
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return uuid.Nil, errPurposeToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errPurposeToken
	}
	return userID, nil
}
