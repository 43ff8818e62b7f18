package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/configs"
	"beasiswaku_backend/internals/constants"
	authModel "beasiswaku_backend/internals/features/users/auth/model"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	helpers "beasiswaku_backend/internals/helpers"
	"beasiswaku_backend/internals/notifier"
	"beasiswaku_backend/internals/ratelimit"
)

const (
	resetReqPrefix = "reset-req:"
	loginFailKey   = "login-fail:"
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "duplicate key") || strings.Contains(low, "unique")
}

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, prod *notifier.Producer, c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if len(input.Password) < 8 {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Password minimal 8 karakter")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}
	hashStr := string(hash)

	user := userModel.UserModel{
		Email:    input.Email,
		Password: &hashStr,
		Role:     constants.RoleStudent,
		Status:   constants.UserStatusPending,
	}
	if err := user.Validate(); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return helpers.JsonError(c, fiber.StatusBadRequest, "Email sudah terdaftar")
		}
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat akun")
	}

	// email verifikasi: best-effort, tidak menggagalkan registrasi
	if token, terr := SignPurposeToken(user.ID, user.Email, purposeVerifyEmail); terr == nil {
		prod.Publish(notifier.Event{
			Type:  notifier.EventVerifyEmail,
			Email: user.Email,
			Name:  input.FullName,
			Token: token,
		})
	} else {
		log.Printf("[WARN] register: gagal buat token verifikasi: %v", terr)
	}

	return helpers.JsonCreated(c, "Registrasi berhasil. Cek email untuk verifikasi, lalu tunggu persetujuan admin.", fiber.Map{
		"id":     user.ID,
		"email":  user.Email,
		"status": user.Status,
	})
}

/* ==========================
   LOGIN
========================== */

// Login memakai pesan error yang bisa dibedakan per penyebab: kredensial
// salah, email belum diverifikasi, menunggu persetujuan, ditolak, suspended,
// atau terkunci rate limit (dengan retry_after).
func Login(db *gorm.DB, lim *ratelimit.Limiter, c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Email dan password wajib diisi")
	}

	key := loginFailKey + input.Email
	if allowed, retryAfter := lim.Check(key); !allowed {
		c.Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
		return helpers.JsonError(c, fiber.StatusTooManyRequests,
			fmt.Sprintf("Terlalu banyak percobaan login. Coba lagi dalam %d detik", int(retryAfter.Seconds())+1))
	}

	var user userModel.UserModel
	err := db.First(&user, "email = ?", input.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		lim.Incr(key) // akun tidak ada ikut dihitung, tidak membocorkan keberadaan akun
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}
	if user.Password == nil {
		// akun Google tanpa password lokal
		lim.Incr(key)
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)) != nil {
		lim.Incr(key)
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}

	// kredensial benar — counter direset sebelum gate status
	lim.Reset(key)

	if user.EmailVerifiedAt == nil {
		return helpers.JsonError(c, fiber.StatusForbidden, "Email belum diverifikasi. Cek inbox Anda.")
	}
	switch user.Status {
	case constants.UserStatusPending:
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun menunggu persetujuan admin")
	case constants.UserStatusRejected:
		return helpers.JsonError(c, fiber.StatusForbidden, "Pendaftaran Anda ditolak. Hubungi admin.")
	case constants.UserStatusSuspended:
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda di-suspend. Hubungi admin.")
	}

	access, err := IssueTokens(c, db, &user)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}
	return helpers.JsonOK(c, "Login berhasil", fiber.Map{
		"access_token": access,
		"user": fiber.Map{
			"id":     user.ID,
			"email":  user.Email,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		IDToken string `json:"id_token"`
	}
	if err := c.BodyParser(&input); err != nil || strings.TrimSpace(input.IDToken) == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "id_token wajib diisi")
	}
	clientID := strings.TrimSpace(configs.GoogleClientID)
	if clientID == "" {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "GOOGLE_CLIENT_ID belum diset")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(input.IDToken, []string{clientID}); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Google token invalid")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(input.IDToken)
	if err != nil || claimSet.Email == "" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Google token invalid")
	}

	email := strings.ToLower(claimSet.Email)
	googleID := claimSet.Sub

	var user userModel.UserModel
	err = db.First(&user, "google_id = ? OR email = ?", googleID, email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// akun baru via Google: email sudah terverifikasi oleh Google,
		// tapi tetap antre persetujuan admin
		now := nowUTC()
		user = userModel.UserModel{
			Email:           email,
			GoogleID:        &googleID,
			Role:            constants.RoleStudent,
			Status:          constants.UserStatusPending,
			EmailVerifiedAt: &now,
		}
		if err := db.Create(&user).Error; err != nil {
			return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat akun")
		}
	case err != nil:
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	default:
		if user.GoogleID == nil {
			// tautkan akun email-password lama ke Google
			if err := db.Model(&user).Update("google_id", googleID).Error; err != nil {
				return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal menautkan akun Google")
			}
		}
		if user.EmailVerifiedAt == nil {
			now := nowUTC()
			if err := db.Model(&user).Update("email_verified_at", now).Error; err == nil {
				user.EmailVerifiedAt = &now
			}
		}
	}

	switch user.Status {
	case constants.UserStatusPending:
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun menunggu persetujuan admin")
	case constants.UserStatusRejected:
		return helpers.JsonError(c, fiber.StatusForbidden, "Pendaftaran Anda ditolak. Hubungi admin.")
	case constants.UserStatusSuspended:
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda di-suspend. Hubungi admin.")
	}

	access, err := IssueTokens(c, db, &user)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}
	return helpers.JsonOK(c, "Login berhasil", fiber.Map{
		"access_token": access,
		"user": fiber.Map{
			"id":     user.ID,
			"email":  user.Email,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}

/* ==========================
   LOGOUT
========================== */

// Logout memasukkan access token aktif ke blacklist sampai expired-nya,
// lalu membersihkan cookie.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	raw := helpers.GetRawAccessToken(c)
	if raw != "" {
		expiredAt := nowUTC().Add(accessTTLDefault)
		if tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{}); err == nil {
			if claims, ok := tok.Claims.(jwt.MapClaims); ok {
				if exp, ok := claims["exp"].(float64); ok {
					expiredAt = timeFromUnix(int64(exp))
				}
			}
		}
		entry := authModel.TokenBlacklistModel{Token: raw, ExpiredAt: expiredAt}
		if err := db.Create(&entry).Error; err != nil {
			log.Printf("[WARN] logout: gagal simpan blacklist: %v", err)
		}
	}
	clearAuthCookies(c)
	return helpers.JsonOK(c, "Logout berhasil", nil)
}

/* ==========================
   REFRESH
========================== */

func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	raw := helpers.GetRefreshTokenFromCookie(c)
	if raw == "" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ada")
	}
	userID, err := parseRefreshToken(raw)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if user.Status != constants.UserStatusApproved {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun tidak aktif")
	}

	access, err := IssueTokens(c, db, &user)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token baru")
	}
	return helpers.JsonOK(c, "Token diperbarui", fiber.Map{"access_token": access})
}

/* ==========================
   VERIFY EMAIL
========================== */

func VerifyEmail(db *gorm.DB, c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("token"))
	if raw == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Token verifikasi tidak ada")
	}
	userID, err := ParsePurposeToken(raw, purposeVerifyEmail)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Token verifikasi tidak valid atau kadaluarsa")
	}

	now := nowUTC()
	res := db.Model(&userModel.UserModel{}).
		Where("id = ? AND email_verified_at IS NULL", userID).
		Update("email_verified_at", now)
	if res.Error != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal verifikasi email")
	}
	// idempotent: token dipakai dua kali tetap sukses
	return helpers.JsonOK(c, "Email terverifikasi. Tunggu persetujuan admin untuk bisa login.", nil)
}

/* ==========================
   FORGOT / RESET PASSWORD
========================== */

// ForgotPassword selalu merespons sukses supaya tidak membocorkan akun mana
// yang terdaftar; rate limit per email menahan spam.
func ForgotPassword(db *gorm.DB, lim *ratelimit.Limiter, prod *notifier.Producer, c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Email wajib diisi")
	}

	key := resetReqPrefix + email
	if allowed, retryAfter := lim.Check(key); !allowed {
		c.Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
		return helpers.JsonError(c, fiber.StatusTooManyRequests, "Terlalu banyak permintaan reset. Coba lagi nanti.")
	}
	lim.Incr(key)

	var user userModel.UserModel
	if err := db.First(&user, "email = ?", email).Error; err == nil {
		if token, terr := SignPurposeToken(user.ID, user.Email, purposeResetPassword); terr == nil {
			prod.Publish(notifier.Event{
				Type:  notifier.EventResetPassword,
				Email: user.Email,
				Token: token,
			})
		}
	}

	return helpers.JsonOK(c, "Jika email terdaftar, link reset password sudah dikirim.", nil)
}

func ResetPassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(input.NewPassword) < 8 {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Password minimal 8 karakter")
	}
	userID, err := ParsePurposeToken(input.Token, purposeResetPassword)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Token reset tidak valid atau kadaluarsa")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}
	if err := db.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", string(hash)).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal reset password")
	}
	return helpers.JsonOK(c, "Password berhasil direset. Silakan login.", nil)
}

/* ==========================
   CHANGE PASSWORD
========================== */

func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserID(c)
	if err != nil {
		return err
	}

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(input.NewPassword) < 8 {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Password baru minimal 8 karakter")
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	if user.Password == nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Akun Google tidak punya password lokal")
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.OldPassword)) != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Password lama salah")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}
	if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal ganti password")
	}
	return helpers.JsonOK(c, "Password berhasil diganti", nil)
}
