package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	authModel "beasiswaku_backend/internals/features/users/auth/model"
)

// StartBlacklistCleanupScheduler menghapus entri token_blacklist yang sudah
// lama kadaluarsa. Token yang expired tetap disimpan beberapa hari untuk jaga
// toleransi clock skew, setelah itu tidak ada gunanya lagi.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		ttlDays := 7
		if val := os.Getenv("TOKEN_BLACKLIST_TTL_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				ttlDays = parsed
			}
		}

		for {
			deleteBefore := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			res := db.Unscoped().
				Where("expired_at < ?", deleteBefore).
				Delete(&authModel.TokenBlacklistModel{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] token_blacklist: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d token kadaluarsa dihapus", res.RowsAffected)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
