package seeds

import (
	"log"

	"gorm.io/gorm"
)

// RunAllSeeds dijalankan sekali saat startup setelah migrasi.
func RunAllSeeds(db *gorm.DB) {
	if err := SeedAdminFromEnv(db); err != nil {
		log.Printf("[SEED ERROR] admin: %v", err)
	}
}
