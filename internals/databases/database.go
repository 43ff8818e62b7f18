package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/configs"
	recordModel "beasiswaku_backend/internals/features/academics/records/model"
	achievementModel "beasiswaku_backend/internals/features/academics/achievements/model"
	activityModel "beasiswaku_backend/internals/features/academics/activities/model"
	reportModel "beasiswaku_backend/internals/features/academics/reports/model"
	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	documentModel "beasiswaku_backend/internals/features/documents/document/model"
	threadModel "beasiswaku_backend/internals/features/messages/threads/model"
	scholarshipModel "beasiswaku_backend/internals/features/scholarships/scholarship/model"
	authModel "beasiswaku_backend/internals/features/users/auth/model"
	userModel "beasiswaku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=beasiswaku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate menjalankan auto-migration untuk semua tabel aplikasi.
func Migrate() {
	if err := AutoMigrateAll(DB); err != nil {
		log.Fatalf("❌ Gagal migrasi DB: %v", err)
	}
	log.Println("✅ Migrasi DB selesai.")
}

// AutoMigrateAll dipisah supaya bisa dipakai juga oleh test (sqlite in-memory).
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.UserModel{},
		&userModel.StudentProfileModel{},
		&authModel.TokenBlacklistModel{},
		&scholarshipModel.ScholarshipModel{},
		&scholarshipModel.MilestoneModel{},
		&recordModel.AcademicRecordModel{},
		&achievementModel.AchievementModel{},
		&achievementModel.AchievementAttachmentModel{},
		&activityModel.MandatoryActivityModel{},
		&activityModel.ActivityParticipationModel{},
		&reportModel.ProgressReportModel{},
		&reportModel.ReportAttachmentModel{},
		&threadModel.MessageThreadModel{},
		&threadModel.MessageModel{},
		&documentModel.DocumentModel{},
		&documentModel.DocumentScopeModel{},
		&auditModel.AuditLogModel{},
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
