package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"beasiswaku_backend/internals/constants"
	database "beasiswaku_backend/internals/databases"
	achievementModel "beasiswaku_backend/internals/features/academics/achievements/model"
	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	"beasiswaku_backend/internals/helpers/apperr"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateAll(db))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	u := userModel.UserModel{
		Email:  uuid.NewString() + "@kmitl.ac.th",
		Role:   constants.RoleStudent,
		Status: constants.UserStatusApproved,
	}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestCreateAchievementWithAttachments(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)

	ach, err := Create(db, studentID, CreateAchievementInput{
		Type:  constants.AchievementTypeCompetition,
		Title: "ชนะเลิศการแข่งขัน ACM-ICPC ระดับภูมิภาค",
		Attachments: []AttachmentInput{
			{FileURL: "https://files.example.com/cert.pdf", FileName: "cert.pdf", FileSize: 1024, FileType: "application/pdf"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.VerifyStatusPending, ach.Status)
	assert.Len(t, ach.Attachments, 1)

	_, err = Create(db, studentID, CreateAchievementInput{Type: "trophy", Title: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateAchievementResetsToPending(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	adminID := uuid.New()

	ach, err := Create(db, studentID, CreateAchievementInput{
		Type:  constants.AchievementTypePublication,
		Title: "Paper draft",
	})
	require.NoError(t, err)

	note := "Tautan publikasi tidak valid"
	_, err = Review(db, adminID, ach.ID, constants.VerifyStatusRejected, &note)
	require.NoError(t, err)

	// perbaikan oleh pemilik mengembalikan entri ke antrean pending
	updated, err := Update(db, studentID, ach.ID, CreateAchievementInput{
		Type:  constants.AchievementTypePublication,
		Title: "Paper draft (revised)",
		Attachments: []AttachmentInput{
			{FileURL: "https://files.example.com/doi.pdf", FileName: "doi.pdf"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.VerifyStatusPending, updated.Status)
	assert.Nil(t, updated.ReviewNote)
	assert.Nil(t, updated.ReviewerID)
	assert.Len(t, updated.Attachments, 1)
	assert.Equal(t, "doi.pdf", updated.Attachments[0].FileName)
}

func TestVerifiedAchievementLocked(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	adminID := uuid.New()

	ach, err := Create(db, studentID, CreateAchievementInput{
		Type:  constants.AchievementTypeAward,
		Title: "Outstanding Student Award",
	})
	require.NoError(t, err)

	verified, err := Review(db, adminID, ach.ID, constants.VerifyStatusVerified, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.VerifyStatusVerified, verified.Status)

	var logs []auditModel.AuditLogModel
	require.NoError(t, db.Where("action = ?", auditModel.ActionAchievementVerified).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, adminID, logs[0].ActorID)

	// verified = final: tidak bisa di-review ulang, diedit, maupun dihapus
	_, err = Review(db, adminID, ach.ID, constants.VerifyStatusRejected, nil)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = Update(db, studentID, ach.ID, CreateAchievementInput{
		Type: constants.AchievementTypeAward, Title: "edit",
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = Delete(db, studentID, ach.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAchievementOwnershipGuard(t *testing.T) {
	db := setupDB(t)
	ownerID := seedStudent(t, db)
	otherID := seedStudent(t, db)

	ach, err := Create(db, ownerID, CreateAchievementInput{
		Type:  constants.AchievementTypeProject,
		Title: "Senior project demo",
	})
	require.NoError(t, err)

	_, err = Update(db, otherID, ach.ID, CreateAchievementInput{
		Type: constants.AchievementTypeProject, Title: "hijack",
	})
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	err = Delete(db, otherID, ach.ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestDeleteAchievementRemovesAttachments(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)

	ach, err := Create(db, studentID, CreateAchievementInput{
		Type:  constants.AchievementTypeCompetition,
		Title: "Hackathon",
		Attachments: []AttachmentInput{
			{FileURL: "https://files.example.com/a.png", FileName: "a.png"},
			{FileURL: "https://files.example.com/b.png", FileName: "b.png"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, Delete(db, studentID, ach.ID))

	var count int64
	require.NoError(t, db.Model(&achievementModel.AchievementAttachmentModel{}).
		Where("achievement_id = ?", ach.ID).Count(&count).Error)
	assert.Zero(t, count)
}
