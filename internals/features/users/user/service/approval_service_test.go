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

func seedUser(t *testing.T, db *gorm.DB, role, status string) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Email:  uuid.NewString() + "@kmitl.ac.th",
		Role:   role,
		Status: status,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func TestApprovePendingStudent(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, constants.RoleAdmin, constants.UserStatusApproved)
	student := seedUser(t, db, constants.RoleStudent, constants.UserStatusPending)

	updated, err := SetStatus(db, admin.ID, student.ID, constants.UserStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusApproved, updated.Status)

	// status dan audit ditulis dalam satu transaksi
	var logs []auditModel.AuditLogModel
	require.NoError(t, db.Where("action = ?", auditModel.ActionUserApproved).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, admin.ID, logs[0].ActorID)
	require.NotNil(t, logs[0].TargetUserID)
	assert.Equal(t, student.ID, *logs[0].TargetUserID)
	assert.Contains(t, string(logs[0].Detail), "old_status")
}

func TestSetStatusGuards(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, constants.RoleAdmin, constants.UserStatusApproved)
	otherAdmin := seedUser(t, db, constants.RoleAdmin, constants.UserStatusApproved)
	student := seedUser(t, db, constants.RoleStudent, constants.UserStatusPending)

	// status tak dikenal
	_, err := SetStatus(db, admin.ID, student.ID, "banned")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// target tidak ada
	_, err = SetStatus(db, admin.ID, uuid.New(), constants.UserStatusApproved)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// akun admin tidak bisa diubah statusnya lewat jalur ini
	_, err = SetStatus(db, admin.ID, otherAdmin.ID, constants.UserStatusSuspended)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestSuspendAndRestore(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, constants.RoleAdmin, constants.UserStatusApproved)
	student := seedUser(t, db, constants.RoleStudent, constants.UserStatusApproved)

	_, err := SetStatus(db, admin.ID, student.ID, constants.UserStatusSuspended)
	require.NoError(t, err)

	// suspended bisa dipulihkan kembali ke approved
	restored, err := SetStatus(db, admin.ID, student.ID, constants.UserStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusApproved, restored.Status)

	var count int64
	require.NoError(t, db.Model(&auditModel.AuditLogModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateByAdmin(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, constants.RoleAdmin, constants.UserStatusApproved)

	u, err := CreateByAdmin(db, admin.ID, "staff2@kmitl.ac.th", "rahasia-kuat", constants.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusApproved, u.Status)
	assert.NotNil(t, u.EmailVerifiedAt)
	require.NotNil(t, u.Password)
	assert.NotEqual(t, "rahasia-kuat", *u.Password)

	// email duplikat → conflict
	_, err = CreateByAdmin(db, admin.ID, "staff2@kmitl.ac.th", "rahasia-kuat", constants.RoleStudent)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// password terlalu pendek
	_, err = CreateByAdmin(db, admin.ID, "x@kmitl.ac.th", "short", constants.RoleStudent)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestOverrideProfileAudited(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, constants.RoleAdmin, constants.UserStatusApproved)
	student := seedUser(t, db, constants.RoleStudent, constants.UserStatusApproved)

	_, err := UpsertOwnProfile(db, student.ID, ProfileInput{
		FullName:    "สมชาย ใจดี",
		StudentCode: "66070123",
		DegreeLevel: constants.DegreeLevelBachelor,
	})
	require.NoError(t, err)

	// admin koreksi kode mahasiswa yang salah ketik
	fixed, err := OverrideProfile(db, admin.ID, student.ID, ProfileInput{
		FullName:    "สมชาย ใจดี",
		StudentCode: "66070124",
		DegreeLevel: constants.DegreeLevelBachelor,
	})
	require.NoError(t, err)
	assert.Equal(t, "66070124", fixed.StudentCode)

	var logs []auditModel.AuditLogModel
	require.NoError(t, db.Where("action = ?", auditModel.ActionProfileOverridden).Find(&logs).Error)
	require.Len(t, logs, 1)
}
