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

func TestCreateRecord(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)

	rec, err := Create(db, studentID, CreateRecordInput{
		AcademicYear: "2567",
		Semester:     "1",
		GPA:          3.25,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.VerifyStatusPending, rec.Status)
	assert.Equal(t, 3.25, rec.GPA)
}

func TestCreateRecordDuplicateTerm(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)

	_, err := Create(db, studentID, CreateRecordInput{AcademicYear: "2567", Semester: "1", GPA: 3.0})
	require.NoError(t, err)

	_, err = Create(db, studentID, CreateRecordInput{AcademicYear: "2567", Semester: "1", GPA: 3.5})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// mahasiswa lain boleh pakai term yang sama
	otherID := seedStudent(t, db)
	_, err = Create(db, otherID, CreateRecordInput{AcademicYear: "2567", Semester: "1", GPA: 3.5})
	assert.NoError(t, err)
}

func TestCreateRecordValidation(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)

	cases := []CreateRecordInput{
		{AcademicYear: "67", Semester: "1", GPA: 3.0},   // tahun bukan 4 digit
		{AcademicYear: "2567", Semester: "4", GPA: 3.0}, // semester tak dikenal
		{AcademicYear: "2567", Semester: "1", GPA: 4.5}, // GPA di luar rentang
		{AcademicYear: "2567", Semester: "1", GPA: -1},
	}
	for _, in := range cases {
		_, err := Create(db, studentID, in)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestReviewRecordVerifiedAndLocked(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	adminID := uuid.New()

	rec, err := Create(db, studentID, CreateRecordInput{AcademicYear: "2567", Semester: "1", GPA: 3.1})
	require.NoError(t, err)

	reviewed, err := Review(db, adminID, rec.ID, constants.VerifyStatusVerified, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.VerifyStatusVerified, reviewed.Status)
	require.NotNil(t, reviewed.ReviewerID)
	assert.Equal(t, adminID, *reviewed.ReviewerID)

	// audit tercatat satu transaksi dengan mutasinya
	var logs []auditModel.AuditLogModel
	require.NoError(t, db.Where("action = ?", auditModel.ActionRecordVerified).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, adminID, logs[0].ActorID)
	require.NotNil(t, logs[0].TargetUserID)
	assert.Equal(t, studentID, *logs[0].TargetUserID)

	// verified = terminal: review ulang ditolak
	_, err = Review(db, adminID, rec.ID, constants.VerifyStatusRejected, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestReviewRecordRejectedThenResubmit(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	adminID := uuid.New()

	rec, err := Create(db, studentID, CreateRecordInput{AcademicYear: "2567", Semester: "2", GPA: 2.9})
	require.NoError(t, err)

	note := "Transkrip tidak terbaca"
	rejected, err := Review(db, adminID, rec.ID, constants.VerifyStatusRejected, &note)
	require.NoError(t, err)
	assert.Equal(t, constants.VerifyStatusRejected, rejected.Status)
	require.NotNil(t, rejected.ReviewNote)

	// alur revisi: hapus baris rejected lalu buat ulang di term yang sama
	require.NoError(t, Delete(db, studentID, rec.ID))
	_, err = Create(db, studentID, CreateRecordInput{AcademicYear: "2567", Semester: "2", GPA: 2.95})
	assert.NoError(t, err)
}

func TestDeleteRecordGuards(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	otherID := seedStudent(t, db)
	adminID := uuid.New()

	rec, err := Create(db, studentID, CreateRecordInput{AcademicYear: "2566", Semester: "1", GPA: 3.4})
	require.NoError(t, err)

	// bukan pemilik
	err = Delete(db, otherID, rec.ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	// setelah verified, pemilik pun tidak bisa hapus
	_, err = Review(db, adminID, rec.ID, constants.VerifyStatusVerified, nil)
	require.NoError(t, err)
	err = Delete(db, studentID, rec.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestEditAndVerifyAuditsOldValues(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	adminID := uuid.New()

	rec, err := Create(db, studentID, CreateRecordInput{AcademicYear: "2567", Semester: "1", GPA: 1.25})
	require.NoError(t, err)

	gpax := 3.1
	edited, err := EditAndVerify(db, adminID, rec.ID, 3.25, &gpax)
	require.NoError(t, err)
	assert.Equal(t, 3.25, edited.GPA)
	assert.Equal(t, constants.VerifyStatusVerified, edited.Status)

	// satu transisi = tepat satu baris audit, memuat koreksi + keputusan
	var total int64
	require.NoError(t, db.Model(&auditModel.AuditLogModel{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)

	var logs []auditModel.AuditLogModel
	require.NoError(t, db.Where("action = ?", auditModel.ActionRecordEdited).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Contains(t, string(logs[0].Detail), "old_gpa")
	assert.Contains(t, string(logs[0].Detail), "new_gpa")
	assert.Contains(t, string(logs[0].Detail), constants.VerifyStatusVerified)
}
