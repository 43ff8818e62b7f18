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
	scholarshipModel "beasiswaku_backend/internals/features/scholarships/scholarship/model"
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

func seedMilestone(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	s := scholarshipModel.ScholarshipModel{Name: "ทุนเรียนดี", Active: true}
	require.NoError(t, db.Create(&s).Error)
	m := scholarshipModel.MilestoneModel{
		ScholarshipID:   s.ID,
		Title:           "รายงานความก้าวหน้าปี 1",
		TargetYearLevel: 1,
		TargetSemester:  "2",
	}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

func TestCreateReportTargetXOR(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	milestoneID := seedMilestone(t, db)
	year, sem := "2567", "1"

	// milestone saja: ok
	r1, err := Create(db, studentID, CreateReportInput{MilestoneID: &milestoneID, Summary: "ความคืบหน้า"})
	require.NoError(t, err)
	assert.Equal(t, constants.ReportStatusDraft, r1.Status)

	// tahun+semester saja: ok
	_, err = Create(db, studentID, CreateReportInput{AcademicYear: &year, Semester: &sem, Summary: "ความคืบหน้า"})
	require.NoError(t, err)

	// dua-duanya: ditolak
	_, err = Create(db, studentID, CreateReportInput{
		MilestoneID: &milestoneID, AcademicYear: &year, Semester: &sem, Summary: "x",
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// tidak ada target sama sekali: ditolak
	_, err = Create(db, studentID, CreateReportInput{Summary: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSubmitAndReviewFlow(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	adminID := uuid.New()
	milestoneID := seedMilestone(t, db)

	report, err := Create(db, studentID, CreateReportInput{MilestoneID: &milestoneID, Summary: "เทอมแรก"})
	require.NoError(t, err)

	// draft belum bisa direview
	_, err = Review(db, adminID, report.ID, constants.ReportStatusReviewed, nil)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	submitted, err := Submit(db, studentID, report.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReportStatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)

	// submitted tidak bisa disubmit ulang
	_, err = Submit(db, studentID, report.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	reviewed, err := Review(db, adminID, report.ID, constants.ReportStatusReviewed, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.ReportStatusReviewed, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)

	var logs []auditModel.AuditLogModel
	require.NoError(t, db.Where("action = ?", auditModel.ActionReportReviewed).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].TargetUserID)
	assert.Equal(t, studentID, *logs[0].TargetUserID)
}

func TestNeedRevisionRoundTrip(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	adminID := uuid.New()
	milestoneID := seedMilestone(t, db)

	report, err := Create(db, studentID, CreateReportInput{MilestoneID: &milestoneID, Summary: "ฉบับแรก"})
	require.NoError(t, err)
	_, err = Submit(db, studentID, report.ID)
	require.NoError(t, err)

	note := "ขาดหลักฐานแนบ"
	back, err := Review(db, adminID, report.ID, constants.ReportStatusNeedRevision, &note)
	require.NoError(t, err)
	assert.Equal(t, constants.ReportStatusNeedRevision, back.Status)

	// mahasiswa perbaiki lalu submit ulang
	_, err = UpdateDraft(db, studentID, report.ID, CreateReportInput{
		MilestoneID: &milestoneID,
		Summary:     "ฉบับแก้ไข",
		Attachments: []AttachmentInput{{FileURL: "https://files.example/evi.pdf", FileName: "evi.pdf"}},
	})
	require.NoError(t, err)
	resubmitted, err := Submit(db, studentID, report.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReportStatusSubmitted, resubmitted.Status)
}

func TestDeleteReviewedRefused(t *testing.T) {
	db := setupDB(t)
	studentID := seedStudent(t, db)
	adminID := uuid.New()
	milestoneID := seedMilestone(t, db)

	report, err := Create(db, studentID, CreateReportInput{MilestoneID: &milestoneID, Summary: "รายงาน"})
	require.NoError(t, err)
	_, err = Submit(db, studentID, report.ID)
	require.NoError(t, err)
	_, err = Review(db, adminID, report.ID, constants.ReportStatusReviewed, nil)
	require.NoError(t, err)

	err = Delete(db, studentID, report.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
