package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"beasiswaku_backend/internals/constants"
	database "beasiswaku_backend/internals/databases"
	activityModel "beasiswaku_backend/internals/features/academics/activities/model"
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

func seedStudentWithProfile(t *testing.T, db *gorm.DB, status, studentCode, degree string, scholarshipID *uuid.UUID) uuid.UUID {
	t.Helper()
	u := userModel.UserModel{
		Email:  uuid.NewString() + "@kmitl.ac.th",
		Role:   constants.RoleStudent,
		Status: status,
	}
	require.NoError(t, db.Create(&u).Error)
	p := userModel.StudentProfileModel{
		UserID:        u.ID,
		StudentCode:   studentCode,
		DegreeLevel:   degree,
		ScholarshipID: scholarshipID,
	}
	require.NoError(t, db.Create(&p).Error)
	return u.ID
}

func seedScholarship(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	s := scholarshipModel.ScholarshipModel{Name: name, Active: true}
	require.NoError(t, db.Create(&s).Error)
	return s.ID
}

func TestMatchStudentsCriteria(t *testing.T) {
	db := setupDB(t)
	scholarA := seedScholarship(t, db, "ทุนเรียนดี")
	scholarB := seedScholarship(t, db, "ทุนช้างเผือก")

	// Agustus 2567 พ.ศ.: kode 66xx = tingkat 2, kode 65xx = tingkat 3
	now := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)

	aBachelor66 := seedStudentWithProfile(t, db, constants.UserStatusApproved, "66070001", constants.DegreeLevelBachelor, &scholarA)
	aMaster66 := seedStudentWithProfile(t, db, constants.UserStatusApproved, "66070002", constants.DegreeLevelMaster, &scholarA)
	bBachelor65 := seedStudentWithProfile(t, db, constants.UserStatusApproved, "65070003", constants.DegreeLevelBachelor, &scholarB)
	// pending tidak pernah ikut fan-out
	seedStudentWithProfile(t, db, constants.UserStatusPending, "66070004", constants.DegreeLevelBachelor, &scholarA)

	// tanpa kriteria: semua approved
	ids, err := matchStudents(db, MatchCriteria{}, now)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	// filter beasiswa
	ids, err = matchStudents(db, MatchCriteria{ScholarshipID: &scholarA}, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{aBachelor66, aMaster66}, ids)

	// filter AND: beasiswa + jenjang
	degree := constants.DegreeLevelBachelor
	ids, err = matchStudents(db, MatchCriteria{ScholarshipID: &scholarA, DegreeLevel: &degree}, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{aBachelor66}, ids)

	// filter tingkat (dihitung dari kode mahasiswa, bukan kolom)
	year := 3
	ids, err = matchStudents(db, MatchCriteria{YearLevel: &year}, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bBachelor65}, ids)
}

func TestCreateWithFanOutSnapshot(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()
	scholar := seedScholarship(t, db, "ทุนเรียนดี")

	s1 := seedStudentWithProfile(t, db, constants.UserStatusApproved, "66070001", constants.DegreeLevelBachelor, &scholar)
	s2 := seedStudentWithProfile(t, db, constants.UserStatusApproved, "66070002", constants.DegreeLevelBachelor, &scholar)
	outsider := seedStudentWithProfile(t, db, constants.UserStatusApproved, "66070003", constants.DegreeLevelBachelor, nil)

	activity, members, err := CreateWithFanOut(db, adminID, CreateActivityInput{
		Title:    "ปฐมนิเทศนักศึกษาทุน",
		Date:     time.Now().Add(72 * time.Hour),
		Criteria: MatchCriteria{ScholarshipID: &scholar},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, members)

	var parts []activityModel.ActivityParticipationModel
	require.NoError(t, db.Where("activity_id = ?", activity.ID).Find(&parts).Error)
	require.Len(t, parts, 2)
	got := []uuid.UUID{parts[0].UserID, parts[1].UserID}
	assert.ElementsMatch(t, []uuid.UUID{s1, s2}, got)

	// snapshot: outsider pindah masuk beasiswa SETELAH kegiatan dibuat —
	// daftar peserta tidak berubah
	require.NoError(t, db.Model(&userModel.StudentProfileModel{}).
		Where("user_id = ?", outsider).
		Update("scholarship_id", scholar).Error)
	var after int64
	require.NoError(t, db.Model(&activityModel.ActivityParticipationModel{}).
		Where("activity_id = ?", activity.ID).Count(&after).Error)
	assert.EqualValues(t, 2, after)

	// audit fan-out tercatat
	var logs []auditModel.AuditLogModel
	require.NoError(t, db.Where("action = ?", auditModel.ActionActivityCreated).Find(&logs).Error)
	require.Len(t, logs, 1)
}

func TestSetAttendance(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()
	scholar := seedScholarship(t, db, "ทุนเรียนดี")
	member := seedStudentWithProfile(t, db, constants.UserStatusApproved, "66070001", constants.DegreeLevelBachelor, &scholar)
	outsider := seedStudentWithProfile(t, db, constants.UserStatusApproved, "66070002", constants.DegreeLevelBachelor, nil)

	activity, _, err := CreateWithFanOut(db, adminID, CreateActivityInput{
		Title:    "ค่ายอาสา",
		Date:     time.Now().Add(24 * time.Hour),
		Criteria: MatchCriteria{ScholarshipID: &scholar},
	})
	require.NoError(t, err)

	require.NoError(t, SetAttendance(db, adminID, activity.ID, member, true))
	var part activityModel.ActivityParticipationModel
	require.NoError(t, db.First(&part, "activity_id = ? AND user_id = ?", activity.ID, member).Error)
	assert.True(t, part.Attended)

	// bukan peserta snapshot → not found, bukan insert diam-diam
	err = SetAttendance(db, adminID, activity.ID, outsider, true)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteActivityCascades(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()
	scholar := seedScholarship(t, db, "ทุนเรียนดี")
	seedStudentWithProfile(t, db, constants.UserStatusApproved, "66070001", constants.DegreeLevelBachelor, &scholar)

	activity, _, err := CreateWithFanOut(db, adminID, CreateActivityInput{
		Title:    "กิจกรรมจิตอาสา",
		Date:     time.Now().Add(24 * time.Hour),
		Criteria: MatchCriteria{ScholarshipID: &scholar},
	})
	require.NoError(t, err)

	require.NoError(t, Delete(db, adminID, activity.ID))

	var count int64
	require.NoError(t, db.Model(&activityModel.ActivityParticipationModel{}).
		Where("activity_id = ?", activity.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
