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

func TestCreateScholarshipWithMilestones(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()

	minGPA := 3.0
	s, err := Create(db, adminID, ScholarshipInput{
		Name:   "ทุนเรียนดี SIF",
		MinGPA: &minGPA,
		Milestones: []MilestoneInput{
			{Title: "Laporan ปี 1 เทอม 1", TargetYearLevel: 1, TargetSemester: "1", OrderIndex: 0},
			{Title: "Laporan ปี 1 เทอม 2", TargetYearLevel: 1, TargetSemester: "2", OrderIndex: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, s.Active)
	assert.Len(t, s.Milestones, 2)

	got, err := Get(db, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Milestones, 2)
	assert.Equal(t, "Laporan ปี 1 เทอม 1", got.Milestones[0].Title)
}

func TestScholarshipValidation(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()

	badGPA := 5.0
	cases := []ScholarshipInput{
		{Name: "   "},
		{Name: "x", MinGPA: &badGPA},
		{Name: "x", Milestones: []MilestoneInput{{Title: "m", TargetYearLevel: 9, TargetSemester: "1"}}},
		{Name: "x", Milestones: []MilestoneInput{{Title: "m", TargetYearLevel: 1, TargetSemester: "4"}}},
	}
	for _, in := range cases {
		_, err := Create(db, adminID, in)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestUpdateReplacesMilestones(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()

	s, err := Create(db, adminID, ScholarshipInput{
		Name: "ทุนช้างเผือก",
		Milestones: []MilestoneInput{
			{Title: "Lama", TargetYearLevel: 1, TargetSemester: "1"},
		},
	})
	require.NoError(t, err)

	inactive := false
	updated, err := Update(db, adminID, s.ID, ScholarshipInput{
		Name:   "ทุนช้างเผือก (ปรับปรุง)",
		Active: &inactive,
		Milestones: []MilestoneInput{
			{Title: "Baru A", TargetYearLevel: 2, TargetSemester: "1", OrderIndex: 0},
			{Title: "Baru B", TargetYearLevel: 2, TargetSemester: "2", OrderIndex: 1},
		},
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	require.Len(t, updated.Milestones, 2)
	assert.Equal(t, "Baru A", updated.Milestones[0].Title)

	// program nonaktif hilang dari direktori publik
	active, err := ListActive(db)
	require.NoError(t, err)
	assert.Empty(t, active)

	var orphans int64
	require.NoError(t, db.Model(&scholarshipModel.MilestoneModel{}).
		Where("title = ?", "Lama").Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestDeleteScholarshipGuardedByRecipients(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()

	s, err := Create(db, adminID, ScholarshipInput{Name: "ทุนเรียนดี"})
	require.NoError(t, err)

	u := userModel.UserModel{
		Email:  uuid.NewString() + "@kmitl.ac.th",
		Role:   constants.RoleStudent,
		Status: constants.UserStatusApproved,
	}
	require.NoError(t, db.Create(&u).Error)
	p := userModel.StudentProfileModel{UserID: u.ID, ScholarshipID: &s.ID}
	require.NoError(t, db.Create(&p).Error)

	err = Delete(db, adminID, s.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// lepaskan penerima, baru boleh dihapus
	require.NoError(t, db.Model(&p).Update("scholarship_id", nil).Error)
	assert.NoError(t, Delete(db, adminID, s.ID))

	_, err = Get(db, s.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
