package auth

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
	userModel "beasiswaku_backend/internals/features/users/user/model"
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

func TestClaimCacheInvalidate(t *testing.T) {
	db := setupDB(t)
	u := userModel.UserModel{
		Email:  uuid.NewString() + "@kmitl.ac.th",
		Role:   constants.RoleStudent,
		Status: constants.UserStatusApproved,
	}
	require.NoError(t, db.Create(&u).Error)

	cache := NewClaimCache()

	entry, err := cache.Resolve(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusApproved, entry.Status)

	// admin men-suspend; tanpa Invalidate cache masih menyajikan status lama
	require.NoError(t, db.Model(&u).Update("status", constants.UserStatusSuspended).Error)
	entry, err = cache.Resolve(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusApproved, entry.Status)

	// Invalidate memaksa baca ulang pada Resolve berikutnya
	cache.Invalidate(u.ID)
	entry, err = cache.Resolve(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusSuspended, entry.Status)
}
