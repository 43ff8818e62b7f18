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
	threadModel "beasiswaku_backend/internals/features/messages/threads/model"
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

func seedUser(t *testing.T, db *gorm.DB, role string) uuid.UUID {
	t.Helper()
	u := userModel.UserModel{
		Email:  uuid.NewString() + "@kmitl.ac.th",
		Role:   role,
		Status: constants.UserStatusApproved,
	}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestCreateThreadWithFirstMessage(t *testing.T) {
	db := setupDB(t)
	studentID := seedUser(t, db, constants.RoleStudent)

	thread, err := CreateThread(db, studentID, "สอบถามเรื่องเอกสาร", "ต้องส่ง transcript ภายในวันไหนครับ")
	require.NoError(t, err)
	assert.Equal(t, constants.ThreadStatusOpen, thread.Status)

	var msgs []threadModel.MessageModel
	require.NoError(t, db.Where("thread_id = ?", thread.ID).Find(&msgs).Error)
	require.Len(t, msgs, 1)
	assert.Equal(t, studentID, msgs[0].SenderID)
}

func TestReplyBumpsLastMessageAt(t *testing.T) {
	db := setupDB(t)
	studentID := seedUser(t, db, constants.RoleStudent)
	adminID := seedUser(t, db, constants.RoleAdmin)

	thread, err := CreateThread(db, studentID, "สอบถาม", "คำถามแรก")
	require.NoError(t, err)
	before := thread.LastMessageAt

	time.Sleep(5 * time.Millisecond)
	_, err = Reply(db, adminID, constants.RoleAdmin, thread.ID, "ตอบกลับจากเจ้าหน้าที่")
	require.NoError(t, err)

	var reloaded threadModel.MessageThreadModel
	require.NoError(t, db.First(&reloaded, "id = ?", thread.ID).Error)
	assert.True(t, reloaded.LastMessageAt.After(before))
}

func TestReplyOwnershipGuard(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, db, constants.RoleStudent)
	other := seedUser(t, db, constants.RoleStudent)
	adminID := seedUser(t, db, constants.RoleAdmin)

	thread, err := CreateThread(db, owner, "เรื่องส่วนตัว", "รายละเอียด")
	require.NoError(t, err)

	// mahasiswa lain tidak bisa membalas thread orang lain
	_, err = Reply(db, other, constants.RoleStudent, thread.ID, "แอบตอบ")
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	// admin bisa
	_, err = Reply(db, adminID, constants.RoleAdmin, thread.ID, "ตอบจากแอดมิน")
	assert.NoError(t, err)
}

func TestClosedThreadRejectsReplies(t *testing.T) {
	db := setupDB(t)
	studentID := seedUser(t, db, constants.RoleStudent)
	adminID := seedUser(t, db, constants.RoleAdmin)

	thread, err := CreateThread(db, studentID, "ปิดเคส", "ข้อความ")
	require.NoError(t, err)

	closed, err := Close(db, adminID, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ThreadStatusClosed, closed.Status)

	// closed = terminal untuk dua sisi
	_, err = Reply(db, studentID, constants.RoleStudent, thread.ID, "ยังอยู่ไหม")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	_, err = Reply(db, adminID, constants.RoleAdmin, thread.ID, "ตามต่อ")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// tutup dua kali juga conflict
	_, err = Close(db, adminID, thread.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestMarkReadIdempotent(t *testing.T) {
	db := setupDB(t)
	studentID := seedUser(t, db, constants.RoleStudent)
	adminID := seedUser(t, db, constants.RoleAdmin)

	thread, err := CreateThread(db, studentID, "สอบถาม", "คำถาม")
	require.NoError(t, err)
	_, err = Reply(db, adminID, constants.RoleAdmin, thread.ID, "คำตอบ 1")
	require.NoError(t, err)
	_, err = Reply(db, adminID, constants.RoleAdmin, thread.ID, "คำตอบ 2")
	require.NoError(t, err)

	count, err := UnreadCount(db, studentID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, MarkRead(db, studentID, constants.RoleStudent, thread.ID))
	count, err = UnreadCount(db, studentID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// panggilan kedua tidak error dan tidak mengubah apa pun
	require.NoError(t, MarkRead(db, studentID, constants.RoleStudent, thread.ID))

	// pesan milik sendiri tidak ikut tertandai
	var own threadModel.MessageModel
	require.NoError(t, db.First(&own, "thread_id = ? AND sender_id = ?", thread.ID, studentID).Error)
	assert.False(t, own.IsRead)
}

func TestOpeningThreadMarksMessagesRead(t *testing.T) {
	db := setupDB(t)
	studentID := seedUser(t, db, constants.RoleStudent)
	adminID := seedUser(t, db, constants.RoleAdmin)

	thread, err := CreateThread(db, studentID, "สอบถาม", "คำถาม")
	require.NoError(t, err)
	_, err = Reply(db, adminID, constants.RoleAdmin, thread.ID, "คำตอบจากเจ้าหน้าที่")
	require.NoError(t, err)

	count, err := UnreadCount(db, studentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// membuka thread saja sudah menandai terbaca — tanpa aksi eksplisit
	opened, err := GetWithMessages(db, studentID, constants.RoleStudent, thread.ID)
	require.NoError(t, err)
	for _, msg := range opened.Messages {
		if msg.SenderID != studentID {
			assert.True(t, msg.IsRead)
		}
	}

	count, err = UnreadCount(db, studentID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// membuka ulang idempotent
	_, err = GetWithMessages(db, studentID, constants.RoleStudent, thread.ID)
	assert.NoError(t, err)

	// mahasiswa lain tetap ditolak, tanpa efek samping
	otherID := seedUser(t, db, constants.RoleStudent)
	_, err = GetWithMessages(db, otherID, constants.RoleStudent, thread.ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}
