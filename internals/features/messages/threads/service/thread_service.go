package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	threadModel "beasiswaku_backend/internals/features/messages/threads/model"
	"beasiswaku_backend/internals/helpers/apperr"
)

// CreateThread membuka thread baru milik mahasiswa beserta pesan pertamanya.
func CreateThread(db *gorm.DB, userID uuid.UUID, subject, content string) (*threadModel.MessageThreadModel, error) {
	subject = strings.TrimSpace(subject)
	content = strings.TrimSpace(content)
	if subject == "" {
		return nil, apperr.Validation("Subjek wajib diisi")
	}
	if content == "" {
		return nil, apperr.Validation("Isi pesan wajib diisi")
	}

	now := time.Now().UTC()
	thread := threadModel.MessageThreadModel{
		UserID:        userID,
		Subject:       subject,
		Status:        constants.ThreadStatusOpen,
		LastMessageAt: now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&thread).Error; err != nil {
			return err
		}
		msg := threadModel.MessageModel{
			ThreadID: thread.ID,
			SenderID: userID,
			Content:  content,
		}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, apperr.Internal("gagal membuat thread", err)
	}
	return &thread, nil
}

// Reply menambahkan pesan ke thread terbuka. Mahasiswa hanya boleh membalas
// threadnya sendiri; admin boleh membalas thread siapa pun. Thread closed
// menolak pesan baru dari kedua sisi.
func Reply(db *gorm.DB, senderID uuid.UUID, senderRole string, threadID uuid.UUID, content string) (*threadModel.MessageModel, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("Isi pesan wajib diisi")
	}

	var thread threadModel.MessageThreadModel
	if err := db.First(&thread, "id = ?", threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Thread tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load thread", err)
	}
	if senderRole != constants.RoleAdmin && thread.UserID != senderID {
		return nil, apperr.Permission("Bukan thread milik Anda")
	}
	if thread.Status == constants.ThreadStatusClosed {
		return nil, apperr.Conflict("Thread sudah ditutup")
	}

	msg := threadModel.MessageModel{
		ThreadID: threadID,
		SenderID: senderID,
		Content:  content,
	}
	now := time.Now().UTC()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&thread).Update("last_message_at", now).Error
	})
	if err != nil {
		return nil, apperr.Internal("gagal kirim pesan", err)
	}
	return &msg, nil
}

// MarkRead menandai terbaca semua pesan lawan bicara di satu thread.
// Idempotent: pesan yang sudah terbaca tidak berubah.
func MarkRead(db *gorm.DB, readerID uuid.UUID, readerRole string, threadID uuid.UUID) error {
	var thread threadModel.MessageThreadModel
	if err := db.First(&thread, "id = ?", threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Thread tidak ditemukan")
		}
		return apperr.Internal("gagal load thread", err)
	}
	if readerRole != constants.RoleAdmin && thread.UserID != readerID {
		return apperr.Permission("Bukan thread milik Anda")
	}

	err := db.Model(&threadModel.MessageModel{}).
		Where("thread_id = ? AND sender_id <> ? AND is_read = ?", threadID, readerID, false).
		Update("is_read", true).Error
	if err != nil {
		return apperr.Internal("gagal tandai terbaca", err)
	}
	return nil
}

// Close menutup thread secara permanen (admin only). Tidak ada reopen.
func Close(db *gorm.DB, adminID, threadID uuid.UUID) (*threadModel.MessageThreadModel, error) {
	var thread threadModel.MessageThreadModel
	if err := db.First(&thread, "id = ?", threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Thread tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load thread", err)
	}
	if thread.Status == constants.ThreadStatusClosed {
		return nil, apperr.Conflict("Thread sudah ditutup")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&thread).Update("status", constants.ThreadStatusClosed).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, auditModel.ActionThreadClosed, &thread.UserID, map[string]any{
			"thread_id": thread.ID.String(),
			"subject":   thread.Subject,
		})
	})
	if err != nil {
		return nil, apperr.Internal("gagal tutup thread", err)
	}

	thread.Status = constants.ThreadStatusClosed
	return &thread, nil
}

// ListForUser: thread milik satu mahasiswa, aktivitas terakhir dulu.
func ListForUser(db *gorm.DB, userID uuid.UUID) ([]threadModel.MessageThreadModel, error) {
	var rows []threadModel.MessageThreadModel
	if err := db.Where("user_id = ?", userID).
		Order("last_message_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperr.Internal("gagal ambil thread", err)
	}
	return rows, nil
}

// ListAll: inbox staf lintas mahasiswa, bisa difilter status.
func ListAll(db *gorm.DB, status string, limit, offset int) ([]threadModel.MessageThreadModel, int64, error) {
	q := db.Model(&threadModel.MessageThreadModel{})
	if status != "" {
		if status != constants.ThreadStatusOpen && status != constants.ThreadStatusClosed {
			return nil, 0, apperr.Validation("Status thread tidak dikenal: " + status)
		}
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("gagal hitung thread", err)
	}
	var rows []threadModel.MessageThreadModel
	if err := q.Order("last_message_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("gagal ambil thread", err)
	}
	return rows, total, nil
}

// GetWithMessages memuat thread + seluruh pesan urut kronologis, dengan
// guard kepemilikan yang sama seperti Reply. Membuka thread sekaligus
// menandai pesan lawan bicara terbaca — efek samping dari melihat, bukan
// aksi eksplisit, dan idempotent seperti MarkRead.
func GetWithMessages(db *gorm.DB, readerID uuid.UUID, readerRole string, threadID uuid.UUID) (*threadModel.MessageThreadModel, error) {
	var thread threadModel.MessageThreadModel
	err := db.Preload("Messages", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).First(&thread, "id = ?", threadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Thread tidak ditemukan")
	}
	if err != nil {
		return nil, apperr.Internal("gagal load thread", err)
	}
	if readerRole != constants.RoleAdmin && thread.UserID != readerID {
		return nil, apperr.Permission("Bukan thread milik Anda")
	}

	if err := db.Model(&threadModel.MessageModel{}).
		Where("thread_id = ? AND sender_id <> ? AND is_read = ?", threadID, readerID, false).
		Update("is_read", true).Error; err != nil {
		return nil, apperr.Internal("gagal tandai terbaca", err)
	}
	for i := range thread.Messages {
		if thread.Messages[i].SenderID != readerID {
			thread.Messages[i].IsRead = true
		}
	}

	return &thread, nil
}

// UnreadCount menghitung pesan belum terbaca yang ditujukan ke reader.
func UnreadCount(db *gorm.DB, readerID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&threadModel.MessageModel{}).
		Joins("JOIN message_threads mt ON mt.id = messages.thread_id").
		Where("mt.user_id = ? AND messages.sender_id <> ? AND messages.is_read = ?", readerID, readerID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Internal("gagal hitung pesan belum terbaca", err)
	}
	return count, nil
}
