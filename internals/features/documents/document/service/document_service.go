package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
	audit "beasiswaku_backend/internals/features/audits/audit/service"
	documentModel "beasiswaku_backend/internals/features/documents/document/model"
	userModel "beasiswaku_backend/internals/features/users/user/model"
	"beasiswaku_backend/internals/helpers/apperr"
)

type CreateDocumentInput struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	FileURL        string      `json:"file_url"`
	FileName       string      `json:"file_name"`
	FileSize       int64       `json:"file_size"`
	FileType       string      `json:"file_type"`
	ScholarshipIDs []uuid.UUID `json:"scholarship_ids"` // kosong = scope semua
}

// Create menyimpan dokumen baru (unpublished) beserta scope-nya.
func Create(db *gorm.DB, adminID uuid.UUID, in CreateDocumentInput) (*documentModel.DocumentModel, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("Judul dokumen wajib diisi")
	}
	if in.FileURL == "" {
		return nil, apperr.Validation("File dokumen wajib diupload dulu")
	}

	doc := documentModel.DocumentModel{
		Title:       title,
		Description: in.Description,
		FileURL:     in.FileURL,
		FileName:    in.FileName,
		FileSize:    in.FileSize,
		FileType:    in.FileType,
		Published:   false,
		ScopeAll:    len(in.ScholarshipIDs) == 0,
	}
	for _, sid := range in.ScholarshipIDs {
		doc.Scopes = append(doc.Scopes, documentModel.DocumentScopeModel{ScholarshipID: sid})
	}

	if err := db.Create(&doc).Error; err != nil {
		return nil, apperr.Internal("gagal membuat dokumen", err)
	}
	return &doc, nil
}

// SetPublished membalik visibilitas dokumen dan mencatatnya di audit.
func SetPublished(db *gorm.DB, adminID, documentID uuid.UUID, published bool) (*documentModel.DocumentModel, error) {
	doc, err := load(db, documentID)
	if err != nil {
		return nil, err
	}

	action := auditModel.ActionDocumentUnpublished
	if published {
		action = auditModel.ActionDocumentPublished
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(doc).Update("published", published).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, action, nil, map[string]any{
			"document_id": doc.ID.String(),
			"title":       doc.Title,
		})
	})
	if err != nil {
		return nil, apperr.Internal("gagal ubah publikasi dokumen", err)
	}

	doc.Published = published
	return doc, nil
}

// Delete menghapus dokumen berikut scope-nya.
func Delete(db *gorm.DB, adminID, documentID uuid.UUID) error {
	doc, err := load(db, documentID)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).
			Delete(&documentModel.DocumentScopeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(doc).Error; err != nil {
			return err
		}
		return audit.Record(tx, adminID, auditModel.ActionDocumentDeleted, nil, map[string]any{
			"document_id": doc.ID.String(),
			"title":       doc.Title,
		})
	})
	if err != nil {
		return apperr.Internal("gagal hapus dokumen", err)
	}
	return nil
}

// ListForStudent: dokumen published yang scope-nya mencakup mahasiswa ini —
// scope_all, atau scope beasiswa yang sama dengan profilnya.
func ListForStudent(db *gorm.DB, userID uuid.UUID) ([]documentModel.DocumentModel, error) {
	var profile userModel.StudentProfileModel
	err := db.First(&profile, "user_id = ?", userID).Error
	hasProfile := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("gagal load profil", err)
	}

	q := db.Where("published = ?", true)
	if hasProfile && profile.ScholarshipID != nil {
		q = q.Where(
			"scope_all = ? OR id IN (?)",
			true,
			db.Model(&documentModel.DocumentScopeModel{}).
				Select("document_id").
				Where("scholarship_id = ?", *profile.ScholarshipID),
		)
	} else {
		q = q.Where("scope_all = ?", true)
	}

	var docs []documentModel.DocumentModel
	if err := q.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, apperr.Internal("gagal ambil dokumen", err)
	}
	return docs, nil
}

// ListAll untuk admin (termasuk unpublished), berikut scope.
func ListAll(db *gorm.DB, limit, offset int) ([]documentModel.DocumentModel, int64, error) {
	var total int64
	if err := db.Model(&documentModel.DocumentModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("gagal hitung dokumen", err)
	}
	var docs []documentModel.DocumentModel
	if err := db.Preload("Scopes").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&docs).Error; err != nil {
		return nil, 0, apperr.Internal("gagal ambil dokumen", err)
	}
	return docs, total, nil
}

func load(db *gorm.DB, documentID uuid.UUID) (*documentModel.DocumentModel, error) {
	var doc documentModel.DocumentModel
	if err := db.First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Dokumen tidak ditemukan")
		}
		return nil, apperr.Internal("gagal load dokumen", err)
	}
	return &doc, nil
}
