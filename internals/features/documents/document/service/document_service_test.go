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
	documentModel "beasiswaku_backend/internals/features/documents/document/model"
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

func seedScholarship(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	s := scholarshipModel.ScholarshipModel{Name: name, Active: true}
	require.NoError(t, db.Create(&s).Error)
	return s.ID
}

func seedStudentWithScholarship(t *testing.T, db *gorm.DB, scholarshipID *uuid.UUID) uuid.UUID {
	t.Helper()
	u := userModel.UserModel{
		Email:  uuid.NewString() + "@kmitl.ac.th",
		Role:   constants.RoleStudent,
		Status: constants.UserStatusApproved,
	}
	require.NoError(t, db.Create(&u).Error)
	p := userModel.StudentProfileModel{
		UserID:        u.ID,
		FullName:      "สมชาย ใจดี",
		ScholarshipID: scholarshipID,
	}
	require.NoError(t, db.Create(&p).Error)
	return u.ID
}

func TestDocumentScopeFiltering(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()
	sifID := seedScholarship(t, db, "ทุนเรียนดี SIF")
	otherSchID := seedScholarship(t, db, "ทุนช้างเผือก")

	sifStudent := seedStudentWithScholarship(t, db, &sifID)
	freeStudent := seedStudentWithScholarship(t, db, nil)

	global, err := Create(db, adminID, CreateDocumentInput{
		Title: "Panduan umum penerima beasiswa", FileURL: "https://files.example.com/guide.pdf",
	})
	require.NoError(t, err)
	scoped, err := Create(db, adminID, CreateDocumentInput{
		Title:          "Template laporan SIF",
		FileURL:        "https://files.example.com/sif.docx",
		ScholarshipIDs: []uuid.UUID{sifID},
	})
	require.NoError(t, err)
	otherScoped, err := Create(db, adminID, CreateDocumentInput{
		Title:          "Form ทุนช้างเผือก",
		FileURL:        "https://files.example.com/elephant.pdf",
		ScholarshipIDs: []uuid.UUID{otherSchID},
	})
	require.NoError(t, err)

	// belum ada yang published: mahasiswa tidak melihat apa pun
	docs, err := ListForStudent(db, sifStudent)
	require.NoError(t, err)
	assert.Empty(t, docs)

	for _, id := range []uuid.UUID{global.ID, scoped.ID, otherScoped.ID} {
		_, err := SetPublished(db, adminID, id, true)
		require.NoError(t, err)
	}

	// mahasiswa SIF: dokumen global + scope SIF, tanpa scope tunjangan lain
	docs, err = ListForStudent(db, sifStudent)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	ids := []uuid.UUID{docs[0].ID, docs[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{global.ID, scoped.ID}, ids)

	// mahasiswa tanpa beasiswa: hanya dokumen global
	docs, err = ListForStudent(db, freeStudent)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, global.ID, docs[0].ID)
}

func TestPublishUnpublishAudited(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()

	doc, err := Create(db, adminID, CreateDocumentInput{
		Title: "Pengumuman", FileURL: "https://files.example.com/a.pdf",
	})
	require.NoError(t, err)
	assert.False(t, doc.Published)

	pub, err := SetPublished(db, adminID, doc.ID, true)
	require.NoError(t, err)
	assert.True(t, pub.Published)

	unpub, err := SetPublished(db, adminID, doc.ID, false)
	require.NoError(t, err)
	assert.False(t, unpub.Published)

	var count int64
	require.NoError(t, db.Model(&auditModel.AuditLogModel{}).
		Where("action IN ?", []auditModel.Action{
			auditModel.ActionDocumentPublished, auditModel.ActionDocumentUnpublished,
		}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeleteDocumentCascadesScopes(t *testing.T) {
	db := setupDB(t)
	adminID := uuid.New()
	sifID := seedScholarship(t, db, "ทุนเรียนดี")

	doc, err := Create(db, adminID, CreateDocumentInput{
		Title:          "Scoped",
		FileURL:        "https://files.example.com/s.pdf",
		ScholarshipIDs: []uuid.UUID{sifID},
	})
	require.NoError(t, err)

	require.NoError(t, Delete(db, adminID, doc.ID))

	var scopes int64
	require.NoError(t, db.Model(&documentModel.DocumentScopeModel{}).
		Where("document_id = ?", doc.ID).Count(&scopes).Error)
	assert.Zero(t, scopes)

	err = Delete(db, adminID, doc.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
