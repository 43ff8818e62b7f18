package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Action adalah enum tertutup aksi administratif yang diaudit.
type Action string

const (
	ActionUserApproved  Action = "USER_APPROVED"
	ActionUserRejected  Action = "USER_REJECTED"
	ActionUserSuspended Action = "USER_SUSPENDED"
	ActionUserPending   Action = "USER_PENDING"
	ActionUserCreated   Action = "USER_CREATED"

	ActionRecordVerified Action = "RECORD_VERIFIED"
	ActionRecordRejected Action = "RECORD_REJECTED"
	ActionRecordEdited   Action = "RECORD_EDITED"

	ActionAchievementVerified Action = "ACHIEVEMENT_VERIFIED"
	ActionAchievementRejected Action = "ACHIEVEMENT_REJECTED"

	ActionActivityCreated Action = "ACTIVITY_CREATED"
	ActionActivityDeleted Action = "ACTIVITY_DELETED"
	ActionAttendanceSet   Action = "ATTENDANCE_SET"

	ActionReportReviewed     Action = "REPORT_REVIEWED"
	ActionReportNeedRevision Action = "REPORT_NEED_REVISION"

	ActionThreadClosed Action = "THREAD_CLOSED"

	ActionDocumentPublished   Action = "DOCUMENT_PUBLISHED"
	ActionDocumentUnpublished Action = "DOCUMENT_UNPUBLISHED"
	ActionDocumentDeleted     Action = "DOCUMENT_DELETED"

	ActionScholarshipCreated Action = "SCHOLARSHIP_CREATED"
	ActionScholarshipUpdated Action = "SCHOLARSHIP_UPDATED"
	ActionScholarshipDeleted Action = "SCHOLARSHIP_DELETED"

	ActionProfileOverridden Action = "PROFILE_OVERRIDDEN"
)

// AuditLogModel: ledger append-only. Tidak ada operasi update/delete —
// koreksi dilakukan dengan menulis entry kompensasi baru.
type AuditLogModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	Action       Action         `gorm:"type:varchar(50);not null;index" json:"action"`
	TargetUserID *uuid.UUID     `gorm:"type:uuid;index" json:"target_user_id,omitempty"`
	Detail       datatypes.JSON `gorm:"type:jsonb" json:"detail,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}

func (a *AuditLogModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
