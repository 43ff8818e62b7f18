package service

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditModel "beasiswaku_backend/internals/features/audits/audit/model"
)

// Record menulis satu entry audit DI DALAM transaksi pemanggil.
// Kalau insert ini gagal, seluruh transaksi ikut rollback — mutasi dan
// auditnya selalu commit bersama atau tidak sama sekali.
func Record(tx *gorm.DB, actorID uuid.UUID, action auditModel.Action, targetUserID *uuid.UUID, detail map[string]any) error {
	entry := auditModel.AuditLogModel{
		ActorID:      actorID,
		Action:       action,
		TargetUserID: targetUserID,
	}

	if len(detail) > 0 {
		raw, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("gagal marshal detail audit: %w", err)
		}
		entry.Detail = datatypes.JSON(raw)
	}

	return tx.Create(&entry).Error
}
