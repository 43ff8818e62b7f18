package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageThreadModel: percakapan dukungan antara satu mahasiswa dan staf.
// closed bersifat terminal — tidak ada reopen.
type MessageThreadModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Subject       string    `gorm:"size:255;not null" json:"subject"`
	Status        string    `gorm:"type:varchar(10);not null;default:'open'" json:"status"`
	LastMessageAt time.Time `gorm:"not null;index" json:"last_message_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Messages []MessageModel `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (MessageThreadModel) TableName() string {
	return "message_threads"
}

func (t *MessageThreadModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// MessageModel: pesan append-only di dalam thread.
type MessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index" json:"thread_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
