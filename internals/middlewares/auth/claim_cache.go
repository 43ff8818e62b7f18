package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "beasiswaku_backend/internals/features/users/user/model"
)

// ClaimCache menyegarkan klaim sesi (role/status/scholarship) dari DB secara
// lazy. Klaim di JWT adalah snapshot saat login; cache ini menjamin perubahan
// (mis. admin men-suspend akun) terlihat paling lambat refreshTTL kemudian,
// tanpa query DB di setiap request.
type ClaimCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uuid.UUID]*claimEntry

	now func() time.Time
}

type claimEntry struct {
	Role          string
	Status        string
	ScholarshipID *uuid.UUID
	EmailVerified bool
	fetchedAt     time.Time
}

const refreshTTL = 60 * time.Second

func NewClaimCache() *ClaimCache {
	return &ClaimCache{
		ttl:     refreshTTL,
		entries: make(map[uuid.UUID]*claimEntry),
		now:     time.Now,
	}
}

// Resolve mengembalikan klaim segar untuk userID: dari cache bila umurnya
// masih di bawah TTL, selain itu dibaca ulang dari DB.
func (cc *ClaimCache) Resolve(db *gorm.DB, userID uuid.UUID) (*claimEntry, error) {
	cc.mu.Lock()
	if e, ok := cc.entries[userID]; ok && cc.now().Sub(e.fetchedAt) < cc.ttl {
		cc.mu.Unlock()
		return e, nil
	}
	cc.mu.Unlock()

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	var profile userModel.StudentProfileModel
	var scholarshipID *uuid.UUID
	if err := db.First(&profile, "user_id = ?", userID).Error; err == nil {
		scholarshipID = profile.ScholarshipID
	}

	e := &claimEntry{
		Role:          user.Role,
		Status:        user.Status,
		ScholarshipID: scholarshipID,
		EmailVerified: user.EmailVerifiedAt != nil,
		fetchedAt:     cc.now(),
	}
	cc.mu.Lock()
	cc.entries[userID] = e
	cc.mu.Unlock()
	return e, nil
}

// Invalidate memaksa refresh pada request berikutnya (dipakai setelah admin
// mengubah status/role user).
func (cc *ClaimCache) Invalidate(userID uuid.UUID) {
	cc.mu.Lock()
	delete(cc.entries, userID)
	cc.mu.Unlock()
}
