// Package ratelimit menyediakan fixed-window counter in-memory untuk menjaga
// endpoint login & reset password dari brute force.
//
// Catatan scope: state ini per-proses. Deployment multi-instance butuh store
// terdistribusi supaya jaminannya tetap berlaku.
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count       int
	windowStart time.Time
}

type Limiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	entries   map[string]*entry
	lastSweep time.Time

	now func() time.Time // bisa dioverride di test
}

func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Check memeriksa tanpa menambah counter. Dipakai sebelum autentikasi untuk
// memutus key yang sudah terkunci. retryAfter hanya berarti saat allowed=false.
func (l *Limiter) Check(key string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		return true, 0
	}
	if e.count < l.max {
		return true, 0
	}
	return false, e.windowStart.Add(l.window).Sub(now)
}

// Incr menambah counter key (dipanggil setiap percobaan gagal, termasuk untuk
// akun yang tidak ada — mencegah bocornya keberadaan akun).
func (l *Limiter) Incr(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		l.entries[key] = &entry{count: 1, windowStart: now}
		return
	}
	e.count++
}

// Reset menghapus counter key (dipanggil saat autentikasi berhasil).
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// sweepLocked membersihkan entry kadaluarsa secara oportunistik saat akses,
// bukan lewat timer background. Dibatasi sekali per window.
func (l *Limiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for k, e := range l.entries {
		if now.Sub(e.windowStart) >= l.window {
			delete(l.entries, k)
		}
	}
}
