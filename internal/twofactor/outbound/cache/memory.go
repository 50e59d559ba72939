package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
)

// memoryEntry carries its own deadline so liveness follows the injected
// clock. go-cache's own expiry only reclaims memory.
type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// Memory is a single-process store for development and tests.
type Memory struct {
	tracer
	clock clock.Clocker
	mu    sync.Mutex
	c     *gocache.Cache
}

func NewMemory(clk clock.Clocker, ins instrument.Instrumentation) *Memory {
	return &Memory{
		tracer: tracer{ins: ins},
		clock:  clk,
		c:      gocache.New(gocache.NoExpiration, time.Minute),
	}
}

// live returns the entry for key if its deadline has not passed. Callers hold mu.
func (m *Memory) live(key string) (memoryEntry, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return memoryEntry{}, false
	}

	e, _ := v.(memoryEntry)
	if !m.clock.Now().Before(e.expiresAt) {
		m.c.Delete(key)
		return memoryEntry{}, false
	}

	return e, true
}

// TTLEmailOTP returns the remaining lifetime; zero means no code.
func (m *Memory) TTLEmailOTP(ctx context.Context, adminID int64) (time.Duration, error) {
	_, span := m.startSpan(ctx, "TTLEmailOTP")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(emailOTPKey(adminID))
	if !ok {
		return 0, nil
	}

	return e.expiresAt.Sub(m.clock.Now()), nil
}

func (m *Memory) SetEmailOTP(ctx context.Context, adminID int64, code string, ttl time.Duration) error {
	_, span := m.startSpan(ctx, "SetEmailOTP")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.c.Set(emailOTPKey(adminID), memoryEntry{code: code, expiresAt: m.clock.Now().Add(ttl)}, ttl)
	return nil
}

func (m *Memory) ConsumeEmailOTP(ctx context.Context, adminID int64, code string) (bool, error) {
	_, span := m.startSpan(ctx, "ConsumeEmailOTP")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailOTPKey(adminID)
	e, ok := m.live(key)
	if !ok || e.code != code {
		return false, nil
	}

	m.c.Delete(key)
	return true, nil
}

func (m *Memory) DelEmailOTP(ctx context.Context, adminID int64) error {
	_, span := m.startSpan(ctx, "DelEmailOTP")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.c.Delete(emailOTPKey(adminID))
	return nil
}
