package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
)

// MemSessions is an in-memory session registry. TTLs are recorded, not enforced.
type MemSessions struct {
	mu   sync.Mutex
	byID map[int64]entity.Session
	TTLs map[int64]time.Duration
	Err  error
}

func NewMemSessions() *MemSessions {
	return &MemSessions{byID: map[int64]entity.Session{}, TTLs: map[int64]time.Duration{}}
}

func (m *MemSessions) Save(_ context.Context, s entity.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.byID[s.AccountID] = s
	m.TTLs[s.AccountID] = ttl
	return nil
}

func (m *MemSessions) Get(_ context.Context, accountID int64) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.byID[accountID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemSessions) Delete(_ context.Context, accountID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.byID, accountID)
	return nil
}

// Has reports whether the account has a live session.
func (m *MemSessions) Has(accountID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[accountID]
	return ok
}

// Logger returns a logger that discards output and records entries.
func Logger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}
