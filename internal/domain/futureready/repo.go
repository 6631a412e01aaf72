package futureready

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("futureready: not found")

// SettingsRepository stores per-user backup preferences.
type SettingsRepository interface {
	Get(ctx context.Context, userID string) (*BackupSettings, error)
	Save(ctx context.Context, settings *BackupSettings) error
}

// BackupRepository stores backup history entries.
type BackupRepository interface {
	Create(ctx context.Context, entry *BackupEntry) error
	Update(ctx context.Context, entry *BackupEntry) error
	ListByUser(ctx context.Context, userID string) ([]*BackupEntry, error)
	// ListByStatus returns entries in the given status, oldest first.
	ListByStatus(ctx context.Context, status BackupStatus) ([]*BackupEntry, error)
}

// MemSettingsRepo is a thread-safe in-memory SettingsRepository.
type MemSettingsRepo struct {
	mu       sync.RWMutex
	settings map[string]*BackupSettings
}

func NewMemSettingsRepo() *MemSettingsRepo {
	return &MemSettingsRepo{settings: make(map[string]*BackupSettings)}
}

func (m *MemSettingsRepo) Get(_ context.Context, userID string) (*BackupSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[userID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *s
	return &c, nil
}

func (m *MemSettingsRepo) Save(_ context.Context, settings *BackupSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *settings
	m.settings[settings.UserID] = &c
	return nil
}

// MemBackupRepo is a thread-safe in-memory BackupRepository.
type MemBackupRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*BackupEntry
	order   []uuid.UUID // insertion order, oldest first
}

func NewMemBackupRepo() *MemBackupRepo {
	return &MemBackupRepo{entries: make(map[uuid.UUID]*BackupEntry)}
}

func (m *MemBackupRepo) Create(_ context.Context, entry *BackupEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry.Clone()
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *MemBackupRepo) Update(_ context.Context, entry *BackupEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return ErrNotFound
	}
	m.entries[entry.ID] = entry.Clone()
	return nil
}

func (m *MemBackupRepo) ListByUser(_ context.Context, userID string) ([]*BackupEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []*BackupEntry{}
	// newest first
	for i := len(m.order) - 1; i >= 0; i-- {
		e := m.entries[m.order[i]]
		if e.UserID == userID {
			result = append(result, e.Clone())
		}
	}
	return result, nil
}

func (m *MemBackupRepo) ListByStatus(_ context.Context, status BackupStatus) ([]*BackupEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []*BackupEntry{}
	for _, id := range m.order {
		if e := m.entries[id]; e.Status == status {
			result = append(result, e.Clone())
		}
	}
	return result, nil
}
