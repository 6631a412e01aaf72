package monetization

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("monetization: not found")

// SubscriptionRepository stores per-user subscription state.
type SubscriptionRepository interface {
	Get(ctx context.Context, userID string) (*Subscription, error)
	Save(ctx context.Context, sub *Subscription) error
}

// ConsultationRepository stores booked consultations.
type ConsultationRepository interface {
	Create(ctx context.Context, c *Consultation) error
	ListByUser(ctx context.Context, userID string) ([]*Consultation, error)
}

// MemSubscriptionRepo is a thread-safe in-memory SubscriptionRepository.
type MemSubscriptionRepo struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
}

func NewMemSubscriptionRepo() *MemSubscriptionRepo {
	return &MemSubscriptionRepo{subs: make(map[string]*Subscription)}
}

func (m *MemSubscriptionRepo) Get(_ context.Context, userID string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *sub
	return &c, nil
}

func (m *MemSubscriptionRepo) Save(_ context.Context, sub *Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *sub
	m.subs[sub.UserID] = &c
	return nil
}

// MemConsultationRepo is a thread-safe in-memory ConsultationRepository.
type MemConsultationRepo struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*Consultation
	order []uuid.UUID
}

func NewMemConsultationRepo() *MemConsultationRepo {
	return &MemConsultationRepo{byID: make(map[uuid.UUID]*Consultation)}
}

func (m *MemConsultationRepo) Create(_ context.Context, c *Consultation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.byID[c.ID] = &cp
	m.order = append(m.order, c.ID)
	return nil
}

func (m *MemConsultationRepo) ListByUser(_ context.Context, userID string) ([]*Consultation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []*Consultation{}
	// newest first
	for i := len(m.order) - 1; i >= 0; i-- {
		c := m.byID[m.order[i]]
		if c.UserID == userID {
			cp := *c
			result = append(result, &cp)
		}
	}
	return result, nil
}
