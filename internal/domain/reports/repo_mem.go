package reports

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/pkg/pagination"
)

// MemReportRepo is a thread-safe in-memory ReportRepository.
type MemReportRepo struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*GeneratedReport
	order   []uuid.UUID // insertion order, oldest first
}

func NewMemReportRepo() *MemReportRepo {
	return &MemReportRepo{reports: make(map[uuid.UUID]*GeneratedReport)}
}

func clone(r *GeneratedReport) *GeneratedReport {
	c := *r
	c.Sections = append([]ReportSection(nil), r.Sections...)
	if r.Metadata.TotalPages != nil {
		v := *r.Metadata.TotalPages
		c.Metadata.TotalPages = &v
	}
	return &c
}

func (m *MemReportRepo) Create(_ context.Context, r *GeneratedReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = clone(r)
	m.order = append(m.order, r.ID)
	return nil
}

func (m *MemReportRepo) Get(_ context.Context, id uuid.UUID) (*GeneratedReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r), nil
}

func (m *MemReportRepo) List(_ context.Context, limit, offset int) ([]*GeneratedReport, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]*GeneratedReport, 0, len(m.order))
	// newest first
	for i := len(m.order) - 1; i >= 0; i-- {
		all = append(all, clone(m.reports[m.order[i]]))
	}
	return pagination.Page(all, pagination.Params{Limit: limit, Offset: offset}), len(all), nil
}
