package dataexport

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/pkg/pagination"
)

// MemExportRepo is a thread-safe in-memory ExportRepository. It stores and
// returns copies, so a job handed to a caller never changes underneath it;
// observed lifecycle transitions only happen through Update.
type MemExportRepo struct {
	mu    sync.RWMutex
	jobs  map[uuid.UUID]*ExportJob
	order []uuid.UUID // insertion order, oldest first
}

func NewMemExportRepo() *MemExportRepo {
	return &MemExportRepo{jobs: make(map[uuid.UUID]*ExportJob)}
}

func (r *MemExportRepo) Create(_ context.Context, job *ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job.Clone()
	r.order = append(r.order, job.ID)
	return nil
}

func (r *MemExportRepo) Get(_ context.Context, id uuid.UUID) (*ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

func (r *MemExportRepo) Update(_ context.Context, job *ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return ErrNotFound
	}
	r.jobs[job.ID] = job.Clone()
	return nil
}

func (r *MemExportRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return nil
	}
	delete(r.jobs, id)
	for i, key := range r.order {
		if key == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemExportRepo) List(_ context.Context, limit, offset int) ([]*ExportJob, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*ExportJob, 0, len(r.order))
	// newest first
	for i := len(r.order) - 1; i >= 0; i-- {
		all = append(all, r.jobs[r.order[i]].Clone())
	}
	return pagination.Page(all, pagination.Params{Limit: limit, Offset: offset}), len(all), nil
}

func (r *MemExportRepo) ListByStatus(_ context.Context, status ExportStatus) ([]*ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*ExportJob
	for _, id := range r.order {
		if job := r.jobs[id]; job.Status == status {
			result = append(result, job.Clone())
		}
	}
	return result, nil
}

// MemShareLinkRepo is a thread-safe in-memory ShareLinkRepository.
type MemShareLinkRepo struct {
	mu    sync.RWMutex
	links map[uuid.UUID]*ShareLink
}

func NewMemShareLinkRepo() *MemShareLinkRepo {
	return &MemShareLinkRepo{links: make(map[uuid.UUID]*ShareLink)}
}

func (r *MemShareLinkRepo) Create(_ context.Context, link *ShareLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[link.Token] = link.Clone()
	return nil
}

func (r *MemShareLinkRepo) Get(_ context.Context, token uuid.UUID) (*ShareLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.links[token]
	if !ok {
		return nil, ErrNotFound
	}
	return link.Clone(), nil
}

func (r *MemShareLinkRepo) RecordAccess(_ context.Context, token uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[token]
	if !ok {
		return ErrNotFound
	}
	if link.Exhausted() {
		return ErrShareExhausted
	}
	link.AccessCount++
	return nil
}
