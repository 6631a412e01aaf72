package dataexport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemExportRepo_GetReturnsCopy(t *testing.T) {
	repo := NewMemExportRepo()
	ctx := context.Background()
	job := &ExportJob{ID: uuid.New(), Status: StatusProcessing, CreatedAt: time.Now()}
	repo.Create(ctx, job)

	got, err := repo.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got.Status = StatusCompleted

	again, _ := repo.Get(ctx, job.ID)
	if again.Status != StatusProcessing {
		t.Error("mutating a returned job must not change the stored one")
	}
}

func TestMemExportRepo_UpdateUnknown(t *testing.T) {
	repo := NewMemExportRepo()
	err := repo.Update(context.Background(), &ExportJob{ID: uuid.New()})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemExportRepo_ListPagination(t *testing.T) {
	repo := NewMemExportRepo()
	ctx := context.Background()
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		repo.Create(ctx, &ExportJob{ID: ids[i], Status: StatusProcessing})
	}

	jobs, total, err := repo.List(ctx, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	// newest first, skipping the newest one
	if len(jobs) != 2 || jobs[0].ID != ids[3] || jobs[1].ID != ids[2] {
		t.Errorf("unexpected page: %v", jobs)
	}
}

func TestMemExportRepo_ListByStatus(t *testing.T) {
	repo := NewMemExportRepo()
	ctx := context.Background()
	repo.Create(ctx, &ExportJob{ID: uuid.New(), Status: StatusProcessing})
	repo.Create(ctx, &ExportJob{ID: uuid.New(), Status: StatusCompleted})
	repo.Create(ctx, &ExportJob{ID: uuid.New(), Status: StatusProcessing})

	jobs, err := repo.ListByStatus(ctx, StatusProcessing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("expected 2 processing jobs, got %d", len(jobs))
	}
}

func TestMemShareLinkRepo_Roundtrip(t *testing.T) {
	repo := NewMemShareLinkRepo()
	ctx := context.Background()
	link := &ShareLink{Token: uuid.New(), ExportID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}
	repo.Create(ctx, link)

	if _, err := repo.Get(ctx, link.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := repo.RecordAccess(ctx, link.Token); err != nil {
			t.Fatalf("record access %d: %v", i, err)
		}
	}
	again, _ := repo.Get(ctx, link.Token)
	if again.AccessCount != 3 {
		t.Errorf("expected access count 3, got %d", again.AccessCount)
	}

	if _, err := repo.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.RecordAccess(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemShareLinkRepo_RecordAccessCeiling(t *testing.T) {
	repo := NewMemShareLinkRepo()
	ctx := context.Background()
	one := 1
	link := &ShareLink{Token: uuid.New(), ExportID: uuid.New(), MaxAccessCount: &one, ExpiresAt: time.Now().Add(time.Hour)}
	repo.Create(ctx, link)

	var wg sync.WaitGroup
	start := make(chan struct{})
	claims := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			claims <- repo.RecordAccess(ctx, link.Token)
		}()
	}
	close(start)
	wg.Wait()
	close(claims)

	succeeded := 0
	for err := range claims {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrShareExhausted):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful claim, got %d", succeeded)
	}
	got, _ := repo.Get(ctx, link.Token)
	if got.AccessCount != 1 {
		t.Errorf("expected access count 1, got %d", got.AccessCount)
	}
}
