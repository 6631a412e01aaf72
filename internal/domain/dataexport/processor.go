package dataexport

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/clock"
)

const artifactBaseURL = "https://cdn.ayusetu.health/exports/"

// Processor completes developer-mode export jobs in the background. It
// replaces the timer-mutates-the-returned-object scheme of the original mock
// layer: all transitions go through the repository, so pollers always observe
// a consistent job.
type Processor struct {
	exports ExportRepository
	clk     clock.Clock
	delay   time.Duration // how long a job stays in "processing"
	log     zerolog.Logger
	rng     *rand.Rand

	mu   sync.Mutex
	stop chan struct{}
}

func NewProcessor(exports ExportRepository, clk clock.Clock, delay time.Duration, log zerolog.Logger) *Processor {
	return &Processor{
		exports: exports,
		clk:     clk,
		delay:   delay,
		log:     log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start launches the sweep loop. Interval controls the cadence; sweeps also
// expire aged-out artifacts.
func (p *Processor) Start(ctx context.Context, interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})
	stop := p.stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				if _, err := p.Sweep(ctx); err != nil {
					p.log.Error().Err(err).Msg("export processor sweep")
				}
			}
		}
	}()
}

// Stop halts the sweep loop.
func (p *Processor) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// Sweep completes processing jobs whose delay has elapsed and expires
// completed jobs past their artifact expiry. It returns how many jobs
// transitioned and is safe to call directly from tests with a manual clock.
func (p *Processor) Sweep(ctx context.Context) (int, error) {
	now := p.clk.Now()
	transitioned := 0

	processing, err := p.exports.ListByStatus(ctx, StatusProcessing)
	if err != nil {
		return 0, err
	}
	for _, job := range processing {
		if now.Before(job.CreatedAt.Add(p.delay)) {
			continue
		}
		p.complete(job, now)
		if err := p.exports.Update(ctx, job); err != nil {
			return transitioned, err
		}
		p.log.Info().
			Stringer("export_id", job.ID).
			Str("format", string(job.Format)).
			Int64("file_size", *job.FileSize).
			Msg("export completed")
		transitioned++
	}

	completed, err := p.exports.ListByStatus(ctx, StatusCompleted)
	if err != nil {
		return transitioned, err
	}
	for _, job := range completed {
		if !job.ExpiredAt(now) {
			continue
		}
		job.Status = StatusExpired
		if err := p.exports.Update(ctx, job); err != nil {
			return transitioned, err
		}
		p.log.Info().Stringer("export_id", job.ID).Msg("export expired")
		transitioned++
	}

	return transitioned, nil
}

// complete fills in the artifact fields: a pseudo-random 1-6 MB size, a
// format-suffixed locator, and a 7-day expiry.
func (p *Processor) complete(job *ExportJob, now time.Time) {
	size := 1_000_000 + p.rng.Int63n(5_000_000)
	url := fmt.Sprintf("%s%s%s", artifactBaseURL, job.ID, job.Format.FileExtension())
	expires := now.Add(artifactExpiry)

	job.Status = StatusCompleted
	job.FileSize = &size
	job.DownloadURL = &url
	job.CompletedAt = &now
	job.ExpiresAt = &expires
}
