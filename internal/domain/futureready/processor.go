package futureready

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/clock"
)

// Processor completes developer-mode backup runs in the background, mirroring
// the export processor: transitions go through the repository so history
// reads always observe a consistent entry.
type Processor struct {
	backups BackupRepository
	clk     clock.Clock
	delay   time.Duration // how long a run stays in "in_progress"
	log     zerolog.Logger
	rng     *rand.Rand

	mu   sync.Mutex
	stop chan struct{}
}

func NewProcessor(backups BackupRepository, clk clock.Clock, delay time.Duration, log zerolog.Logger) *Processor {
	return &Processor{
		backups: backups,
		clk:     clk,
		delay:   delay,
		log:     log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start launches the sweep loop.
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
					p.log.Error().Err(err).Msg("backup processor sweep")
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

// Sweep completes in-progress backups whose delay has elapsed. It returns how
// many entries transitioned and is safe to call directly from tests with a
// manual clock.
func (p *Processor) Sweep(ctx context.Context) (int, error) {
	now := p.clk.Now()
	transitioned := 0

	running, err := p.backups.ListByStatus(ctx, BackupInProgress)
	if err != nil {
		return 0, err
	}
	for _, entry := range running {
		if now.Before(entry.StartedAt.Add(p.delay)) {
			continue
		}
		size := 5_000_000 + p.rng.Int63n(45_000_000)
		entry.Status = BackupCompleted
		entry.SizeBytes = &size
		completedAt := now
		entry.CompletedAt = &completedAt
		if err := p.backups.Update(ctx, entry); err != nil {
			return transitioned, err
		}
		p.log.Info().
			Stringer("backup_id", entry.ID).
			Str("user_id", entry.UserID).
			Int64("size_bytes", size).
			Msg("backup completed")
		transitioned++
	}

	return transitioned, nil
}
