package services

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/ports"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const persistWriteTimeout = 5 * time.Second

type placementUpdate struct {
	cargoID  string
	position domain.Position
	rotation int
}

// Persister writes committed placements back to storage in the background.
//
// Enqueue never blocks: callers keep their in-memory state whatever happens
// to the write. Failures are logged and not retried; the next commit of the
// same item carries its full position again.
type Persister struct {
	repo  ports.CargoRepository
	log   zerolog.Logger
	queue chan placementUpdate
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	written atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

func NewPersister(repo ports.CargoRepository, log zerolog.Logger, size int) *Persister {
	if size <= 0 {
		size = 1
	}

	p := &Persister{
		repo:  repo,
		log:   log.With().Str("component", "persister").Logger(),
		queue: make(chan placementUpdate, size),
		done:  make(chan struct{}),
	}
	go p.run()

	return p
}

// Enqueue schedules a position/rotation write for item. It has the shape of a
// placement.CommitFunc.
func (p *Persister) Enqueue(item *domain.CargoItem) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.dropped.Add(1)
		p.log.Warn().Str("cargo_id", item.ID).Msg("persister closed, placement not saved")
		return
	}

	select {
	case p.queue <- placementUpdate{cargoID: item.ID, position: item.Position, rotation: item.Rotation}:
	default:
		p.dropped.Add(1)
		p.log.Error().Str("cargo_id", item.ID).Msg("persist queue full, placement not saved")
	}
}

func (p *Persister) run() {
	defer close(p.done)

	for u := range p.queue {
		ctx, cancel := context.WithTimeout(p.log.WithContext(context.Background()), persistWriteTimeout)
		err := p.repo.UpdatePlacement(ctx, u.cargoID, u.position, u.rotation)
		cancel()

		if err != nil {
			p.failed.Add(1)
			ev := p.log.Error()
			if errors.Is(err, domain.ErrNotFound) {
				ev = p.log.Warn()
			}
			ev.Err(err).Str("cargo_id", u.cargoID).Msg("persist placement failed")
			continue
		}
		p.written.Add(1)
	}
}

// Close stops accepting updates and waits for queued ones to be written.
func (p *Persister) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats reports how many updates were written, dropped and failed so far.
func (p *Persister) Stats() (written, dropped, failed int64) {
	return p.written.Load(), p.dropped.Load(), p.failed.Load()
}
