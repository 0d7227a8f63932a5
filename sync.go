package climatehkb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brutella/hap/log"
)

// Poller pulls the entity from the hub on a fixed interval and applies it to
// the accessory. Each poll runs on its own; a slow hub never holds up the
// next tick, so polls can overlap.
type Poller struct {
	hub      Hub
	entityID string
	climate  *Climate
	interval time.Duration

	mu       sync.Mutex
	lastSync time.Time
	lastErr  error
	inflight sync.WaitGroup
}

func NewPoller(hub Hub, entityID string, climate *Climate, interval time.Duration) *Poller {
	return &Poller{
		hub:      hub,
		entityID: entityID,
		climate:  climate,
		interval: interval,
	}
}

// Run polls once immediately, then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.start(ctx)
	for {
		select {
		case <-ticker.C:
			p.start(ctx)
		case <-ctx.Done():
			log.Info.Printf("poller: context canceled")
			return
		}
	}
}

// Trigger starts an out-of-band poll.
func (p *Poller) Trigger(ctx context.Context) {
	p.start(ctx)
}

func (p *Poller) start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ctx.Err() != nil {
		log.Debug.Printf("poller: not polling %s, shutting down", p.entityID)
		return
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer recoverTo("poll")
		_ = p.Sync(ctx)
	}()
}

// Sync fetches, translates and applies one snapshot. On any error the
// accessory keeps its last known state.
func (p *Poller) Sync(ctx context.Context) error {
	s, err := p.hub.State(ctx, p.entityID)
	if err != nil {
		err = fmt.Errorf("syncing %s: %w", p.entityID, err)
		log.Info.Println(err.Error())
		p.record(err)
		return err
	}

	next := Translate(s, p.climate.State())
	log.Debug.Printf("%s: %s %+v -> %+v", p.entityID, s.State, s.Attributes, next)
	p.climate.Apply(next)
	p.record(nil)
	return nil
}

func (p *Poller) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
	if err == nil {
		p.lastSync = time.Now()
	}
}

// LastSync reports when the last poll succeeded and the error of the most recent poll.
func (p *Poller) LastSync() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSync, p.lastErr
}

// Wait blocks until every started poll has returned. Once the context given
// to Run or Trigger is done no new poll starts, so Wait is safe to call
// while a late Trigger is still arriving.
func (p *Poller) Wait() {
	p.mu.Lock()
	p.mu.Unlock()
	p.inflight.Wait()
}
