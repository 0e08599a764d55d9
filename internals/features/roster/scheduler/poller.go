// internals/features/roster/scheduler/poller.go
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"hadirku_backend/internals/features/roster/dto"
	rosterService "hadirku_backend/internals/features/roster/service"
	"hadirku_backend/internals/ledger"
)

/* =========================================================
   Poller roster
   =========================================================
   Pengganti push/subscription: scope yang sedang ditonton di-refresh
   tiap interval, snapshot lama DIGANTI utuh (set record kecil dan
   append-only, patch inkremental tidak sepadan). Staleness maksimal
   = 1 interval. Stop() eksplisit untuk teardown.
*/

type scopeKey struct {
	addr    ledger.Address
	session uint32
	isClass bool
}

type cachedSnapshot struct {
	snap      *dto.RosterSnapshot
	fetchedAt time.Time
	lastUsed  time.Time
}

type Poller struct {
	svc      *rosterService.RosterService
	interval time.Duration
	maxIdle  time.Duration

	mu     sync.RWMutex
	scopes map[scopeKey]*cachedSnapshot

	quit chan struct{}
	wg   sync.WaitGroup
}

func NewPoller(svc *rosterService.RosterService, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		svc:      svc,
		interval: interval,
		maxIdle:  5 * time.Minute,
		scopes:   make(map[scopeKey]*cachedSnapshot),
		quit:     make(chan struct{}),
	}
}

func (p *Poller) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.refreshAll()
			case <-p.quit:
				return
			}
		}
	}()
	log.Printf("[POLLER] refresh roster tiap %s", p.interval)
}

func (p *Poller) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// EventRoster mengembalikan snapshot dari cache kalau masih segar
// (< 1 interval); kalau basi atau force, fetch ulang sekarang.
func (p *Poller) EventRoster(ctx context.Context, event ledger.Address, force bool) (*dto.RosterSnapshot, error) {
	return p.snapshot(ctx, scopeKey{addr: event}, force)
}

func (p *Poller) SessionRoster(ctx context.Context, class ledger.Address, session uint32, force bool) (*dto.RosterSnapshot, error) {
	return p.snapshot(ctx, scopeKey{addr: class, session: session, isClass: true}, force)
}

func (p *Poller) snapshot(ctx context.Context, key scopeKey, force bool) (*dto.RosterSnapshot, error) {
	p.mu.RLock()
	entry, ok := p.scopes[key]
	p.mu.RUnlock()

	if ok && !force && time.Since(entry.fetchedAt) < p.interval {
		p.touch(key)
		return entry.snap, nil
	}
	return p.refresh(ctx, key)
}

func (p *Poller) refresh(ctx context.Context, key scopeKey) (*dto.RosterSnapshot, error) {
	var snap *dto.RosterSnapshot
	var err error
	if key.isClass {
		snap, err = p.svc.SessionRoster(ctx, key.addr, key.session)
	} else {
		snap, err = p.svc.EventRoster(ctx, key.addr)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.mu.Lock()
	p.scopes[key] = &cachedSnapshot{snap: snap, fetchedAt: now, lastUsed: now}
	p.mu.Unlock()
	return snap, nil
}

func (p *Poller) touch(key scopeKey) {
	p.mu.Lock()
	if entry, ok := p.scopes[key]; ok {
		entry.lastUsed = time.Now()
	}
	p.mu.Unlock()
}

// refreshAll: refresh semua scope yang masih dipakai, buang yang idle.
func (p *Poller) refreshAll() {
	p.mu.RLock()
	keys := make([]scopeKey, 0, len(p.scopes))
	for key, entry := range p.scopes {
		if time.Since(entry.lastUsed) > p.maxIdle {
			continue
		}
		keys = append(keys, key)
	}
	p.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()
	for _, key := range keys {
		if _, err := p.refresh(ctx, key); err != nil {
			log.Printf("[POLLER WARN] refresh scope %s gagal: %v", key.addr, err)
		}
	}

	// evict scope idle
	p.mu.Lock()
	for key, entry := range p.scopes {
		if time.Since(entry.lastUsed) > p.maxIdle {
			delete(p.scopes, key)
		}
	}
	p.mu.Unlock()
}
