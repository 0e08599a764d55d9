package scheduler

import (
	"context"
	"testing"
	"time"

	rosterService "hadirku_backend/internals/features/roster/service"
	"hadirku_backend/internals/ledger"
)

func testKey(b byte) ledger.PublicKey {
	var k ledger.PublicKey
	for i := range k {
		k[i] = b
	}
	return k
}

func seedEvent(t *testing.T) (*ledger.Program, ledger.Address) {
	t.Helper()
	p := ledger.NewProgram(ledger.NewMemoryStore(), nil)
	out, err := p.Submit(context.Background(), ledger.CreateEvent{
		Authority: testKey(1), EventID: "evt-p", Name: "Polling", DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return p, out.Address
}

func TestPollerServesCachedSnapshot(t *testing.T) {
	p, event := seedEvent(t)
	ctx := context.Background()

	// interval besar: ticker tidak akan jalan selama test,
	// kesegaran cache yang diuji
	poller := NewPoller(rosterService.NewRosterService(p), time.Hour)

	if _, err := p.Submit(ctx, ledger.CheckIn{Attendee: testKey(2), Event: event}); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	snap, err := poller.EventRoster(ctx, event, false)
	if err != nil {
		t.Fatalf("fetch pertama: %v", err)
	}
	if len(snap.Items) != 1 {
		t.Fatalf("snapshot awal harus 1 item, dapat %d", len(snap.Items))
	}

	// check-in baru TIDAK terlihat selama snapshot masih segar
	if _, err := p.Submit(ctx, ledger.CheckIn{Attendee: testKey(3), Event: event}); err != nil {
		t.Fatalf("check-in kedua: %v", err)
	}
	cached, err := poller.EventRoster(ctx, event, false)
	if err != nil {
		t.Fatalf("fetch cache: %v", err)
	}
	if len(cached.Items) != 1 {
		t.Fatalf("cache segar harus dipakai lagi, dapat %d item", len(cached.Items))
	}

	// force=1 memaksa fetch ulang sekarang
	fresh, err := poller.EventRoster(ctx, event, true)
	if err != nil {
		t.Fatalf("fetch force: %v", err)
	}
	if len(fresh.Items) != 2 {
		t.Fatalf("force harus baca data terbaru, dapat %d item", len(fresh.Items))
	}
}

func TestPollerBackgroundRefresh(t *testing.T) {
	p, event := seedEvent(t)
	ctx := context.Background()

	poller := NewPoller(rosterService.NewRosterService(p), 50*time.Millisecond)
	poller.Start()
	defer poller.Stop()

	if _, err := poller.EventRoster(ctx, event, false); err != nil {
		t.Fatalf("fetch awal: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.CheckIn{Attendee: testKey(4), Event: event}); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	// staleness maksimal 1 interval: tunggu beberapa tick lalu
	// baca dari cache tanpa force
	deadline := time.After(2 * time.Second)
	for {
		snap, err := poller.EventRoster(ctx, event, false)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if len(snap.Items) == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("poller tidak pernah refresh, items=%d", len(snap.Items))
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestPollerSessionScopeKeyedBySession(t *testing.T) {
	p := ledger.NewProgram(ledger.NewMemoryStore(), nil)
	ctx := context.Background()
	teacher := testKey(5)

	cls, err := p.Submit(ctx, ledger.CreateClass{Teacher: teacher, ClassID: "p-1", Name: "Kelas"})
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.StartSession{Teacher: teacher, Class: cls.Address, DurationMinutes: 60}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.CheckInSession{Student: testKey(6), Class: cls.Address, Session: 1, FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	poller := NewPoller(rosterService.NewRosterService(p), time.Hour)

	s1, err := poller.SessionRoster(ctx, cls.Address, 1, false)
	if err != nil {
		t.Fatalf("sesi 1: %v", err)
	}
	if len(s1.Items) != 1 {
		t.Fatalf("sesi 1 harus 1 item, dapat %d", len(s1.Items))
	}

	// sesi berbeda = scope cache berbeda, tidak saling menimpa
	s2, err := poller.SessionRoster(ctx, cls.Address, 2, false)
	if err != nil {
		t.Fatalf("sesi 2: %v", err)
	}
	if len(s2.Items) != 0 {
		t.Fatalf("sesi 2 harus kosong, dapat %+v", s2.Items)
	}
}
