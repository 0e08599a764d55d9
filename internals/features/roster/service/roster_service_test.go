package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"hadirku_backend/internals/ledger"
)

func testKey(b byte) ledger.PublicKey {
	var k ledger.PublicKey
	for i := range k {
		k[i] = b
	}
	return k
}

// jam yang bisa digeser supaya timestamp tiap check-in berbeda
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Step(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func seedProgram(t *testing.T) (*ledger.Program, *stepClock) {
	t.Helper()
	clock := &stepClock{now: time.Unix(2_000_000, 0)}
	return ledger.NewProgram(ledger.NewMemoryStore(), clock.Now), clock
}

func TestEventRosterNewestFirst(t *testing.T) {
	p, clock := seedProgram(t)
	ctx := context.Background()
	auth := testKey(1)

	ev, err := p.Submit(ctx, ledger.CreateEvent{Authority: auth, EventID: "evt-1", Name: "Kajian", DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	// tiga attendee dengan jeda 10 detik
	for i := byte(10); i <= 12; i++ {
		clock.Step(10 * time.Second)
		if _, err := p.Submit(ctx, ledger.CheckIn{Attendee: testKey(i), Event: ev.Address}); err != nil {
			t.Fatalf("check-in %d: %v", i, err)
		}
	}

	svc := NewRosterService(p)
	snap, err := svc.EventRoster(ctx, ev.Address)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(snap.Items) != 3 {
		t.Fatalf("harus 3 attendee, dapat %d", len(snap.Items))
	}
	if snap.Scope != ev.Address.String() {
		t.Fatalf("scope salah: %s", snap.Scope)
	}
	// terbaru dulu
	for i := 1; i < len(snap.Items); i++ {
		if snap.Items[i-1].Timestamp < snap.Items[i].Timestamp {
			t.Fatalf("urutan tidak desc: %+v", snap.Items)
		}
	}
	if snap.Items[0].Wallet != testKey(12).String() {
		t.Fatalf("attendee terbaru harus paling atas, dapat %s", snap.Items[0].Wallet)
	}

	// fetch berikutnya MENGGANTI snapshot, bukan menambal
	clock.Step(10 * time.Second)
	if _, err := p.Submit(ctx, ledger.CheckIn{Attendee: testKey(13), Event: ev.Address}); err != nil {
		t.Fatalf("check-in keempat: %v", err)
	}
	snap2, err := svc.EventRoster(ctx, ev.Address)
	if err != nil {
		t.Fatalf("roster kedua: %v", err)
	}
	if len(snap2.Items) != 4 || snap2.Items[0].Wallet != testKey(13).String() {
		t.Fatalf("snapshot kedua salah: %+v", snap2.Items)
	}
}

func TestSessionRosterFiltersBySession(t *testing.T) {
	p, clock := seedProgram(t)
	ctx := context.Background()
	teacher := testKey(2)

	cls, err := p.Submit(ctx, ledger.CreateClass{Teacher: teacher, ClassID: "tahsin-01", Name: "Tahsin"})
	if err != nil {
		t.Fatalf("create class: %v", err)
	}

	// sesi 1: dua student
	if _, err := p.Submit(ctx, ledger.StartSession{Teacher: teacher, Class: cls.Address, DurationMinutes: 60}); err != nil {
		t.Fatalf("start sesi 1: %v", err)
	}
	for i := byte(20); i <= 21; i++ {
		clock.Step(5 * time.Second)
		if _, err := p.Submit(ctx, ledger.CheckInSession{Student: testKey(i), Class: cls.Address, Session: 1, FirstName: "A", LastName: "B"}); err != nil {
			t.Fatalf("check-in sesi 1: %v", err)
		}
	}
	if _, err := p.Submit(ctx, ledger.EndSession{Teacher: teacher, Class: cls.Address}); err != nil {
		t.Fatalf("end sesi 1: %v", err)
	}

	// sesi 2: satu student (salah satunya hadir lagi, alamat beda karena sesi beda)
	if _, err := p.Submit(ctx, ledger.StartSession{Teacher: teacher, Class: cls.Address, DurationMinutes: 60}); err != nil {
		t.Fatalf("start sesi 2: %v", err)
	}
	clock.Step(5 * time.Second)
	if _, err := p.Submit(ctx, ledger.CheckInSession{Student: testKey(20), Class: cls.Address, Session: 2, FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("check-in sesi 2: %v", err)
	}

	svc := NewRosterService(p)
	s1, err := svc.SessionRoster(ctx, cls.Address, 1)
	if err != nil {
		t.Fatalf("roster sesi 1: %v", err)
	}
	if len(s1.Items) != 2 || s1.Session != 1 {
		t.Fatalf("sesi 1 harus 2 student, dapat %+v", s1)
	}
	s2, err := svc.SessionRoster(ctx, cls.Address, 2)
	if err != nil {
		t.Fatalf("roster sesi 2: %v", err)
	}
	if len(s2.Items) != 1 || s2.Items[0].Wallet != testKey(20).String() {
		t.Fatalf("sesi 2 salah: %+v", s2.Items)
	}

	// sesi yang tidak pernah ada → kosong, bukan error
	s9, err := svc.SessionRoster(ctx, cls.Address, 9)
	if err != nil {
		t.Fatalf("roster sesi 9: %v", err)
	}
	if len(s9.Items) != 0 {
		t.Fatalf("sesi 9 harus kosong, dapat %+v", s9.Items)
	}
}

func TestTeacherListingsScopedByOwner(t *testing.T) {
	p, _ := seedProgram(t)
	ctx := context.Background()
	auth := testKey(3)
	lain := testKey(4)

	if _, err := p.Submit(ctx, ledger.CreateEvent{Authority: auth, EventID: "evt-a", Name: "A", DurationMinutes: 60}); err != nil {
		t.Fatalf("create A: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.CreateEvent{Authority: auth, EventID: "evt-b", Name: "B", DurationMinutes: 60}); err != nil {
		t.Fatalf("create B: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.CreateEvent{Authority: lain, EventID: "evt-c", Name: "C", DurationMinutes: 60}); err != nil {
		t.Fatalf("create C: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.CreateClass{Teacher: auth, ClassID: "k-1", Name: "Kelas"}); err != nil {
		t.Fatalf("create class: %v", err)
	}

	svc := NewRosterService(p)
	events, err := svc.TeacherEvents(ctx, auth)
	if err != nil {
		t.Fatalf("teacher events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("authority harus punya 2 event, dapat %d", len(events))
	}
	for _, e := range events {
		if e.EventID == "evt-c" {
			t.Fatal("event milik authority lain ikut terbaca")
		}
	}

	classes, err := svc.TeacherClasses(ctx, auth)
	if err != nil {
		t.Fatalf("teacher classes: %v", err)
	}
	if len(classes) != 1 || classes[0].ClassID != "k-1" {
		t.Fatalf("daftar kelas salah: %+v", classes)
	}
}

func TestDetailLookups(t *testing.T) {
	p, _ := seedProgram(t)
	ctx := context.Background()
	auth := testKey(5)

	ev, err := p.Submit(ctx, ledger.CreateEvent{Authority: auth, EventID: "evt-d", Name: "Detail", DurationMinutes: 30})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	svc := NewRosterService(p)

	sum, err := svc.EventDetail(ctx, ev.Address)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if sum.EventID != "evt-d" || sum.Name != "Detail" || sum.AttendeeCount != 0 {
		t.Fatalf("detail salah: %+v", sum)
	}
	if sum.EndTime-sum.StartTime != 30*60 {
		t.Fatalf("durasi salah: %d", sum.EndTime-sum.StartTime)
	}

	// alamat tak dikenal
	bogus, _, err := ledger.DeriveEventAddress(auth, "tidak-pernah-dibuat")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if _, err := svc.EventDetail(ctx, bogus); err == nil {
		t.Fatal("detail alamat kosong harus error")
	}
}
