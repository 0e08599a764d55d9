package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	proofService "hadirku_backend/internals/features/proof/service"
	"hadirku_backend/internals/ledger"
)

func testKey(b byte) ledger.PublicKey {
	var k ledger.PublicKey
	for i := range k {
		k[i] = b
	}
	return k
}

func testWallet(t *testing.T, userID string) *ledger.Wallet {
	t.Helper()
	w, err := ledger.DeriveWallet([]byte("rahasia-test"), userID)
	if err != nil {
		t.Fatalf("derive wallet: %v", err)
	}
	return w
}

/* ===================== PARSE LINK ===================== */

func TestParseCheckinLink(t *testing.T) {
	addr, _, err := ledger.DeriveEventAddress(testKey(1), "evt-1")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	// link event
	link, err := ParseCheckinLink(addr.String(), "", "")
	if err != nil {
		t.Fatalf("link event valid ditolak: %v", err)
	}
	if link.Event == nil || *link.Event != addr {
		t.Fatalf("link event salah: %+v", link)
	}

	// link kelas+sesi
	link, err = ParseCheckinLink("", addr.String(), "3")
	if err != nil {
		t.Fatalf("link kelas valid ditolak: %v", err)
	}
	if link.Class == nil || *link.Class != addr || link.Session != 3 {
		t.Fatalf("link kelas salah: %+v", link)
	}

	// dua-duanya kosong → error lokal
	if _, err := ParseCheckinLink("", "", ""); !errors.Is(err, ErrInvalidLink) {
		t.Fatalf("link kosong harus ErrInvalidLink, dapat %v", err)
	}

	// kelas tanpa sesi juga tidak valid
	if _, err := ParseCheckinLink("", addr.String(), ""); !errors.Is(err, ErrInvalidLink) {
		t.Fatalf("kelas tanpa sesi harus ErrInvalidLink, dapat %v", err)
	}

	// alamat bukan hex
	if _, err := ParseCheckinLink("bukan-alamat", "", ""); err == nil {
		t.Fatal("alamat rusak harus ditolak")
	}

	// nomor sesi bukan angka
	if _, err := ParseCheckinLink("", addr.String(), "abc"); err == nil {
		t.Fatal("nomor sesi rusak harus ditolak")
	}
}

/* ===================== CHECK-IN EVENT ===================== */

func TestCheckInEventFlow(t *testing.T) {
	p := ledger.NewProgram(ledger.NewMemoryStore(), nil)
	ctx := context.Background()

	out, err := p.Submit(ctx, ledger.CreateEvent{Authority: testKey(1), EventID: "evt-1", Name: "Kajian", DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	svc := NewCheckinService(p, nil)
	wallet := testWallet(t, "user-1")
	link := CheckinLink{Event: &out.Address}

	res, err := svc.CheckIn(ctx, wallet, link, "Budi", "Santoso")
	if err != nil {
		t.Fatalf("check-in pertama: %v", err)
	}
	if res.Scope != out.Address || res.Signature == "" {
		t.Fatalf("hasil check-in salah: %+v", res)
	}

	// attendance benar-benar tercatat di ledger
	raw, err := p.Fetch(ctx, res.Attendance)
	if err != nil {
		t.Fatalf("fetch attendance: %v", err)
	}
	rec, err := ledger.DecodeAttendanceAccount(raw)
	if err != nil {
		t.Fatalf("decode attendance: %v", err)
	}
	if rec.Attendee != wallet.PublicKey() {
		t.Fatalf("attendee salah: %v", rec.Attendee)
	}

	// check-in kedua user yang sama → duplikat
	_, err = svc.CheckIn(ctx, wallet, link, "Budi", "Santoso")
	if Classify(err) != FailureDuplicateCheckIn {
		t.Fatalf("check-in kedua harus DUPLICATE_CHECKIN, dapat %v (%v)", Classify(err), err)
	}
}

func TestCheckInSessionFlow(t *testing.T) {
	p := ledger.NewProgram(ledger.NewMemoryStore(), nil)
	ctx := context.Background()
	teacher := testKey(9)

	cls, err := p.Submit(ctx, ledger.CreateClass{Teacher: teacher, ClassID: "fiqih-01", Name: "Fiqih Dasar"})
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.StartSession{Teacher: teacher, Class: cls.Address, DurationMinutes: 90}); err != nil {
		t.Fatalf("start session: %v", err)
	}

	svc := NewCheckinService(p, nil)
	wallet := testWallet(t, "santri-1")
	link := CheckinLink{Class: &cls.Address, Session: 1}

	res, err := svc.CheckIn(ctx, wallet, link, "Aisyah", "Putri")
	if err != nil {
		t.Fatalf("check-in sesi: %v", err)
	}
	if res.Session != 1 {
		t.Fatalf("sesi di hasil salah: %d", res.Session)
	}

	rec, errFetch := p.Fetch(ctx, res.Attendance)
	if errFetch != nil {
		t.Fatalf("fetch class attendance: %v", errFetch)
	}
	acc, err := ledger.DecodeClassAttendanceAccount(rec)
	if err != nil {
		t.Fatalf("decode class attendance: %v", err)
	}
	if acc.FirstName != "Aisyah" || acc.LastName != "Putri" || acc.Session != 1 {
		t.Fatalf("record class attendance salah: %+v", acc)
	}

	// sesi diakhiri → link sesi 1 jadi basi
	if _, err := p.Submit(ctx, ledger.EndSession{Teacher: teacher, Class: cls.Address}); err != nil {
		t.Fatalf("end session: %v", err)
	}
	other := testWallet(t, "santri-2")
	_, err = svc.CheckIn(ctx, other, link, "Umar", "Faruq")
	if Classify(err) != FailureWindowClosed {
		t.Fatalf("sesi nonaktif harus WINDOW_CLOSED, dapat %v (%v)", Classify(err), err)
	}
}

/* ===================== SIDE CHANNEL MINT ===================== */

// minter yang selalu gagal + lapor bahwa dia sempat dipanggil
type failingMinter struct{ called chan struct{} }

func (m failingMinter) Mint(_ context.Context, _ ledger.PublicKey, _ string) (string, error) {
	select {
	case m.called <- struct{}{}:
	default:
	}
	return "", errors.New("tree penuh")
}

func TestMintFailureNeverAffectsCheckIn(t *testing.T) {
	p := ledger.NewProgram(ledger.NewMemoryStore(), nil)
	ctx := context.Background()

	out, err := p.Submit(ctx, ledger.CreateEvent{Authority: testKey(3), EventID: "evt-m", Name: "Workshop", DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	minter := failingMinter{called: make(chan struct{}, 1)}
	queue := proofService.NewMintQueue(minter, nil, "https://example.com/proof.json", 4)
	queue.Start()
	defer queue.Stop()

	svc := NewCheckinService(p, queue)
	wallet := testWallet(t, "user-mint")

	res, err := svc.CheckIn(ctx, wallet, CheckinLink{Event: &out.Address}, "Budi", "Santoso")
	if err != nil {
		t.Fatalf("check-in harus sukses walau mint gagal: %v", err)
	}

	// mint memang dicoba (dan gagal), tapi check-in sudah final
	select {
	case <-minter.called:
	case <-time.After(2 * time.Second):
		t.Fatal("mint tidak pernah dipicu")
	}
	if _, err := p.Fetch(ctx, res.Attendance); err != nil {
		t.Fatalf("attendance harus tetap ada: %v", err)
	}
}

/* ===================== KLASIFIKASI ===================== */

func TestClassifyAndStatus(t *testing.T) {
	p := ledger.NewProgram(ledger.NewMemoryStore(), nil)
	ctx := context.Background()

	// NOT_FOUND dari event yang tidak pernah dibuat
	missing, _, err := ledger.DeriveEventAddress(testKey(8), "tidak-ada")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	_, err = p.Submit(ctx, ledger.CheckIn{Attendee: testKey(4), Event: missing})
	if Classify(err) != FailureUnknown {
		t.Fatalf("NOT_FOUND harus jatuh ke UNKNOWN_FAILURE, dapat %v", Classify(err))
	}
	if HTTPStatus(Classify(err), err) != fiber.StatusNotFound {
		t.Fatalf("NOT_FOUND harus 404, dapat %d", HTTPStatus(Classify(err), err))
	}

	cases := []struct {
		kind   FailureKind
		status int
	}{
		{FailureDuplicateCheckIn, fiber.StatusConflict},
		{FailureWindowClosed, fiber.StatusGone},
		{FailureInsufficientResources, fiber.StatusPaymentRequired},
		{FailureValidation, fiber.StatusBadRequest},
		{FailureUnknown, fiber.StatusBadGateway},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.kind, errors.New("x")); got != c.status {
			t.Errorf("%s harus %d, dapat %d", c.kind, c.status, got)
		}
	}

	// pesan sesi basi lebih tajam dari pesan jendela biasa
	teacher := testKey(5)
	cls, err := p.Submit(ctx, ledger.CreateClass{Teacher: teacher, ClassID: "x1", Name: "Kelas"})
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.StartSession{Teacher: teacher, Class: cls.Address, DurationMinutes: 60}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.EndSession{Teacher: teacher, Class: cls.Address}); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := p.Submit(ctx, ledger.StartSession{Teacher: teacher, Class: cls.Address, DurationMinutes: 60}); err != nil {
		t.Fatalf("start kedua: %v", err)
	}
	// sesi aktif sekarang = 2; link lama bawa sesi 1
	_, errStale := p.Submit(ctx, ledger.CheckInSession{Student: testKey(6), Class: cls.Address, Session: 1, FirstName: "A", LastName: "B"})
	if Classify(errStale) != FailureWindowClosed {
		t.Fatalf("sesi basi harus WINDOW_CLOSED, dapat %v", Classify(errStale))
	}
	if UserMessage(errStale) == UserMessage(&ledger.Error{Code: ledger.CodeEventEnded, Msg: "x"}) {
		t.Fatal("pesan sesi basi harus berbeda dari pesan event berakhir")
	}
}
