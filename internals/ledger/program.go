// internals/ledger/program.go
package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   Ledger: interface yang disuntikkan ke seluruh aplikasi
   =========================================================
   Tidak ada singleton tersembunyi: write client, read reconciler,
   dan test semuanya menerima Ledger lewat konstruktor.
*/

type Ledger interface {
	// Submit mengeksekusi satu transisi; hasil gagal selalu *Error ber-Code.
	Submit(ctx context.Context, tx Transition) (*Outcome, error)

	// Query mengembalikan record mentah yang cocok dengan scope filter.
	Query(ctx context.Context, filter ScopeFilter) ([]RawAccount, error)

	// Fetch mengambil satu akun di alamat tertentu.
	Fetch(ctx context.Context, addr Address) ([]byte, error)
}

// Outcome adalah konfirmasi transisi yang berhasil.
type Outcome struct {
	Address   Address // alamat akun yang dibuat/diubah
	Bump      uint8
	Signature string // id konfirmasi transaksi
}

/* =========================================================
   Transisi (instruksi program)
   ========================================================= */

type Transition interface{ transition() }

type CreateEvent struct {
	Authority       PublicKey
	EventID         string
	Name            string
	DurationMinutes int
}

type CheckIn struct {
	Attendee  PublicKey
	Event     Address
	FirstName string // divalidasi, tidak disimpan di akun Attendance
	LastName  string
}

type CreateClass struct {
	Teacher PublicKey
	ClassID string
	Name    string
}

type StartSession struct {
	Teacher         PublicKey
	Class           Address
	DurationMinutes int
}

type EndSession struct {
	Teacher PublicKey
	Class   Address
}

type CheckInSession struct {
	Student   PublicKey
	Class     Address
	Session   uint32
	FirstName string
	LastName  string
}

func (CreateEvent) transition()    {}
func (CheckIn) transition()        {}
func (CreateClass) transition()    {}
func (StartSession) transition()   {}
func (EndSession) transition()     {}
func (CheckInSession) transition() {}

/* =========================================================
   Program: state machine otoritatif
   =========================================================
   Semua invariant dicek DI SINI saat submit, bukan di klien.
   Serialisasi per alamat induk: read-modify-write pada Event
   (attendee_count) dan Class (siklus sesi) tidak saling balap.
   Create itu sendiri sudah atomik lewat AccountStore.
*/

type Clock func() time.Time

type Program struct {
	store AccountStore
	now   Clock

	mu    sync.Mutex
	locks map[Address]*sync.Mutex
}

func NewProgram(store AccountStore, clock Clock) *Program {
	if clock == nil {
		clock = time.Now
	}
	return &Program{
		store: store,
		now:   clock,
		locks: make(map[Address]*sync.Mutex),
	}
}

func (p *Program) addressLock(addr Address) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[addr]
	if !ok {
		l = &sync.Mutex{}
		p.locks[addr] = l
	}
	return l
}

func (p *Program) Query(ctx context.Context, filter ScopeFilter) ([]RawAccount, error) {
	return p.store.Scan(ctx, filter)
}

func (p *Program) Fetch(ctx context.Context, addr Address) ([]byte, error) {
	data, err := p.store.Get(ctx, addr)
	if err == ErrAccountNotFound {
		return nil, newError(CodeNotFound, "akun %s tidak ditemukan", addr)
	}
	return data, err
}

func (p *Program) Submit(ctx context.Context, tx Transition) (*Outcome, error) {
	switch t := tx.(type) {
	case CreateEvent:
		return p.createEvent(ctx, t)
	case CheckIn:
		return p.checkIn(ctx, t)
	case CreateClass:
		return p.createClass(ctx, t)
	case StartSession:
		return p.startSession(ctx, t)
	case EndSession:
		return p.endSession(ctx, t)
	case CheckInSession:
		return p.checkInSession(ctx, t)
	default:
		return nil, newError(CodeInvalidInput, "transisi tidak dikenal")
	}
}

func confirm(addr Address, bump uint8) *Outcome {
	return &Outcome{Address: addr, Bump: bump, Signature: uuid.NewString()}
}

/* ===================== EVENT ===================== */

func (p *Program) createEvent(ctx context.Context, t CreateEvent) (*Outcome, error) {
	if err := validateName(t.Name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(t.EventID) == "" {
		return nil, newError(CodeInvalidInput, "event_id wajib diisi")
	}
	if t.DurationMinutes <= 0 {
		return nil, newError(CodeInvalidInput, "durasi harus positif")
	}
	addr, bump, err := DeriveEventAddress(t.Authority, t.EventID)
	if err != nil {
		return nil, err
	}

	now := p.now().Unix()
	acc := EventAccount{
		Authority: t.Authority,
		EventID:   t.EventID,
		Name:      t.Name,
		StartTime: now,
		EndTime:   now + int64(t.DurationMinutes)*60,
		Bump:      bump,
	}
	// start ≤ end dijamin konstruksi; idempoten lewat tabrakan derivasi
	if err := p.store.Create(ctx, addr, EventDiscriminator, acc.Encode()); err != nil {
		if err == ErrDuplicateAccount {
			return nil, newError(CodeAlreadyInitialized,
				"event %q sudah pernah dibuat oleh authority ini", t.EventID)
		}
		return nil, newError(CodeInternal, "create event gagal: %v", err)
	}
	return confirm(addr, bump), nil
}

func (p *Program) checkIn(ctx context.Context, t CheckIn) (*Outcome, error) {
	if err := validatePersonName(t.FirstName, t.LastName); err != nil {
		return nil, err
	}

	lock := p.addressLock(t.Event)
	lock.Lock()
	defer lock.Unlock()

	raw, err := p.store.Get(ctx, t.Event)
	if err != nil {
		if err == ErrAccountNotFound {
			return nil, newError(CodeNotFound, "event %s tidak ditemukan", t.Event)
		}
		return nil, newError(CodeInternal, "fetch event gagal: %v", err)
	}
	event, err := DecodeEventAccount(raw)
	if err != nil {
		return nil, newError(CodeInternal, "decode event gagal: %v", err)
	}

	now := p.now().Unix()
	if now < event.StartTime || now > event.EndTime {
		return nil, newError(CodeEventEnded, "di luar jendela event [%d, %d]", event.StartTime, event.EndTime)
	}

	addr, bump, err := DeriveAttendanceAddress(t.Event, t.Attendee)
	if err != nil {
		return nil, err
	}
	att := AttendanceAccount{
		Event:     t.Event,
		Attendee:  t.Attendee,
		Timestamp: now,
		Bump:      bump,
	}
	// create-if-absent adalah SATU-SATUNYA penjaga duplikat
	if err := p.store.Create(ctx, addr, AttendanceDiscriminator, att.Encode()); err != nil {
		if err == ErrDuplicateAccount {
			return nil, newError(CodeAlreadyInitialized, "attendee sudah check-in di event ini")
		}
		return nil, newError(CodeInternal, "create attendance gagal: %v", err)
	}

	event.AttendeeCount++
	if err := p.store.Update(ctx, t.Event, event.Encode()); err != nil {
		return nil, newError(CodeInternal, "update attendee_count gagal: %v", err)
	}
	return confirm(addr, bump), nil
}

/* ===================== CLASS ===================== */

func (p *Program) createClass(ctx context.Context, t CreateClass) (*Outcome, error) {
	if err := validateName(t.Name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(t.ClassID) == "" {
		return nil, newError(CodeInvalidInput, "class_id wajib diisi")
	}
	addr, bump, err := DeriveClassAddress(t.Teacher, t.ClassID)
	if err != nil {
		return nil, err
	}
	acc := ClassAccount{
		Teacher: t.Teacher,
		ClassID: t.ClassID,
		Name:    t.Name,
		Bump:    bump,
		// CurrentSession 0, IsActive false: state awal INACTIVE
	}
	if err := p.store.Create(ctx, addr, ClassDiscriminator, acc.Encode()); err != nil {
		if err == ErrDuplicateAccount {
			return nil, newError(CodeAlreadyInitialized,
				"kelas %q sudah pernah dibuat oleh teacher ini", t.ClassID)
		}
		return nil, newError(CodeInternal, "create class gagal: %v", err)
	}
	return confirm(addr, bump), nil
}

func (p *Program) loadClass(ctx context.Context, addr Address) (*ClassAccount, error) {
	raw, err := p.store.Get(ctx, addr)
	if err != nil {
		if err == ErrAccountNotFound {
			return nil, newError(CodeNotFound, "kelas %s tidak ditemukan", addr)
		}
		return nil, newError(CodeInternal, "fetch class gagal: %v", err)
	}
	class, err := DecodeClassAccount(raw)
	if err != nil {
		return nil, newError(CodeInternal, "decode class gagal: %v", err)
	}
	return class, nil
}

func (p *Program) startSession(ctx context.Context, t StartSession) (*Outcome, error) {
	if t.DurationMinutes <= 0 {
		return nil, newError(CodeInvalidInput, "durasi harus positif")
	}

	lock := p.addressLock(t.Class)
	lock.Lock()
	defer lock.Unlock()

	class, err := p.loadClass(ctx, t.Class)
	if err != nil {
		return nil, err
	}
	if class.Teacher != t.Teacher {
		return nil, newError(CodeUnauthorized, "hanya teacher pemilik yang boleh mulai sesi")
	}
	if class.IsActive {
		return nil, newError(CodeSessionActive, "sesi %d masih berjalan", class.CurrentSession)
	}

	now := p.now().Unix()
	class.CurrentSession++ // monoton naik, tepat +1 per start
	class.IsActive = true
	class.SessionStart = now
	class.SessionEnd = now + int64(t.DurationMinutes)*60
	if err := p.store.Update(ctx, t.Class, class.Encode()); err != nil {
		return nil, newError(CodeInternal, "update class gagal: %v", err)
	}
	return confirm(t.Class, class.Bump), nil
}

func (p *Program) endSession(ctx context.Context, t EndSession) (*Outcome, error) {
	lock := p.addressLock(t.Class)
	lock.Lock()
	defer lock.Unlock()

	class, err := p.loadClass(ctx, t.Class)
	if err != nil {
		return nil, err
	}
	if class.Teacher != t.Teacher {
		return nil, newError(CodeUnauthorized, "hanya teacher pemilik yang boleh akhiri sesi")
	}
	if !class.IsActive {
		return nil, newError(CodeSessionInactive, "tidak ada sesi yang berjalan")
	}

	class.IsActive = false
	if err := p.store.Update(ctx, t.Class, class.Encode()); err != nil {
		return nil, newError(CodeInternal, "update class gagal: %v", err)
	}
	return confirm(t.Class, class.Bump), nil
}

func (p *Program) checkInSession(ctx context.Context, t CheckInSession) (*Outcome, error) {
	if err := validatePersonName(t.FirstName, t.LastName); err != nil {
		return nil, err
	}

	lock := p.addressLock(t.Class)
	lock.Lock()
	defer lock.Unlock()

	class, err := p.loadClass(ctx, t.Class)
	if err != nil {
		return nil, err
	}
	if !class.IsActive {
		return nil, newError(CodeSessionInactive, "kelas sedang tidak menerima check-in")
	}
	if t.Session != class.CurrentSession {
		// link basi (sesi sudah diganti) dapat code tersendiri
		return nil, newError(CodeSessionMismatch,
			"sesi %d bukan sesi berjalan (%d)", t.Session, class.CurrentSession)
	}
	now := p.now().Unix()
	if now >= class.SessionEnd {
		return nil, newError(CodeEventEnded, "jendela sesi sudah lewat")
	}

	addr, bump, err := DeriveClassAttendanceAddress(t.Class, t.Student, t.Session)
	if err != nil {
		return nil, err
	}
	att := ClassAttendanceAccount{
		Class:     t.Class,
		Student:   t.Student,
		Session:   t.Session,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Timestamp: now,
		Bump:      bump,
	}
	if err := p.store.Create(ctx, addr, ClassAttendanceDiscriminator, att.Encode()); err != nil {
		if err == ErrDuplicateAccount {
			return nil, newError(CodeAlreadyInitialized, "student sudah check-in di sesi ini")
		}
		return nil, newError(CodeInternal, "create class attendance gagal: %v", err)
	}
	return confirm(addr, bump), nil
}

/* ===================== VALIDASI LOKAL ===================== */

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return newError(CodeInvalidInput, "nama wajib diisi")
	}
	if len(name) > MaxNameLen {
		return newError(CodeInvalidInput, "nama melebihi %d karakter", MaxNameLen)
	}
	return nil
}

func validatePersonName(first, last string) error {
	if len(first) > MaxFirstNameLen || len(last) > MaxLastNameLen {
		return newError(CodeInvalidInput, "nama depan/belakang melebihi 32 karakter")
	}
	return nil
}
