// internals/ledger/account.go
package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

/* =========================================================
   Tipe dasar akun ledger
   ========================================================= */

// PublicKey adalah kunci peserta/pengajar (32 byte, ed25519).
type PublicKey [32]byte

// Address adalah alamat akun hasil derivasi (32 byte).
type Address [32]byte

// Discriminator menandai jenis akun; 8 byte pertama record.
type Discriminator [8]byte

func (a Address) String() string   { return fmt.Sprintf("%x", a[:]) }
func (k PublicKey) String() string { return fmt.Sprintf("%x", k[:]) }

// Batas panjang field string (layout record fixed-size).
const (
	MaxEventIDLen   = 32
	MaxClassIDLen   = 16
	MaxNameLen      = 64
	MaxFirstNameLen = 32
	MaxLastNameLen  = 32
)

// OwnerOffset: byte pertama setelah discriminator. Scoped query
// memfilter 32 byte pemilik di offset ini.
const OwnerOffset = 8

// Discriminator = 8 byte pertama sha256("account:<Nama>").
func accountDiscriminator(name string) Discriminator {
	sum := sha256.Sum256([]byte("account:" + name))
	var d Discriminator
	copy(d[:], sum[:8])
	return d
}

var (
	EventDiscriminator           = accountDiscriminator("Event")
	AttendanceDiscriminator      = accountDiscriminator("Attendance")
	ClassDiscriminator           = accountDiscriminator("Class")
	ClassAttendanceDiscriminator = accountDiscriminator("ClassAttendance")
)

var ErrBadAccountData = errors.New("ledger: data akun tidak valid")

/* =========================================================
   Encoder/decoder record biner (little-endian, fixed-size)
   ========================================================= */

// String disimpan sebagai u32 LE panjang + kapasitas tetap (zero-padded),
// supaya offset field berikutnya selalu sama.
func putString(buf []byte, off int, s string, capacity int) int {
	binary.LittleEndian.PutUint32(buf[off:], uint32(len(s)))
	copy(buf[off+4:off+4+capacity], s)
	return off + 4 + capacity
}

func getString(buf []byte, off int, capacity int) (string, int, error) {
	n := int(binary.LittleEndian.Uint32(buf[off:]))
	if n > capacity {
		return "", 0, ErrBadAccountData
	}
	return string(buf[off+4 : off+4+n]), off + 4 + capacity, nil
}

func putI64(buf []byte, off int, v int64) int {
	binary.LittleEndian.PutUint64(buf[off:], uint64(v))
	return off + 8
}

func putU32(buf []byte, off int, v uint32) int {
	binary.LittleEndian.PutUint32(buf[off:], v)
	return off + 4
}

/* =========================================================
   Event
   ========================================================= */

type EventAccount struct {
	Authority     PublicKey
	EventID       string
	Name          string
	StartTime     int64 // unix detik
	EndTime       int64
	AttendeeCount uint32
	Bump          uint8
}

const eventAccountSize = 8 + 32 + (4 + MaxEventIDLen) + (4 + MaxNameLen) + 8 + 8 + 4 + 1

func (a *EventAccount) Encode() []byte {
	buf := make([]byte, eventAccountSize)
	copy(buf[0:8], EventDiscriminator[:])
	copy(buf[8:40], a.Authority[:])
	off := putString(buf, 40, a.EventID, MaxEventIDLen)
	off = putString(buf, off, a.Name, MaxNameLen)
	off = putI64(buf, off, a.StartTime)
	off = putI64(buf, off, a.EndTime)
	off = putU32(buf, off, a.AttendeeCount)
	buf[off] = a.Bump
	return buf
}

func DecodeEventAccount(data []byte) (*EventAccount, error) {
	if len(data) != eventAccountSize || Discriminator(data[0:8]) != EventDiscriminator {
		return nil, ErrBadAccountData
	}
	a := &EventAccount{}
	copy(a.Authority[:], data[8:40])
	var err error
	off := 40
	if a.EventID, off, err = getString(data, off, MaxEventIDLen); err != nil {
		return nil, err
	}
	if a.Name, off, err = getString(data, off, MaxNameLen); err != nil {
		return nil, err
	}
	a.StartTime = int64(binary.LittleEndian.Uint64(data[off:]))
	a.EndTime = int64(binary.LittleEndian.Uint64(data[off+8:]))
	a.AttendeeCount = binary.LittleEndian.Uint32(data[off+16:])
	a.Bump = data[off+20]
	return a, nil
}

/* =========================================================
   Attendance (per event)
   ========================================================= */

type AttendanceAccount struct {
	Event     Address
	Attendee  PublicKey
	Timestamp int64
	Bump      uint8
}

const attendanceAccountSize = 8 + 32 + 32 + 8 + 1

func (a *AttendanceAccount) Encode() []byte {
	buf := make([]byte, attendanceAccountSize)
	copy(buf[0:8], AttendanceDiscriminator[:])
	copy(buf[8:40], a.Event[:])
	copy(buf[40:72], a.Attendee[:])
	off := putI64(buf, 72, a.Timestamp)
	buf[off] = a.Bump
	return buf
}

func DecodeAttendanceAccount(data []byte) (*AttendanceAccount, error) {
	if len(data) != attendanceAccountSize || Discriminator(data[0:8]) != AttendanceDiscriminator {
		return nil, ErrBadAccountData
	}
	a := &AttendanceAccount{}
	copy(a.Event[:], data[8:40])
	copy(a.Attendee[:], data[40:72])
	a.Timestamp = int64(binary.LittleEndian.Uint64(data[72:]))
	a.Bump = data[80]
	return a, nil
}

/* =========================================================
   Class
   ========================================================= */

type ClassAccount struct {
	Teacher        PublicKey
	ClassID        string
	Name           string
	CurrentSession uint32
	IsActive       bool
	SessionStart   int64
	SessionEnd     int64
	Bump           uint8
}

const classAccountSize = 8 + 32 + (4 + MaxClassIDLen) + (4 + MaxNameLen) + 4 + 1 + 8 + 8 + 1

func (a *ClassAccount) Encode() []byte {
	buf := make([]byte, classAccountSize)
	copy(buf[0:8], ClassDiscriminator[:])
	copy(buf[8:40], a.Teacher[:])
	off := putString(buf, 40, a.ClassID, MaxClassIDLen)
	off = putString(buf, off, a.Name, MaxNameLen)
	off = putU32(buf, off, a.CurrentSession)
	if a.IsActive {
		buf[off] = 1
	}
	off++
	off = putI64(buf, off, a.SessionStart)
	off = putI64(buf, off, a.SessionEnd)
	buf[off] = a.Bump
	return buf
}

func DecodeClassAccount(data []byte) (*ClassAccount, error) {
	if len(data) != classAccountSize || Discriminator(data[0:8]) != ClassDiscriminator {
		return nil, ErrBadAccountData
	}
	a := &ClassAccount{}
	copy(a.Teacher[:], data[8:40])
	var err error
	off := 40
	if a.ClassID, off, err = getString(data, off, MaxClassIDLen); err != nil {
		return nil, err
	}
	if a.Name, off, err = getString(data, off, MaxNameLen); err != nil {
		return nil, err
	}
	a.CurrentSession = binary.LittleEndian.Uint32(data[off:])
	a.IsActive = data[off+4] == 1
	a.SessionStart = int64(binary.LittleEndian.Uint64(data[off+5:]))
	a.SessionEnd = int64(binary.LittleEndian.Uint64(data[off+13:]))
	a.Bump = data[off+21]
	return a, nil
}

/* =========================================================
   ClassAttendance (per sesi)
   ========================================================= */

type ClassAttendanceAccount struct {
	Class     Address
	Student   PublicKey
	Session   uint32
	FirstName string
	LastName  string
	Timestamp int64
	Bump      uint8
}

const classAttendanceAccountSize = 8 + 32 + 32 + 4 + (4 + MaxFirstNameLen) + (4 + MaxLastNameLen) + 8 + 1

func (a *ClassAttendanceAccount) Encode() []byte {
	buf := make([]byte, classAttendanceAccountSize)
	copy(buf[0:8], ClassAttendanceDiscriminator[:])
	copy(buf[8:40], a.Class[:])
	copy(buf[40:72], a.Student[:])
	off := putU32(buf, 72, a.Session)
	off = putString(buf, off, a.FirstName, MaxFirstNameLen)
	off = putString(buf, off, a.LastName, MaxLastNameLen)
	off = putI64(buf, off, a.Timestamp)
	buf[off] = a.Bump
	return buf
}

func DecodeClassAttendanceAccount(data []byte) (*ClassAttendanceAccount, error) {
	if len(data) != classAttendanceAccountSize || Discriminator(data[0:8]) != ClassAttendanceDiscriminator {
		return nil, ErrBadAccountData
	}
	a := &ClassAttendanceAccount{}
	copy(a.Class[:], data[8:40])
	copy(a.Student[:], data[40:72])
	a.Session = binary.LittleEndian.Uint32(data[72:])
	var err error
	off := 76
	if a.FirstName, off, err = getString(data, off, MaxFirstNameLen); err != nil {
		return nil, err
	}
	if a.LastName, off, err = getString(data, off, MaxLastNameLen); err != nil {
		return nil, err
	}
	a.Timestamp = int64(binary.LittleEndian.Uint64(data[off:]))
	a.Bump = data[off+8]
	return a, nil
}
