// internals/ledger/address.go
package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

/* =========================================================
   Derivasi alamat deterministik
   =========================================================
   Alamat = sha256( len-prefixed seeds || [bump] || programID || marker ).
   Bump dicari turun dari 255; hash yang berakhiran 0x00 ditolak supaya
   bump menjadi bukti derivasi yang bisa diverifikasi ulang.
   Fungsi murni: input sama → alamat sama, dipakai identik oleh jalur
   tulis (target create) dan jalur baca (lookup langsung).
*/

// ProgramID membedakan namespace derivasi dari program lain.
var ProgramID = sha256.Sum256([]byte("hadirku/attendance-program/v1"))

const addressMarker = "HadirkuDerivedAddress"

// Seed tunggal maksimal 32 byte (string id sudah dibatasi lebih ketat
// oleh layout akunnya masing-masing).
const maxSeedLen = 32

var (
	ErrSeedTooLong = errors.New("ledger: seed melebihi 32 byte")
	ErrNoValidBump = errors.New("ledger: tidak menemukan bump yang valid")
)

// DeriveAddress menghasilkan alamat + bump untuk deretan seed.
func DeriveAddress(seeds ...[]byte) (Address, uint8, error) {
	for _, s := range seeds {
		if len(s) > maxSeedLen {
			return Address{}, 0, ErrSeedTooLong
		}
	}
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		var lenBuf [4]byte
		for _, s := range seeds {
			binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
			h.Write(lenBuf[:])
			h.Write(s)
		}
		h.Write([]byte{uint8(bump)})
		h.Write(ProgramID[:])
		h.Write([]byte(addressMarker))
		sum := h.Sum(nil)
		if sum[31] == 0 {
			continue // tolak, coba bump berikutnya
		}
		var addr Address
		copy(addr[:], sum)
		return addr, uint8(bump), nil
	}
	return Address{}, 0, ErrNoValidBump
}

// VerifyAddress mengecek ulang (alamat, bump) terhadap seed-nya.
func VerifyAddress(addr Address, bump uint8, seeds ...[]byte) bool {
	got, gotBump, err := DeriveAddress(seeds...)
	return err == nil && got == addr && gotBump == bump
}

/* =========================================================
   Seed tuple per jenis entitas
   ========================================================= */

const (
	seedEvent           = "event"
	seedAttendance      = "attendance"
	seedClass           = "class"
	seedClassAttendance = "class_attendance"
)

// DeriveEventAddress: ("event", authority, eventID).
func DeriveEventAddress(authority PublicKey, eventID string) (Address, uint8, error) {
	if len(eventID) > MaxEventIDLen {
		return Address{}, 0, &Error{Code: CodeInvalidInput,
			Msg: fmt.Sprintf("event_id melebihi %d karakter", MaxEventIDLen)}
	}
	return DeriveAddress([]byte(seedEvent), authority[:], []byte(eventID))
}

// DeriveAttendanceAddress: ("attendance", event, attendee).
func DeriveAttendanceAddress(event Address, attendee PublicKey) (Address, uint8, error) {
	return DeriveAddress([]byte(seedAttendance), event[:], attendee[:])
}

// DeriveClassAddress: ("class", teacher, classID).
func DeriveClassAddress(teacher PublicKey, classID string) (Address, uint8, error) {
	if len(classID) > MaxClassIDLen {
		return Address{}, 0, &Error{Code: CodeInvalidInput,
			Msg: fmt.Sprintf("class_id melebihi %d karakter", MaxClassIDLen)}
	}
	return DeriveAddress([]byte(seedClass), teacher[:], []byte(classID))
}

// DeriveClassAttendanceAddress: ("class_attendance", class, student, sesi u32 LE).
func DeriveClassAttendanceAddress(class Address, student PublicKey, session uint32) (Address, uint8, error) {
	var sess [4]byte
	binary.LittleEndian.PutUint32(sess[:], session)
	return DeriveAddress([]byte(seedClassAttendance), class[:], student[:], sess[:])
}

// ParseAddress membaca alamat dari representasi hex (dipakai di URL check-in).
func ParseAddress(s string) (Address, error) {
	var addr Address
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(addr) {
		return addr, fmt.Errorf("ledger: alamat tidak valid")
	}
	copy(addr[:], raw)
	return addr, nil
}

// ParsePublicKey membaca kunci publik dari hex.
func ParsePublicKey(s string) (PublicKey, error) {
	var key PublicKey
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(key) {
		return key, fmt.Errorf("ledger: kunci publik tidak valid")
	}
	copy(key[:], raw)
	return key, nil
}
