// internals/ledger/errors.go
package ledger

import (
	"errors"
	"fmt"
)

/* =========================================================
   Error terstruktur di boundary ledger
   =========================================================
   Klien TIDAK boleh mencocokkan substring pesan; klasifikasi
   selalu lewat Code. Pesan hanya untuk log.
*/

type Code string

const (
	CodeAlreadyInitialized Code = "ALREADY_INITIALIZED" // alamat sudah dibuat → duplikat
	CodeEventEnded         Code = "EVENT_ENDED"         // di luar jendela [start, end]
	CodeSessionInactive    Code = "SESSION_INACTIVE"    // kelas sedang INACTIVE
	CodeSessionActive      Code = "SESSION_ACTIVE"      // startSession saat masih ACTIVE
	CodeSessionMismatch    Code = "SESSION_MISMATCH"    // nomor sesi ≠ sesi berjalan (link basi)
	CodeUnauthorized       Code = "UNAUTHORIZED"        // bukan pemilik kelas
	CodeNotFound           Code = "NOT_FOUND"           // akun induk belum ada
	CodeInvalidInput       Code = "INVALID_INPUT"       // batas panjang / field wajib
	CodeInsufficientFunds  Code = "INSUFFICIENT_FUNDS"  // signer tidak sanggup bayar biaya
	CodeInternal           Code = "INTERNAL"            // kegagalan storage/tak terduga
)

type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("ledger[%s]: %s", e.Code, e.Msg) }

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf mengembalikan Code dari error ledger; error lain → CodeInternal.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return CodeInternal
}

// IsCode mengecek apakah err membawa code tertentu.
func IsCode(err error, code Code) bool {
	var le *Error
	return errors.As(err, &le) && le.Code == code
}
