// internals/ledger/store.go
package ledger

import (
	"context"
	"errors"
)

/* =========================================================
   AccountStore: lapisan penyimpanan akun
   =========================================================
   Create WAJIB atomik "initialize once": kalau alamat sudah ada,
   kembalikan ErrDuplicateAccount, tanpa cek-lalu-tulis terpisah.
   Itulah satu-satunya penjaga exactly-once di seluruh sistem.
*/

var (
	ErrDuplicateAccount = errors.New("ledger: akun sudah diinisialisasi")
	ErrAccountNotFound  = errors.New("ledger: akun tidak ditemukan")
)

// RawAccount adalah record mentah hasil scan/lookup.
type RawAccount struct {
	Address Address
	Data    []byte
}

// ScopeFilter mencocokkan discriminator + 32 byte pemilik pada
// OwnerOffset: kunci pemilik selalu di byte 8..40 setiap akun.
type ScopeFilter struct {
	Discriminator Discriminator
	Owner         [32]byte
}

type AccountStore interface {
	// Create membuat akun baru; gagal atomik dengan ErrDuplicateAccount
	// jika alamat sudah terisi.
	Create(ctx context.Context, addr Address, disc Discriminator, data []byte) error

	// Get mengambil satu akun; ErrAccountNotFound jika belum ada.
	Get(ctx context.Context, addr Address) ([]byte, error)

	// Update menimpa data akun yang sudah ada (hanya dipanggil program).
	Update(ctx context.Context, addr Address, data []byte) error

	// Scan mengembalikan semua akun yang cocok dengan filter scope.
	Scan(ctx context.Context, filter ScopeFilter) ([]RawAccount, error)
}
