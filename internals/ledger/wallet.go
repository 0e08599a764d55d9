// internals/ledger/wallet.go
package ledger

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

/* =========================================================
   Signer: boundary penyedia identitas/penandatangan
   =========================================================
   Kontraknya saja yang dipegang core: "punya kunci publik, bisa
   menandatangani transisi". Implementasi produksi adalah wallet
   kustodial server (derivasi deterministik per user), wallet
   eksternal tinggal memenuhi interface yang sama.
*/

type Signer interface {
	PublicKey() PublicKey
	Sign(message []byte) []byte
}

// Wallet kustodial: kunci ed25519 dideriv dari secret server + user id
// via HKDF-SHA256, jadi user yang sama selalu memegang kunci yang sama.
type Wallet struct {
	priv ed25519.PrivateKey
	pub  PublicKey
}

var ErrEmptyWalletSecret = errors.New("ledger: wallet secret kosong")

func DeriveWallet(secret []byte, userID string) (*Wallet, error) {
	if len(secret) == 0 {
		return nil, ErrEmptyWalletSecret
	}
	r := hkdf.New(sha256.New, secret, []byte("hadirku/wallet/v1"), []byte(userID))
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	var pub PublicKey
	copy(pub[:], priv.Public().(ed25519.PublicKey))
	return &Wallet{priv: priv, pub: pub}, nil
}

func (w *Wallet) PublicKey() PublicKey { return w.pub }

func (w *Wallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.priv, message)
}

// VerifySignature memverifikasi tanda tangan terhadap kunci publik.
func VerifySignature(pub PublicKey, message, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), message, sig)
}
