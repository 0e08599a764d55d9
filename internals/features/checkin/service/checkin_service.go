// internals/features/checkin/service/checkin_service.go
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"hadirku_backend/internals/ledger"
	proofService "hadirku_backend/internals/features/proof/service"
)

/* =========================================================
   Write client check-in
   =========================================================
   Validasi lokal dulu (biar tidak bayar biaya transaksi untuk
   request yang pasti ditolak program), submit lewat Ledger, lalu
   klasifikasikan hasilnya. TIDAK pernah retry otomatis: submit
   ulang yang identik pasti gagal duplikat kalau yang pertama
   sudah masuk, jadi keputusan retry diserahkan ke manusia.
*/

// CheckinLink: isi query string dari QR: event ATAU (class, session).
type CheckinLink struct {
	Event   *ledger.Address
	Class   *ledger.Address
	Session uint32
}

var ErrInvalidLink = errors.New("checkin: link tidak membawa event atau class+session")

// ParseCheckinLink membaca parameter link apa adanya; dua-duanya
// kosong → error lokal, tidak pernah sampai ke ledger.
func ParseCheckinLink(eventParam, classParam, sessionParam string) (CheckinLink, error) {
	eventParam = strings.TrimSpace(eventParam)
	classParam = strings.TrimSpace(classParam)
	sessionParam = strings.TrimSpace(sessionParam)

	if eventParam != "" {
		addr, err := ledger.ParseAddress(eventParam)
		if err != nil {
			return CheckinLink{}, err
		}
		return CheckinLink{Event: &addr}, nil
	}
	if classParam != "" && sessionParam != "" {
		addr, err := ledger.ParseAddress(classParam)
		if err != nil {
			return CheckinLink{}, err
		}
		sess, err := strconv.ParseUint(sessionParam, 10, 32)
		if err != nil {
			return CheckinLink{}, errors.New("checkin: nomor sesi tidak valid")
		}
		return CheckinLink{Class: &addr, Session: uint32(sess)}, nil
	}
	return CheckinLink{}, ErrInvalidLink
}

type CheckinResult struct {
	Attendance ledger.Address
	Scope      ledger.Address
	Session    uint32
	Signature  string
}

type CheckinService struct {
	Ledger ledger.Ledger
	Mints  *proofService.MintQueue // boleh nil (tanpa side channel)
}

func NewCheckinService(l ledger.Ledger, mints *proofService.MintQueue) *CheckinService {
	return &CheckinService{Ledger: l, Mints: mints}
}

// CheckIn menjalankan satu aksi check-in untuk signer terhadap link.
func (s *CheckinService) CheckIn(ctx context.Context, signer ledger.Signer, link CheckinLink, firstName, lastName string) (*CheckinResult, error) {
	attendee := signer.PublicKey()

	var (
		out   *ledger.Outcome
		scope ledger.Address
		err   error
	)
	switch {
	case link.Event != nil:
		scope = *link.Event
		out, err = s.Ledger.Submit(ctx, ledger.CheckIn{
			Attendee:  attendee,
			Event:     scope,
			FirstName: firstName,
			LastName:  lastName,
		})
	case link.Class != nil:
		scope = *link.Class
		out, err = s.Ledger.Submit(ctx, ledger.CheckInSession{
			Student:   attendee,
			Class:     scope,
			Session:   link.Session,
			FirstName: firstName,
			LastName:  lastName,
		})
	default:
		return nil, ErrInvalidLink
	}
	if err != nil {
		return nil, err
	}

	// Check-in SUDAH final di titik ini. Mint proof hanya dipicu,
	// hasilnya tidak pernah mengalir balik ke sini.
	if s.Mints != nil {
		s.Mints.Enqueue(proofService.MintJob{Owner: attendee, ScopeAddress: scope})
	}

	return &CheckinResult{
		Attendance: out.Address,
		Scope:      scope,
		Session:    link.Session,
		Signature:  out.Signature,
	}, nil
}
