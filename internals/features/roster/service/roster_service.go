// internals/features/roster/service/roster_service.go
package service

import (
	"context"
	"log"
	"sort"
	"time"

	"hadirku_backend/internals/features/roster/dto"
	"hadirku_backend/internals/ledger"
)

/* =========================================================
   Read reconciler
   =========================================================
   Membangun ulang view "siapa sudah check-in" dari ledger lewat
   scoped query (discriminator + pemilik di offset 8). Setiap fetch
   mengganti snapshot sepenuhnya; urutan timestamp desc; filter sesi
   dilakukan di sisi klien karena derivasi menaruh sesi di alamat,
   bukan di offset yang bisa difilter server.
*/

type RosterService struct {
	Ledger ledger.Ledger
}

func NewRosterService(l ledger.Ledger) *RosterService {
	return &RosterService{Ledger: l}
}

// EventRoster: semua attendee satu event, terbaru dulu.
func (s *RosterService) EventRoster(ctx context.Context, event ledger.Address) (*dto.RosterSnapshot, error) {
	raws, err := s.Ledger.Query(ctx, ledger.ScopeFilter{
		Discriminator: ledger.AttendanceDiscriminator,
		Owner:         event,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.RosterItem, 0, len(raws))
	for _, raw := range raws {
		rec, err := ledger.DecodeAttendanceAccount(raw.Data)
		if err != nil {
			log.Printf("[ROSTER WARN] record attendance korup di %s: %v", raw.Address, err)
			continue
		}
		items = append(items, dto.RosterItem{
			Wallet:    rec.Attendee.String(),
			Timestamp: rec.Timestamp,
		})
	}
	sortByTimestampDesc(items)
	return &dto.RosterSnapshot{
		Scope:     event.String(),
		Items:     items,
		FetchedAt: time.Now().Unix(),
	}, nil
}

// SessionRoster: student satu (kelas, sesi), terbaru dulu.
func (s *RosterService) SessionRoster(ctx context.Context, class ledger.Address, session uint32) (*dto.RosterSnapshot, error) {
	raws, err := s.Ledger.Query(ctx, ledger.ScopeFilter{
		Discriminator: ledger.ClassAttendanceDiscriminator,
		Owner:         class,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.RosterItem, 0, len(raws))
	for _, raw := range raws {
		rec, err := ledger.DecodeClassAttendanceAccount(raw.Data)
		if err != nil {
			log.Printf("[ROSTER WARN] record class attendance korup di %s: %v", raw.Address, err)
			continue
		}
		if rec.Session != session {
			continue // sesi lain, lewati di sisi klien
		}
		items = append(items, dto.RosterItem{
			Wallet:    rec.Student.String(),
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Timestamp: rec.Timestamp,
		})
	}
	sortByTimestampDesc(items)
	return &dto.RosterSnapshot{
		Scope:     class.String(),
		Session:   session,
		Items:     items,
		FetchedAt: time.Now().Unix(),
	}, nil
}

// TeacherEvents: semua event milik satu authority, start terbaru dulu.
func (s *RosterService) TeacherEvents(ctx context.Context, authority ledger.PublicKey) ([]dto.EventSummary, error) {
	raws, err := s.Ledger.Query(ctx, ledger.ScopeFilter{
		Discriminator: ledger.EventDiscriminator,
		Owner:         [32]byte(authority),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventSummary, 0, len(raws))
	for _, raw := range raws {
		acc, err := ledger.DecodeEventAccount(raw.Data)
		if err != nil {
			log.Printf("[ROSTER WARN] record event korup di %s: %v", raw.Address, err)
			continue
		}
		out = append(out, eventSummary(raw.Address, acc))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime > out[j].StartTime })
	return out, nil
}

// TeacherClasses: semua kelas milik satu teacher.
func (s *RosterService) TeacherClasses(ctx context.Context, teacher ledger.PublicKey) ([]dto.ClassSummary, error) {
	raws, err := s.Ledger.Query(ctx, ledger.ScopeFilter{
		Discriminator: ledger.ClassDiscriminator,
		Owner:         [32]byte(teacher),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClassSummary, 0, len(raws))
	for _, raw := range raws {
		acc, err := ledger.DecodeClassAccount(raw.Data)
		if err != nil {
			log.Printf("[ROSTER WARN] record class korup di %s: %v", raw.Address, err)
			continue
		}
		out = append(out, classSummary(raw.Address, acc))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClassID < out[j].ClassID })
	return out, nil
}

// EventDetail: lookup langsung ke alamat (tanpa scan).
func (s *RosterService) EventDetail(ctx context.Context, addr ledger.Address) (*dto.EventSummary, error) {
	raw, err := s.Ledger.Fetch(ctx, addr)
	if err != nil {
		return nil, err
	}
	acc, err := ledger.DecodeEventAccount(raw)
	if err != nil {
		return nil, err
	}
	sum := eventSummary(addr, acc)
	return &sum, nil
}

// ClassDetail: lookup langsung ke alamat.
func (s *RosterService) ClassDetail(ctx context.Context, addr ledger.Address) (*dto.ClassSummary, error) {
	raw, err := s.Ledger.Fetch(ctx, addr)
	if err != nil {
		return nil, err
	}
	acc, err := ledger.DecodeClassAccount(raw)
	if err != nil {
		return nil, err
	}
	sum := classSummary(addr, acc)
	return &sum, nil
}

func eventSummary(addr ledger.Address, acc *ledger.EventAccount) dto.EventSummary {
	return dto.EventSummary{
		Address:       addr.String(),
		EventID:       acc.EventID,
		Name:          acc.Name,
		StartTime:     acc.StartTime,
		EndTime:       acc.EndTime,
		AttendeeCount: acc.AttendeeCount,
	}
}

func classSummary(addr ledger.Address, acc *ledger.ClassAccount) dto.ClassSummary {
	return dto.ClassSummary{
		Address:        addr.String(),
		ClassID:        acc.ClassID,
		Name:           acc.Name,
		CurrentSession: acc.CurrentSession,
		IsActive:       acc.IsActive,
		SessionStart:   acc.SessionStart,
		SessionEnd:     acc.SessionEnd,
	}
}

// Sort stabil: tie timestamp boleh urutan apa saja asal konsisten.
func sortByTimestampDesc(items []dto.RosterItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
}
