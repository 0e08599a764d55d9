package dto

/* =========================================================
   Bentuk data hasil rekonsiliasi baca
   ========================================================= */

// Satu baris roster (event attendee atau student satu sesi).
type RosterItem struct {
	Wallet    string `json:"wallet"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Timestamp int64  `json:"timestamp"` // unix detik
}

// Snapshot roster: daftar penuh (bukan patch) + kapan diambil.
type RosterSnapshot struct {
	Scope     string       `json:"scope"`
	Session   uint32       `json:"session,omitempty"`
	Items     []RosterItem `json:"items"`
	FetchedAt int64        `json:"fetched_at"`
}

type EventSummary struct {
	Address       string `json:"address"`
	EventID       string `json:"event_id"`
	Name          string `json:"name"`
	StartTime     int64  `json:"start_time"`
	EndTime       int64  `json:"end_time"`
	AttendeeCount uint32 `json:"attendee_count"`
}

type ClassSummary struct {
	Address        string `json:"address"`
	ClassID        string `json:"class_id"`
	Name           string `json:"name"`
	CurrentSession uint32 `json:"current_session"`
	IsActive       bool   `json:"is_active"`
	SessionStart   int64  `json:"session_start"`
	SessionEnd     int64  `json:"session_end"`
}
