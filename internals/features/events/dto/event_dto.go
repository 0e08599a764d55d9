package dto

/* =========================================================
   1) REQUEST DTO
   ========================================================= */

// Create. EventID opsional; kalau kosong digenerate server
// (evt-<timestamp base36>).
type CreateEventRequest struct {
	EventID         string `json:"event_id" validate:"omitempty,max=32"`
	Name            string `json:"name" validate:"required,max=64"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
}

/* =========================================================
   2) RESPONSE DTO
   ========================================================= */

type CreateEventResponse struct {
	Address   string `json:"address"`
	EventID   string `json:"event_id"`
	Bump      uint8  `json:"bump"`
	Signature string `json:"signature"`
}

// Link check-in yang ditaruh di QR (gambar QR di luar scope).
type CheckinLinkResponse struct {
	URL     string `json:"url"`
	Session uint32 `json:"session,omitempty"`
}
