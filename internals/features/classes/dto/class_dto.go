package dto

/* =========================================================
   1) REQUEST DTO
   ========================================================= */

// Create
type CreateClassRequest struct {
	ClassID string `json:"class_id" validate:"required,max=16"`
	Name    string `json:"name" validate:"required,max=64"`
}

// Start sesi baru
type StartSessionRequest struct {
	DurationMinutes int `json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
}

/* =========================================================
   2) RESPONSE DTO
   ========================================================= */

type CreateClassResponse struct {
	Address   string `json:"address"`
	ClassID   string `json:"class_id"`
	Bump      uint8  `json:"bump"`
	Signature string `json:"signature"`
}
