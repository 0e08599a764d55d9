package dto

/* =========================================================
   1) REQUEST DTO
   ========================================================= */

// Body check-in; scope (event / class+session) datang dari query
// string link, persis parameter URL di QR.
type CheckInRequest struct {
	FirstName string `json:"first_name" validate:"required,max=32"`
	LastName  string `json:"last_name" validate:"required,max=32"`
}

/* =========================================================
   2) RESPONSE DTO
   ========================================================= */

type CheckInResponse struct {
	Attendance string `json:"attendance"` // alamat record attendance
	Scope      string `json:"scope"`      // event/class yang dituju
	Session    uint32 `json:"session,omitempty"`
	Signature  string `json:"signature"` // id konfirmasi transisi
	Wallet     string `json:"wallet"`
}
