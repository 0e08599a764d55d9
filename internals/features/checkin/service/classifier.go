// internals/features/checkin/service/classifier.go
package service

import (
	"github.com/gofiber/fiber/v2"

	"hadirku_backend/internals/ledger"
)

/* =========================================================
   Taksonomi kegagalan check-in
   =========================================================
   Semua kegagalan dari ledger dipetakan ke TEPAT SATU kategori
   lewat Code terstruktur (bukan substring pesan). Code yang tidak
   dikenal jatuh ke FailureUnknown, tidak pernah panic.
*/

type FailureKind string

const (
	FailureDuplicateCheckIn      FailureKind = "DUPLICATE_CHECKIN"
	FailureWindowClosed          FailureKind = "WINDOW_CLOSED"
	FailureInsufficientResources FailureKind = "INSUFFICIENT_RESOURCES"
	FailureValidation            FailureKind = "VALIDATION_ERROR"
	FailureUnknown               FailureKind = "UNKNOWN_FAILURE"
)

// Classify memetakan error ledger ke kategori user-facing.
func Classify(err error) FailureKind {
	switch ledger.CodeOf(err) {
	case ledger.CodeAlreadyInitialized:
		return FailureDuplicateCheckIn
	case ledger.CodeEventEnded, ledger.CodeSessionInactive, ledger.CodeSessionMismatch:
		// link sesi basi diperlakukan "sudah berakhir" juga, tapi
		// dapat pesan yang lebih tajam di UserMessage
		return FailureWindowClosed
	case ledger.CodeInsufficientFunds:
		return FailureInsufficientResources
	case ledger.CodeInvalidInput:
		return FailureValidation
	default:
		return FailureUnknown
	}
}

// UserMessage: pesan yang ditampilkan ke peserta.
func UserMessage(err error) string {
	switch ledger.CodeOf(err) {
	case ledger.CodeAlreadyInitialized:
		return "Kamu sudah check-in!"
	case ledger.CodeSessionMismatch:
		return "Sesi ini sudah berakhir. Minta link sesi terbaru ke pengajar."
	case ledger.CodeEventEnded, ledger.CodeSessionInactive:
		return "Event atau sesi ini sudah berakhir."
	case ledger.CodeInsufficientFunds:
		return "Saldo wallet tidak cukup untuk biaya transaksi. Isi dulu lalu coba lagi."
	case ledger.CodeInvalidInput:
		return "Input tidak valid. Periksa nama dan link check-in."
	case ledger.CodeNotFound:
		return "Link check-in tidak valid. Event atau kelas tidak ditemukan."
	default:
		return "Check-in gagal. Silakan coba lagi."
	}
}

// HTTPStatus memetakan kategori ke status code amplop JSON.
func HTTPStatus(kind FailureKind, err error) int {
	switch kind {
	case FailureDuplicateCheckIn:
		return fiber.StatusConflict
	case FailureWindowClosed:
		return fiber.StatusGone
	case FailureInsufficientResources:
		return fiber.StatusPaymentRequired
	case FailureValidation:
		return fiber.StatusBadRequest
	default:
		if ledger.IsCode(err, ledger.CodeNotFound) {
			return fiber.StatusNotFound
		}
		return fiber.StatusBadGateway
	}
}
