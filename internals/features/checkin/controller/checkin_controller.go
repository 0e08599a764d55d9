// internals/features/checkin/controller/checkin_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	checkinDTO "hadirku_backend/internals/features/checkin/dto"
	checkinService "hadirku_backend/internals/features/checkin/service"
	helper "hadirku_backend/internals/helpers"
)

type CheckinController struct {
	Service *checkinService.CheckinService
}

func NewCheckinController(svc *checkinService.CheckinService) *CheckinController {
	return &CheckinController{Service: svc}
}

/* ===============================
   CHECK-IN
=============================== */

// POST /api/u/checkin?event=... | ?class=...&session=...
func (ctrl *CheckinController) CheckIn(c *fiber.Ctx) error {
	wallet, err := helper.GetUserWallet(c)
	if err != nil {
		return err
	}

	// Scope dari link (query string QR)
	link, err := checkinService.ParseCheckinLink(
		c.Query("event"), c.Query("class"), c.Query("session"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest,
			"Link check-in tidak valid. Event atau class/session tidak ada.")
	}

	var req checkinDTO.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}

	// Validasi payload (validator lokal, sebelum bayar transaksi)
	if err := validator.New().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctrl.Service.CheckIn(c.UserContext(), wallet, link,
		req.FirstName, req.LastName)
	if err != nil {
		kind := checkinService.Classify(err)
		return helper.ErrorWithDetails(c,
			checkinService.HTTPStatus(kind, err),
			checkinService.UserMessage(err),
			fiber.Map{"kind": kind})
	}

	return helper.Success(c, "Kamu sudah tercatat hadir!", checkinDTO.CheckInResponse{
		Attendance: res.Attendance.String(),
		Scope:      res.Scope.String(),
		Session:    res.Session,
		Signature:  res.Signature,
		Wallet:     wallet.PublicKey().String(),
	})
}
