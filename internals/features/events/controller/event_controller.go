// internals/features/events/controller/event_controller.go
package controller

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	eventDTO "hadirku_backend/internals/features/events/dto"
	rosterScheduler "hadirku_backend/internals/features/roster/scheduler"
	rosterService "hadirku_backend/internals/features/roster/service"
	helper "hadirku_backend/internals/helpers"
	"hadirku_backend/internals/configs"
	"hadirku_backend/internals/ledger"
)

/* ===============================
   Controller & Constructor
=============================== */

type EventController struct {
	Ledger ledger.Ledger
	Roster *rosterService.RosterService
	Poller *rosterScheduler.Poller
}

func NewEventController(l ledger.Ledger, roster *rosterService.RosterService, poller *rosterScheduler.Poller) *EventController {
	return &EventController{Ledger: l, Roster: roster, Poller: poller}
}

/* ===============================
   CREATE
=============================== */

// POST /api/a/events
func (ctrl *EventController) CreateEvent(c *fiber.Ctx) error {
	wallet, err := helper.GetUserWallet(c)
	if err != nil {
		return err
	}

	var req eventDTO.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.EventID == "" {
		// id unik per authority: evt-<ts base36>
		req.EventID = "evt-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 60
	}

	out, err := ctrl.Ledger.Submit(c.UserContext(), ledger.CreateEvent{
		Authority:       wallet.PublicKey(),
		EventID:         req.EventID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		if ledger.IsCode(err, ledger.CodeAlreadyInitialized) {
			return fiber.NewError(fiber.StatusConflict, "Event ID sudah dipakai. Gunakan ID lain.")
		}
		if ledger.IsCode(err, ledger.CodeInvalidInput) {
			return fiber.NewError(fiber.StatusBadRequest, "Input event tidak valid")
		}
		return fiber.NewError(fiber.StatusBadGateway, "Gagal membuat event di ledger")
	}

	return helper.JsonCreated(c, "Event berhasil dibuat", eventDTO.CreateEventResponse{
		Address:   out.Address.String(),
		EventID:   req.EventID,
		Bump:      out.Bump,
		Signature: out.Signature,
	})
}

/* ===============================
   LIST & DETAIL
=============================== */

// GET /api/a/events
func (ctrl *EventController) ListMyEvents(c *fiber.Ctx) error {
	wallet, err := helper.GetUserWallet(c)
	if err != nil {
		return err
	}
	events, err := ctrl.Roster.TeacherEvents(c.UserContext(), wallet.PublicKey())
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Gagal mengambil daftar event")
	}
	return helper.Success(c, "OK", events)
}

// GET /api/a/events/:address
func (ctrl *EventController) GetEvent(c *fiber.Ctx) error {
	addr, err := ledger.ParseAddress(c.Params("address"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alamat event tidak valid")
	}
	detail, err := ctrl.Roster.EventDetail(c.UserContext(), addr)
	if err != nil {
		if ledger.IsCode(err, ledger.CodeNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Event tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusBadGateway, "Gagal mengambil event")
	}
	return helper.Success(c, "OK", detail)
}

/* ===============================
   ROSTER & LINK
=============================== */

// GET /api/a/events/:address/roster?refresh=1
func (ctrl *EventController) EventRoster(c *fiber.Ctx) error {
	addr, err := ledger.ParseAddress(c.Params("address"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alamat event tidak valid")
	}
	force := c.Query("refresh") == "1"
	snap, err := ctrl.Poller.EventRoster(c.UserContext(), addr, force)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Gagal mengambil roster")
	}
	return helper.Success(c, "OK", snap)
}

// GET /api/a/events/:address/link
func (ctrl *EventController) EventLink(c *fiber.Ctx) error {
	addr, err := ledger.ParseAddress(c.Params("address"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alamat event tidak valid")
	}
	url := fmt.Sprintf("%s?event=%s", configs.CheckinBaseURL, addr)
	return helper.Success(c, "OK", eventDTO.CheckinLinkResponse{URL: url})
}
