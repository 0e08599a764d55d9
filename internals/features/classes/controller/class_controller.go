// internals/features/classes/controller/class_controller.go
package controller

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	classDTO "hadirku_backend/internals/features/classes/dto"
	rosterScheduler "hadirku_backend/internals/features/roster/scheduler"
	rosterService "hadirku_backend/internals/features/roster/service"
	helper "hadirku_backend/internals/helpers"
	"hadirku_backend/internals/configs"
	"hadirku_backend/internals/ledger"
)

/* ===============================
   Controller & Constructor
=============================== */

type ClassController struct {
	Ledger ledger.Ledger
	Roster *rosterService.RosterService
	Poller *rosterScheduler.Poller
}

func NewClassController(l ledger.Ledger, roster *rosterService.RosterService, poller *rosterScheduler.Poller) *ClassController {
	return &ClassController{Ledger: l, Roster: roster, Poller: poller}
}

/* ===============================
   CREATE
=============================== */

// POST /api/a/classes
func (ctrl *ClassController) CreateClass(c *fiber.Ctx) error {
	wallet, err := helper.GetUserWallet(c)
	if err != nil {
		return err
	}

	var req classDTO.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	out, err := ctrl.Ledger.Submit(c.UserContext(), ledger.CreateClass{
		Teacher: wallet.PublicKey(),
		ClassID: req.ClassID,
		Name:    req.Name,
	})
	if err != nil {
		if ledger.IsCode(err, ledger.CodeAlreadyInitialized) {
			return fiber.NewError(fiber.StatusConflict, "Class ID sudah dipakai. Gunakan ID lain.")
		}
		if ledger.IsCode(err, ledger.CodeInvalidInput) {
			return fiber.NewError(fiber.StatusBadRequest, "Input kelas tidak valid")
		}
		return fiber.NewError(fiber.StatusBadGateway, "Gagal membuat kelas di ledger")
	}

	return helper.JsonCreated(c, "Kelas berhasil dibuat", classDTO.CreateClassResponse{
		Address:   out.Address.String(),
		ClassID:   req.ClassID,
		Bump:      out.Bump,
		Signature: out.Signature,
	})
}

/* ===============================
   LIST & DETAIL
=============================== */

// GET /api/a/classes
func (ctrl *ClassController) ListMyClasses(c *fiber.Ctx) error {
	wallet, err := helper.GetUserWallet(c)
	if err != nil {
		return err
	}
	classes, err := ctrl.Roster.TeacherClasses(c.UserContext(), wallet.PublicKey())
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Gagal mengambil daftar kelas")
	}
	return helper.Success(c, "OK", classes)
}

// GET /api/a/classes/:address
func (ctrl *ClassController) GetClass(c *fiber.Ctx) error {
	addr, err := ledger.ParseAddress(c.Params("address"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alamat kelas tidak valid")
	}
	detail, err := ctrl.Roster.ClassDetail(c.UserContext(), addr)
	if err != nil {
		if ledger.IsCode(err, ledger.CodeNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusBadGateway, "Gagal mengambil kelas")
	}
	return helper.Success(c, "OK", detail)
}

/* ===============================
   SESI: START / END
=============================== */

// POST /api/a/classes/:address/start-session
func (ctrl *ClassController) StartSession(c *fiber.Ctx) error {
	wallet, err := helper.GetUserWallet(c)
	if err != nil {
		return err
	}
	addr, err := ledger.ParseAddress(c.Params("address"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alamat kelas tidak valid")
	}

	var req classDTO.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 60
	}

	if _, err := ctrl.Ledger.Submit(c.UserContext(), ledger.StartSession{
		Teacher:         wallet.PublicKey(),
		Class:           addr,
		DurationMinutes: req.DurationMinutes,
	}); err != nil {
		return ctrl.sessionError(c, err, "Gagal memulai sesi")
	}

	return ctrl.sessionState(c, addr, "Sesi dimulai")
}

// POST /api/a/classes/:address/end-session
func (ctrl *ClassController) EndSession(c *fiber.Ctx) error {
	wallet, err := helper.GetUserWallet(c)
	if err != nil {
		return err
	}
	addr, err := ledger.ParseAddress(c.Params("address"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alamat kelas tidak valid")
	}

	if _, err := ctrl.Ledger.Submit(c.UserContext(), ledger.EndSession{
		Teacher: wallet.PublicKey(),
		Class:   addr,
	}); err != nil {
		return ctrl.sessionError(c, err, "Gagal mengakhiri sesi")
	}

	return ctrl.sessionState(c, addr, "Sesi diakhiri")
}

func (ctrl *ClassController) sessionError(c *fiber.Ctx, err error, fallback string) error {
	switch ledger.CodeOf(err) {
	case ledger.CodeUnauthorized:
		return fiber.NewError(fiber.StatusForbidden, "Kelas ini bukan milik Anda")
	case ledger.CodeNotFound:
		return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
	case ledger.CodeSessionActive:
		return fiber.NewError(fiber.StatusConflict, "Masih ada sesi yang berjalan. Akhiri dulu.")
	case ledger.CodeSessionInactive:
		return fiber.NewError(fiber.StatusConflict, "Tidak ada sesi yang sedang berjalan")
	case ledger.CodeInvalidInput:
		return fiber.NewError(fiber.StatusBadRequest, "Input sesi tidak valid")
	default:
		return fiber.NewError(fiber.StatusBadGateway, fallback)
	}
}

// sessionState membalas state kelas terbaru setelah transisi.
func (ctrl *ClassController) sessionState(c *fiber.Ctx, addr ledger.Address, msg string) error {
	detail, err := ctrl.Roster.ClassDetail(c.UserContext(), addr)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Transisi sukses tapi gagal baca state kelas")
	}
	return helper.Success(c, msg, detail)
}

/* ===============================
   ROSTER & LINK
=============================== */

// GET /api/a/classes/:address/roster?session=n&refresh=1
// Tanpa ?session, pakai sesi berjalan.
func (ctrl *ClassController) SessionRoster(c *fiber.Ctx) error {
	addr, err := ledger.ParseAddress(c.Params("address"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alamat kelas tidak valid")
	}

	session, err := ctrl.resolveSession(c, addr)
	if err != nil {
		return err
	}

	force := c.Query("refresh") == "1"
	snap, err := ctrl.Poller.SessionRoster(c.UserContext(), addr, session, force)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Gagal mengambil roster")
	}
	return helper.Success(c, "OK", snap)
}

// GET /api/a/classes/:address/link
// Link hanya valid untuk sesi berjalan; kelas INACTIVE tidak punya link.
func (ctrl *ClassController) SessionLink(c *fiber.Ctx) error {
	addr, err := ledger.ParseAddress(c.Params("address"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Alamat kelas tidak valid")
	}
	detail, err := ctrl.Roster.ClassDetail(c.UserContext(), addr)
	if err != nil {
		if ledger.IsCode(err, ledger.CodeNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusBadGateway, "Gagal mengambil kelas")
	}
	if !detail.IsActive {
		return fiber.NewError(fiber.StatusConflict, "Mulai sesi dulu untuk membuat link check-in")
	}

	url := fmt.Sprintf("%s?class=%s&session=%d",
		configs.CheckinBaseURL, detail.Address, detail.CurrentSession)
	return helper.Success(c, "OK", fiber.Map{
		"url":     url,
		"session": detail.CurrentSession,
	})
}

func (ctrl *ClassController) resolveSession(c *fiber.Ctx, addr ledger.Address) (uint32, error) {
	if q := c.Query("session"); q != "" {
		sess, err := strconv.ParseUint(q, 10, 32)
		if err != nil {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Nomor sesi tidak valid")
		}
		return uint32(sess), nil
	}
	detail, err := ctrl.Roster.ClassDetail(c.UserContext(), addr)
	if err != nil {
		if ledger.IsCode(err, ledger.CodeNotFound) {
			return 0, fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return 0, fiber.NewError(fiber.StatusBadGateway, "Gagal mengambil kelas")
	}
	return detail.CurrentSession, nil
}
