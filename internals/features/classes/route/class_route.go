package route

import (
	"github.com/gofiber/fiber/v2"

	classController "hadirku_backend/internals/features/classes/controller"
	rosterScheduler "hadirku_backend/internals/features/roster/scheduler"
	rosterService "hadirku_backend/internals/features/roster/service"
	"hadirku_backend/internals/ledger"
	"hadirku_backend/internals/middlewares"
)

/* ===================== ADMIN (TEACHER) ===================== */
func ClassRoutes(r fiber.Router, l ledger.Ledger, roster *rosterService.RosterService, poller *rosterScheduler.Poller) {
	ctrl := classController.NewClassController(l, roster, poller)

	r.Post("/classes", middlewares.CreateRateLimiter(), ctrl.CreateClass)
	r.Get("/classes", ctrl.ListMyClasses)
	r.Get("/classes/:address", ctrl.GetClass)
	r.Post("/classes/:address/start-session", ctrl.StartSession)
	r.Post("/classes/:address/end-session", ctrl.EndSession)
	r.Get("/classes/:address/roster", ctrl.SessionRoster)
	r.Get("/classes/:address/link", ctrl.SessionLink)
}
