package route

import (
	"github.com/gofiber/fiber/v2"

	eventController "hadirku_backend/internals/features/events/controller"
	rosterScheduler "hadirku_backend/internals/features/roster/scheduler"
	rosterService "hadirku_backend/internals/features/roster/service"
	"hadirku_backend/internals/ledger"
	"hadirku_backend/internals/middlewares"
)

/* ===================== ADMIN (TEACHER) ===================== */
func EventRoutes(r fiber.Router, l ledger.Ledger, roster *rosterService.RosterService, poller *rosterScheduler.Poller) {
	ctrl := eventController.NewEventController(l, roster, poller)

	r.Post("/events", middlewares.CreateRateLimiter(), ctrl.CreateEvent)
	r.Get("/events", ctrl.ListMyEvents)
	r.Get("/events/:address", ctrl.GetEvent)
	r.Get("/events/:address/roster", ctrl.EventRoster)
	r.Get("/events/:address/link", ctrl.EventLink)
}
