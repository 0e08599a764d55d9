package route

import (
	"github.com/gofiber/fiber/v2"

	checkinController "hadirku_backend/internals/features/checkin/controller"
	checkinService "hadirku_backend/internals/features/checkin/service"
	"hadirku_backend/internals/middlewares"
)

/* ===================== USER (PRIVATE) ===================== */
func CheckinRoutes(r fiber.Router, svc *checkinService.CheckinService) {
	ctrl := checkinController.NewCheckinController(svc)
	r.Post("/checkin", middlewares.CheckinRateLimiter(), ctrl.CheckIn)
}
