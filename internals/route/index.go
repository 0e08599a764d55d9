// file: internals/route/index.go
package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	checkinRoute "hadirku_backend/internals/features/checkin/route"
	checkinService "hadirku_backend/internals/features/checkin/service"
	classRoute "hadirku_backend/internals/features/classes/route"
	eventRoute "hadirku_backend/internals/features/events/route"
	proofRoute "hadirku_backend/internals/features/proof/route"
	rosterScheduler "hadirku_backend/internals/features/roster/scheduler"
	rosterService "hadirku_backend/internals/features/roster/service"
	"hadirku_backend/internals/ledger"
	"hadirku_backend/internals/middlewares"
)

func SetupRoutes(
	app *fiber.App,
	lgr ledger.Ledger,
	roster *rosterService.RosterService,
	poller *rosterScheduler.Poller,
	checkins *checkinService.CheckinService,
) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api")
	proofRoute.ProofRoutes(public)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	private := app.Group("/api/u",
		middlewares.AuthJWT(middlewares.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	checkinRoute.CheckinRoutes(private, checkins)

	// ===================== ADMIN (TEACHER) =====================
	log.Println("[INFO] Setting up ADMIN (teacher) group...")
	admin := app.Group("/api/a",
		middlewares.AuthJWT(middlewares.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	eventRoute.EventRoutes(admin, lgr, roster, poller)
	classRoute.ClassRoutes(admin, lgr, roster, poller)
}
