package route

import (
	"github.com/gofiber/fiber/v2"

	proofController "hadirku_backend/internals/features/proof/controller"
)

/* ===================== PUBLIC ===================== */
func ProofRoutes(r fiber.Router) {
	ctrl := proofController.NewProofController()
	r.Get("/proof.json", ctrl.GetMetadata)
}
