// internals/features/proof/controller/proof_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"hadirku_backend/internals/features/proof/dto"
)

type ProofController struct{}

func NewProofController() *ProofController {
	return &ProofController{}
}

// GET /api/proof.json
// Dokumen metadata statis; satu dokumen untuk semua mint.
func (ctrl *ProofController) GetMetadata(c *fiber.Ctx) error {
	c.Set("Cache-Control", "public, max-age=3600")
	return c.JSON(dto.DefaultProofMetadata())
}
