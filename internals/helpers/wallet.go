// internals/helpers/wallet.go
package helper

import (
	"github.com/gofiber/fiber/v2"

	"hadirku_backend/internals/configs"
	"hadirku_backend/internals/ledger"
)

// GetUserWallet menderivasi wallet kustodial user yang sedang login.
// Kunci deterministik: user sama → kunci sama, di device mana pun.
func GetUserWallet(c *fiber.Ctx) (*ledger.Wallet, error) {
	userID, err := GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	w, err := ledger.DeriveWallet([]byte(configs.WalletSecret), userID.String())
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyiapkan wallet user")
	}
	return w, nil
}
