package handlers

import (
	"errors"

	"github.com/tuantrunglc/ecom-backend-api/internal/services/wallet"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetBalance handles GET /api/wallet
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	balance, err := h.walletService.GetBalance(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.Error(c, fiber.StatusNotFound, "wallet not found")
		}
		return response.FromError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"user_id": claims.UserID,
		"balance": balance,
	})
}
