// Package handlers contains the HTTP adapters. Handlers parse and validate
// requests, delegate to the services and translate domain errors to HTTP
// statuses; no business rules live here.
package handlers

import (
	"stayhub/internal/models"
	"stayhub/internal/services/ledger"
	"stayhub/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	ledgerService ledger.Service
}

func NewWalletHandler(ledgerService ledger.Service) *WalletHandler {
	return &WalletHandler{
		ledgerService: ledgerService,
	}
}

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	account, err := h.ledgerService.EnsureAccount(c.Context(), claims.UserID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"wallet":            account,
		"available_balance": account.AvailableBalance(),
		"total_balance":     account.TotalBalance(),
	})
}

func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)
	txType := c.Query("type")
	txns, total, err := h.ledgerService.Transactions(c.Context(), claims.UserID, txType, p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(txns, p))
}
