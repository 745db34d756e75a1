package handlers

import (
	"stayhub/internal/models"
	"stayhub/internal/services/withdrawal"
	"stayhub/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WithdrawalHandler struct {
	withdrawalService withdrawal.Service
}

func NewWithdrawalHandler(withdrawalService withdrawal.Service) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

type withdrawalInput struct {
	Amount      int64  `json:"amount"`
	BankName    string `json:"bank_name"`
	BankAccount string `json:"bank_account"`
	BankOwner   string `json:"bank_owner"`
}

func (h *WithdrawalHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input withdrawalInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	req, err := h.withdrawalService.Create(c.Context(), claims.UserID, withdrawal.CreateInput{
		Amount:      input.Amount,
		BankName:    input.BankName,
		BankAccount: input.BankAccount,
		BankOwner:   input.BankOwner,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"withdrawal": req})
}

func (h *WithdrawalHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)
	reqs, total, err := h.withdrawalService.ListByUser(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(reqs, p))
}

// AdminCreate opens a withdrawal on a user's behalf. The plaintext
// confirmation token appears in this response only; it is stored hashed.
func (h *WithdrawalHandler) AdminCreate(c *fiber.Ctx) error {
	var input struct {
		withdrawalInput
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.UserID == 0 {
		return utils.BadRequest(c, "user_id is required")
	}

	req, token, err := h.withdrawalService.AdminCreate(c.Context(), input.UserID, withdrawal.CreateInput{
		Amount:      input.Amount,
		BankName:    input.BankName,
		BankAccount: input.BankAccount,
		BankOwner:   input.BankOwner,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{
		"withdrawal":         req,
		"confirmation_token": token,
	})
}

// Confirm countersigns an admin-initiated withdrawal. The route is public:
// the confirmation link carries the request id and single-use token.
func (h *WithdrawalHandler) Confirm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "invalid withdrawal id")
	}

	var input struct {
		Token     string `json:"token"`
		Signature string `json:"signature"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	req, err := h.withdrawalService.Confirm(c.Context(), uint(id), input.Token, input.Signature)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"withdrawal": req})
}

func (h *WithdrawalHandler) Process(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "invalid withdrawal id")
	}

	var input struct {
		Action string `json:"action"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	req, err := h.withdrawalService.Process(c.Context(), uint(id), input.Action, input.Note)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"withdrawal": req})
}

func (h *WithdrawalHandler) ListByStatus(c *fiber.Ctx) error {
	status := c.Query("status", models.WithdrawalStatusPending)

	p := utils.GetPagination(c, 1, 20)
	reqs, total, err := h.withdrawalService.ListByStatus(c.Context(), status, p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(reqs, p))
}
