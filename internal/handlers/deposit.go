package handlers

import (
	"stayhub/internal/services/deposit"
	"stayhub/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DepositHandler struct {
	depositService deposit.Service
}

func NewDepositHandler(depositService deposit.Service) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
	}
}

func (h *DepositHandler) Submit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount      int64  `json:"amount"`
		BankName    string `json:"bank_name"`
		BankAccount string `json:"bank_account"`
		ProofImage  string `json:"proof_image"`
		HotelID     *uint  `json:"hotel_id"`
		RoomID      *uint  `json:"room_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	req, err := h.depositService.Submit(c.Context(), claims.UserID, deposit.SubmitInput{
		Amount:      input.Amount,
		BankName:    input.BankName,
		BankAccount: input.BankAccount,
		ProofImage:  input.ProofImage,
		HotelID:     input.HotelID,
		RoomID:      input.RoomID,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"deposit": req})
}

func (h *DepositHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)
	reqs, total, err := h.depositService.ListByUser(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(reqs, p))
}

// AdminCreate credits a wallet immediately on behalf of a user. The caller's
// signature is mandatory and stored on the request for auditing.
func (h *DepositHandler) AdminCreate(c *fiber.Ctx) error {
	var input struct {
		UserID    uint   `json:"user_id"`
		Amount    int64  `json:"amount"`
		Note      string `json:"note"`
		Signature string `json:"signature"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.UserID == 0 {
		return utils.BadRequest(c, "user_id is required")
	}

	req, err := h.depositService.AdminCreate(c.Context(), deposit.AdminCreateInput{
		UserID:    input.UserID,
		Amount:    input.Amount,
		Note:      input.Note,
		Signature: input.Signature,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"deposit": req})
}

func (h *DepositHandler) Process(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "invalid deposit id")
	}

	var input struct {
		Action string `json:"action"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	req, err := h.depositService.Process(c.Context(), uint(id), input.Action, input.Note)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"deposit": req})
}

func (h *DepositHandler) ListPending(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	reqs, total, err := h.depositService.ListPending(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(reqs, p))
}
