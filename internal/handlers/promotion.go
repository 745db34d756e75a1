package handlers

import (
	"time"

	"stayhub/internal/models"
	"stayhub/internal/services/promotion"
	"stayhub/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PromotionHandler struct {
	promotionService promotion.Service
}

func NewPromotionHandler(promotionService promotion.Service) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotionService,
	}
}

// Preview resolves the bonus a deposit amount would earn right now. Public
// and side-effect free; the authoritative resolution happens at submission.
func (h *PromotionHandler) Preview(c *fiber.Ctx) error {
	amount := int64(c.QueryInt("amount"))
	if amount <= 0 {
		return utils.BadRequest(c, "amount must be positive")
	}

	var hotelID, roomID *uint
	if v := c.QueryInt("hotel_id"); v > 0 {
		id := uint(v)
		hotelID = &id
	}
	if v := c.QueryInt("room_id"); v > 0 {
		id := uint(v)
		roomID = &id
	}

	result, err := h.promotionService.Resolve(c.Context(), amount, hotelID, roomID, time.Now())
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, result)
}

type promotionInput struct {
	Name          string     `json:"name"`
	HotelID       *uint      `json:"hotel_id"`
	RoomID        *uint      `json:"room_id"`
	DepositAmount int64      `json:"deposit_amount"`
	BonusPercent  int        `json:"bonus_percent"`
	BonusAmount   int64      `json:"bonus_amount"`
	MaxBonus      int64      `json:"max_bonus"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	IsActive      bool       `json:"is_active"`
}

func (in *promotionInput) toModel() *models.PromotionConfig {
	return &models.PromotionConfig{
		Name:          in.Name,
		HotelID:       in.HotelID,
		RoomID:        in.RoomID,
		DepositAmount: in.DepositAmount,
		BonusPercent:  in.BonusPercent,
		BonusAmount:   in.BonusAmount,
		MaxBonus:      in.MaxBonus,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		IsActive:      in.IsActive,
	}
}

func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	var input promotionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	promo := input.toModel()
	if err := h.promotionService.Create(c.Context(), promo); err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"promotion": promo})
}

func (h *PromotionHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "invalid promotion id")
	}

	var input promotionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	promo := input.toModel()
	promo.ID = uint(id)
	if err := h.promotionService.Update(c.Context(), promo); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"promotion": promo})
}

func (h *PromotionHandler) SetActive(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "invalid promotion id")
	}

	var input struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	promo, err := h.promotionService.SetActive(c.Context(), uint(id), input.IsActive)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"promotion": promo})
}

func (h *PromotionHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "invalid promotion id")
	}

	promo, err := h.promotionService.Get(c.Context(), uint(id))
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"promotion": promo})
}

func (h *PromotionHandler) List(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	promos, total, err := h.promotionService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(promos, p))
}
