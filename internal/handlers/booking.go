package handlers

import (
	"time"

	"stayhub/internal/services/booking"
	"stayhub/internal/services/settlement"
	"stayhub/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	bookingService    booking.Service
	settlementService settlement.Service
}

func NewBookingHandler(bookingService booking.Service, settlementService settlement.Service) *BookingHandler {
	return &BookingHandler{
		bookingService:    bookingService,
		settlementService: settlementService,
	}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		RoomID       uint      `json:"room_id"`
		CheckIn      time.Time `json:"check_in"`
		CheckOut     time.Time `json:"check_out"`
		Guests       int       `json:"guests"`
		ContactName  string    `json:"contact_name"`
		ContactPhone string    `json:"contact_phone"`
		ContactEmail string    `json:"contact_email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	b, err := h.bookingService.Create(c.Context(), claims.UserID, booking.CreateInput{
		RoomID:       input.RoomID,
		CheckIn:      input.CheckIn,
		CheckOut:     input.CheckOut,
		Guests:       input.Guests,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		ContactEmail: input.ContactEmail,
	})
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"booking": b})
}

func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)
	bookings, total, err := h.bookingService.ListByUser(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(bookings, p))
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	b, err := h.bookingService.Get(c.Context(), id)
	if err != nil {
		return utils.Error(c, err)
	}
	if b.UserID != claims.UserID && !claims.IsAdmin() {
		return utils.NotFound(c, "booking not found")
	}

	return utils.Success(c, fiber.Map{"booking": b})
}

func (h *BookingHandler) PayDeposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	b, err := h.bookingService.PayDepositFromWallet(c.Context(), claims.UserID, id)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"booking": b})
}

func (h *BookingHandler) UploadProof(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	var input struct {
		ProofImage string `json:"proof_image"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	b, err := h.bookingService.UploadProof(c.Context(), claims.UserID, id, input.ProofImage)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"booking": b})
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	// Admins may cancel any booking; users only their own.
	userID := claims.UserID
	if claims.IsAdmin() {
		userID = 0
	}

	b, err := h.bookingService.Cancel(c.Context(), userID, id)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"booking": b})
}

func (h *BookingHandler) AddService(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	var input struct {
		ServiceID uint `json:"service_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	b, err := h.bookingService.AddService(c.Context(), id, input.ServiceID, input.Quantity)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"booking": b})
}

func (h *BookingHandler) ConfirmServiceDelivery(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}
	lineID, err := c.ParamsInt("lineID")
	if err != nil || lineID < 1 {
		return utils.BadRequest(c, "invalid service line id")
	}

	line, err := h.bookingService.ConfirmServiceDelivery(c.Context(), id, uint(lineID))
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"service": line})
}

func (h *BookingHandler) Approve(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	var input struct {
		Approved bool   `json:"approved"`
		Note     string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	b, err := h.bookingService.Approve(c.Context(), id, input.Approved, input.Note)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"booking": b})
}

func (h *BookingHandler) CheckIn(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	b, err := h.bookingService.CheckIn(c.Context(), id)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"booking": b})
}

// GetBill previews the current checkout bill without settling anything.
func (h *BookingHandler) GetBill(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	bill, err := h.settlementService.ComputeBill(c.Context(), id)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"bill": bill})
}

func (h *BookingHandler) CheckOut(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	var input struct {
		PaymentOption string `json:"payment_option"`
		Note          string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.PaymentOption == "" {
		input.PaymentOption = settlement.OptionUseBonus
	}

	b, err := h.settlementService.Settle(c.Context(), id, input.PaymentOption, input.Note)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"booking": b})
}

func (h *BookingHandler) GetInvoice(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := bookingID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid booking id")
	}

	invoice, err := h.settlementService.Invoice(c.Context(), id)
	if err != nil {
		return utils.Error(c, err)
	}
	if invoice.UserID != claims.UserID && !claims.IsAdmin() {
		return utils.NotFound(c, "invoice not found")
	}

	return utils.Success(c, fiber.Map{"invoice": invoice})
}

func bookingID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
