// Package routes defines the API routing configuration. It wires the
// repositories, services and handlers together and groups routes by
// authentication requirement.
package routes

import (
	"stayhub/internal/config"
	"stayhub/internal/handlers"
	"stayhub/internal/middleware"
	"stayhub/internal/repositories"
	"stayhub/internal/repositories/cache"
	"stayhub/internal/services/booking"
	"stayhub/internal/services/catalog"
	"stayhub/internal/services/deposit"
	"stayhub/internal/services/ledger"
	"stayhub/internal/services/notification"
	"stayhub/internal/services/promotion"
	"stayhub/internal/services/settlement"
	"stayhub/internal/services/withdrawal"
	"stayhub/internal/utils/keylock"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.CacheService) {
	store := repositories.NewStore(db)
	notifier := notification.NewService()

	ledgerService := ledger.NewService(store, cacheService, &ledger.NoopMetricsCollector{})
	promotionService := promotion.NewService(store)
	depositService := deposit.NewService(
		store,
		ledgerService,
		promotionService,
		notifier,
		config.GetInt64Env("DEPOSIT_MIN_AMOUNT", 0),
	)
	withdrawalService := withdrawal.NewService(
		store,
		ledgerService,
		notifier,
		config.GetDurationEnv("WITHDRAWAL_TOKEN_TTL", withdrawal.DefaultTokenTTL),
	)

	inventory := catalog.NewClient(
		config.GetEnv("INVENTORY_SERVICE_URL", "http://localhost:8081"),
		cacheService,
	)

	// Booking and settlement share one keyed mutex so checkout serializes
	// with every other transition for the same booking.
	bookingLocks := keylock.New()
	policy := booking.DepositPolicy{
		Type:  config.GetEnv("DEPOSIT_POLICY_TYPE", ""),
		Value: config.GetInt64Env("DEPOSIT_POLICY_VALUE", 0),
	}
	bookingService := booking.NewService(store, ledgerService, inventory, inventory, notifier, policy, bookingLocks)
	settlementService := settlement.NewService(store, ledgerService, notifier, bookingLocks)

	walletHandler := handlers.NewWalletHandler(ledgerService)
	depositHandler := handlers.NewDepositHandler(depositService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	promotionHandler := handlers.NewPromotionHandler(promotionService)
	bookingHandler := handlers.NewBookingHandler(bookingService, settlementService)

	authMiddleware := middleware.NewAuthMiddleware()

	// Public routes
	app.Get("/health", handlers.HealthCheck)
	app.Get("/api/promotions/preview", promotionHandler.Preview)
	app.Post("/api/withdrawals/:id/confirm", withdrawalHandler.Confirm)

	// Authenticated routes
	api := app.Group("/api", authMiddleware.Handler)

	wallet := api.Group("/wallet")
	wallet.Get("/", walletHandler.GetWallet)
	wallet.Get("/transactions", walletHandler.GetTransactions)

	deposits := api.Group("/deposits")
	deposits.Post("/", depositHandler.Submit)
	deposits.Get("/", depositHandler.ListMine)

	withdrawals := api.Group("/withdrawals")
	withdrawals.Post("/", withdrawalHandler.Create)
	withdrawals.Get("/", withdrawalHandler.ListMine)

	bookings := api.Group("/bookings")
	bookings.Post("/", bookingHandler.Create)
	bookings.Get("/", bookingHandler.ListMine)
	bookings.Get("/:id", bookingHandler.Get)
	bookings.Post("/:id/pay-deposit", bookingHandler.PayDeposit)
	bookings.Post("/:id/proof", bookingHandler.UploadProof)
	bookings.Post("/:id/cancel", bookingHandler.Cancel)
	bookings.Get("/:id/invoice", bookingHandler.GetInvoice)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminAuthMiddleware)

	admin.Post("/deposits", depositHandler.AdminCreate)
	admin.Get("/deposits/pending", depositHandler.ListPending)
	admin.Put("/deposits/:id/process", depositHandler.Process)

	admin.Post("/withdrawals", withdrawalHandler.AdminCreate)
	admin.Get("/withdrawals", withdrawalHandler.ListByStatus)
	admin.Put("/withdrawals/:id/process", withdrawalHandler.Process)

	admin.Post("/promotions", promotionHandler.Create)
	admin.Get("/promotions", promotionHandler.List)
	admin.Get("/promotions/:id", promotionHandler.Get)
	admin.Put("/promotions/:id", promotionHandler.Update)
	admin.Patch("/promotions/:id/active", promotionHandler.SetActive)

	admin.Put("/bookings/:id/approve", bookingHandler.Approve)
	admin.Post("/bookings/:id/checkin", bookingHandler.CheckIn)
	admin.Get("/bookings/:id/bill", bookingHandler.GetBill)
	admin.Post("/bookings/:id/checkout", bookingHandler.CheckOut)
	admin.Post("/bookings/:id/services", bookingHandler.AddService)
	admin.Post("/bookings/:id/services/:lineID/confirm", bookingHandler.ConfirmServiceDelivery)
}
