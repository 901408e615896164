package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"loyalty-rewards-system/handlers"
	"loyalty-rewards-system/middleware"
	"loyalty-rewards-system/models"
	"loyalty-rewards-system/services"
	"loyalty-rewards-system/utils"
	"loyalty-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Role, Idempotency-Key",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.MemberProfile{},
		&models.PurchaseEvent{},
		&models.RedemptionRecord{},
		&models.ReferralEvent{},
		&models.ProgramSettings{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Seed the settings row so merchants always edit an existing record.
	defaults := models.DefaultProgramSettings()
	if err := db.FirstOrCreate(&defaults, models.ProgramSettings{ID: 1}).Error; err != nil {
		log.Fatal("failed to seed program settings:", err)
	}

	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 disabled, analytics exports will be skipped: %v", err)
	}

	loyaltyService := services.NewLoyaltyService(db)
	gameService := services.NewGameService(db)
	redemptionService := services.NewRedemptionService(db)
	referralService := services.NewReferralService(db)
	analyticsService := services.NewAnalyticsService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// UPI payouts settle asynchronously against the external payout service.
	payoutClient := workers.NewPayoutClient(db)
	go workers.PollPayouts(ctx, payoutClient, 30*time.Second)

	services.StartMaintenanceScheduler(redemptionService, analyticsService)

	handlers.SetupMemberRoutes(app, loyaltyService, referralService)
	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupRewardRoutes(app, redemptionService)
	handlers.SetupReferralRoutes(app, referralService)
	handlers.SetupMerchantRoutes(app, loyaltyService, analyticsService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Loyalty service running on http://localhost:%s", port)
	log.Println("✅ Payout polling running (every 30s)")
	log.Println("✅ Maintenance scheduler running (coupon expiry + nightly analytics export)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
