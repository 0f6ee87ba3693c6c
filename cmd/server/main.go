package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"sportconnect/internal/api"
	"sportconnect/internal/config"
	"sportconnect/internal/events"
	"sportconnect/internal/payment"
	"sportconnect/internal/repository"
	"sportconnect/internal/s3"
	"sportconnect/internal/service"
	"sportconnect/internal/tracing"
	"sportconnect/internal/verification"
	_ "sportconnect/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	api.SetupGlobalHandler("sportconnect-api")

	shutdownTracer, err := tracing.InitTracerProvider("sportconnect-api")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations(cfg)
		return
	}

	db := connectDB(cfg)
	defer db.Close()

	eventPublisher, err := events.NewNatsPublisher(cfg.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	userRepo := repository.NewPostgresUserRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	tokenRepo := repository.NewPostgresTokenRepository(db)

	engine := verification.NewEngine(buildProber(cfg))

	orders := buildOrderProvider(cfg)
	presigner := buildPresigner(cfg)

	authService := service.NewAuthService(userRepo, tokenRepo)
	verificationService := service.NewVerificationService(userRepo, engine, eventPublisher)
	bookingService := service.NewBookingService(bookingRepo, userRepo, orders, eventPublisher, cfg.RazorpayKeySecret)

	authHandler := api.NewAuthHandler(authService)
	verificationHandler := api.NewVerificationHandler(verificationService, presigner)
	bookingHandler := api.NewBookingHandler(bookingService)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "sportconnect-api"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authHandler.Logout)

	userRoutes := v1.Group("/users")
	userRoutes.Use(api.AuthMiddleware())
	userRoutes.Get("/me", authHandler.GetProfile)

	verificationRoutes := v1.Group("/verification")
	verificationRoutes.Use(api.AuthMiddleware())
	verificationRoutes.Post("/submit", verificationHandler.Submit)
	verificationRoutes.Get("/status", verificationHandler.Status)
	verificationRoutes.Post("/documents/upload-url", verificationHandler.DocumentUploadURL)

	adminVerification := verificationRoutes.Group("", api.AdminMiddleware())
	adminVerification.Get("/pending", verificationHandler.ListPending)
	adminVerification.Get("/all", verificationHandler.ListAll)
	adminVerification.Post("/:id/check", verificationHandler.Check)
	adminVerification.Put("/:id/approve", verificationHandler.Approve)
	adminVerification.Put("/:id/reject", verificationHandler.Reject)

	bookingRoutes := v1.Group("/bookings")
	bookingRoutes.Use(api.AuthMiddleware())
	bookingRoutes.Post("/", bookingHandler.CreateBooking)
	bookingRoutes.Get("/user", bookingHandler.ListMyBookings)
	bookingRoutes.Get("/assigned", bookingHandler.ListAssignedBookings)
	bookingRoutes.Get("/check-availability", bookingHandler.CheckAvailability)
	bookingRoutes.Get("/turf/:turfId", bookingHandler.ListTurfBookings)
	bookingRoutes.Put("/:id/status", bookingHandler.UpdateStatus)
	bookingRoutes.Post("/:id/create-order", bookingHandler.CreatePaymentOrder)
	bookingRoutes.Post("/:id/payment", bookingHandler.ConfirmPayment)

	log.Printf("Listening sportconnect-api on port %s", cfg.AppPort)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func connectDB(cfg *config.Config) *sqlx.DB {
	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func buildProber(cfg *config.Config) verification.Prober {
	prober := verification.Prober(verification.NewHTTPProber())

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		prober = verification.NewCachedProber(prober, client, 15*time.Minute)
		log.Println("Probe results cached in Redis.")
	}

	return prober
}

func buildOrderProvider(cfg *config.Config) payment.OrderProvider {
	orders, err := payment.NewRazorpayProvider(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	if err != nil {
		log.Printf("WARNING: Razorpay not configured, payment orders disabled: %v", err)
		return nil
	}
	return orders
}

func buildPresigner(cfg *config.Config) *s3.DocumentPresigner {
	if cfg.S3Bucket == "" {
		log.Println("WARNING: S3 not configured, document uploads disabled.")
		return nil
	}

	presigner, err := s3.NewDocumentPresigner(s3.PresignerConfig{
		Endpoint:     cfg.S3Endpoint,
		Region:       cfg.AWSRegion,
		BucketName:   cfg.S3Bucket,
		AccessKey:    cfg.AWSAccessKey,
		SecretKey:    cfg.AWSSecretKey,
		UsePathStyle: cfg.S3Endpoint != "",
	})
	if err != nil {
		log.Printf("WARNING: Failed to build S3 presigner, document uploads disabled: %v", err)
		return nil
	}

	return presigner
}

func handleMigrations(cfg *config.Config) {
	log.Println("Running database migrations...")

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	log.Println("Migrations applied successfully!")
}
