package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"beasiswaku_backend/internals/configs"
	database "beasiswaku_backend/internals/databases"
	scheduler "beasiswaku_backend/internals/features/users/auth/scheduler"
	"beasiswaku_backend/internals/helpers/storage"
	middlewares "beasiswaku_backend/internals/middlewares"
	authMiddleware "beasiswaku_backend/internals/middlewares/auth"
	loggerMiddleware "beasiswaku_backend/internals/middlewares/logger"
	"beasiswaku_backend/internals/notifier"
	"beasiswaku_backend/internals/ratelimit"
	routes "beasiswaku_backend/internals/route"
	"beasiswaku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	// ⚙️ middleware dasar + performa
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(loggerMiddleware.LoggerMiddleware())
	app.Use(middlewares.GlobalRateLimiter())

	// 🔎 Request-ID + timeout guard (selaras dengan statement_timeout di DB)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	// 🔌 DB connect + pool + migrasi + seed
	database.ConnectDB()
	database.TunePool()
	database.Migrate()
	seeds.RunAllSeeds(database.DB)

	// ⏱ pembersihan token blacklist setelah DB siap
	scheduler.StartBlacklistCleanupScheduler(database.DB)

	// 📨 Kafka producer untuk event email & notifikasi (nil-safe bila broker kosong)
	producer := notifier.NewProducer(
		configs.GetEnv("KAFKA_BROKER"),
		configs.GetEnv("KAFKA_TOPIC", "beasiswaku-notifications"),
		configs.GetEnv("KAFKA_USERNAME"),
		configs.GetEnv("KAFKA_PASSWORD"),
	)

	// 📬 consumer email berjalan di proses yang sama bila SMTP dikonfigurasi
	if configs.GetEnv("SMTP_HOST") != "" && configs.GetEnv("KAFKA_BROKER") != "" {
		mail := notifier.NewMailService(
			configs.GetEnv("SMTP_HOST"),
			configs.GetEnv("SMTP_PORT", "587"),
			configs.GetEnv("SMTP_USER"),
			configs.GetEnv("SMTP_PASS"),
			configs.GetEnv("SMTP_FROM"),
			configs.GetEnv("SMTP_FROM_NAME", "Beasiswaku"),
			configs.GetEnv("APP_BASE_URL", "http://localhost:3000"),
		)
		consumer := notifier.NewConsumer(
			configs.GetEnv("KAFKA_BROKER"),
			configs.GetEnv("KAFKA_TOPIC", "beasiswaku-notifications"),
			configs.GetEnv("KAFKA_GROUP_ID", "beasiswaku-mailer"),
			configs.GetEnv("KAFKA_USERNAME"),
			configs.GetEnv("KAFKA_PASSWORD"),
			mail,
		)
		go consumer.Listen()
	}

	// 🗄 Supabase Storage untuk upload berkas & foto profil
	st := storage.NewClient(
		configs.GetEnv("SUPABASE_URL"),
		configs.GetEnv("SUPABASE_SERVICE_KEY"),
		configs.GetEnv("SUPABASE_BUCKET", "beasiswaku"),
	)

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, &routes.Deps{
		Limiter:  ratelimit.New(5, 15*time.Minute),
		Producer: producer,
		Storage:  st,
		Claims:   authMiddleware.NewClaimCache(),
	})

	// 🔒 timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
