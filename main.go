package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artistsagainsttaupe/api/internal/handler"
	"github.com/artistsagainsttaupe/api/internal/imagestore"
	"github.com/artistsagainsttaupe/api/internal/mailer"
	"github.com/artistsagainsttaupe/api/internal/repository/sqlite"
	"github.com/artistsagainsttaupe/api/internal/service"
	"github.com/artistsagainsttaupe/api/internal/verify"
	"github.com/joho/godotenv"
)

func main() {
	// Local development reads a .env file; deployed environments set
	// real environment variables.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "taupe.db")
	allowedOrigin := envOrDefault("ALLOWED_ORIGIN", "https://artistsagainsttaupe.com")
	deliveryHost := envOrDefault("IMAGES_DELIVERY_HOST", "imagedelivery.net")

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		slog.Error("ADMIN_TOKEN environment variable is required")
		os.Exit(1)
	}
	adminPasswordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPasswordHash == "" && adminPassword == "" {
		slog.Error("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD is required")
		os.Exit(1)
	}

	accountID := os.Getenv("IMAGES_ACCOUNT_ID")
	apiToken := os.Getenv("IMAGES_API_TOKEN")
	accountHash := os.Getenv("IMAGES_ACCOUNT_HASH")
	if accountID == "" || apiToken == "" || accountHash == "" {
		slog.Error("IMAGES_ACCOUNT_ID, IMAGES_API_TOKEN, and IMAGES_ACCOUNT_HASH are required")
		os.Exit(1)
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	store := imagestore.New(accountID, apiToken, accountHash, deliveryHost)
	extractor := service.NewRefExtractor(deliveryHost)

	var verifier service.Verifier
	if secret := os.Getenv("TURNSTILE_SECRET_KEY"); secret != "" {
		verifier = verify.New(secret)
	}

	var mail *mailer.Client
	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		mail = mailer.New(key)
	} else {
		slog.Warn("RESEND_API_KEY not set; contact form submissions will fail")
		mail = mailer.New("")
	}

	authService := service.NewAuthService(adminToken, adminPasswordHash, adminPassword)
	postService := service.NewPostService(db.Posts(), db.ImageReferences(), store, extractor)
	galleryService := service.NewGalleryService(db.Galleries(), db.GalleryImages(), db.ImageReferences(), store)
	contactService := service.NewContactService(
		mail,
		verifier,
		envOrDefault("CONTACT_FROM", "contact@artistsagainsttaupe.com"),
		os.Getenv("CONTACT_TO"),
	)

	// Login attempts: burst of 5 per IP, refilling one every ~12s.
	loginLimiter := service.NewLoginLimiter(5.0/60.0, 5)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, postService, galleryService, contactService, store, loginLimiter)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.SecurityHeaders(handler.CORS(allowedOrigin, mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
