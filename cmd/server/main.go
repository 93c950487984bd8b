package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"wedding-backend/internal/auth"
	"wedding-backend/internal/config"
	"wedding-backend/internal/database"
	"wedding-backend/internal/db"
	"wedding-backend/internal/handlers"
	"wedding-backend/internal/health"
	weddinghttp "wedding-backend/internal/http"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/models"
	"wedding-backend/internal/realtime"
	"wedding-backend/internal/repositories"
	"wedding-backend/internal/services"
	"wedding-backend/migrations"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	seedAdmin := flag.String("seed-admin", "", "Create an admin user (email:password) and exit")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx := context.Background()

	migrator := database.NewMigrator(pool, migrations.FS)
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	userRepo := repositories.NewUserRepository(pool)

	if *seedAdmin != "" {
		if err := seedAdminUser(ctx, userRepo, *seedAdmin); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
		log.Println("Admin user created")
		return
	}

	// Repositories
	householdRepo := repositories.NewHouseholdRepository(pool)
	guestRepo := repositories.NewGuestRepository(pool)
	eventRepo := repositories.NewEventRepository(pool)
	guestEventRepo := repositories.NewGuestEventRepository(pool)
	contributionRepo := repositories.NewContributionRepository(pool)
	auditRepo := repositories.NewAuditLogRepository(pool)

	// Realtime feed for the admin dashboard
	hub := realtime.NewHub()

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	householdService := services.NewHouseholdService(householdRepo, guestRepo, auditRepo, hub)
	invitationService := services.NewInvitationService(householdRepo, auditRepo)
	guestService := services.NewGuestService(guestRepo, householdRepo, auditRepo, hub)
	eventService := services.NewEventService(eventRepo, hub)
	rsvpService := services.NewRSVPService(householdRepo, guestRepo, guestEventRepo, invitationService, hub)
	rosterService := services.NewRosterService(householdService, householdRepo, guestRepo,
		guestEventRepo, eventRepo, auditRepo, hub)
	contributionService := services.NewContributionService(contributionRepo)

	photoStorage, photoDir := buildPhotoStorage(ctx, cfg)
	photoService := services.NewPhotoService(photoStorage)

	if err := ensurePrimaryEvent(ctx, eventRepo, cfg.Wedding.PrimaryEventName); err != nil {
		log.Fatalf("Failed to ensure primary event: %v", err)
	}

	// Admin session cache: role determinations stay valid for the TTL, so
	// per-request authorization does not hit the database
	adminCache := auth.NewAdminCache(userRepo.GetRole, cfg.Admin.CacheTTL, cfg.Admin.CheckTimeout)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, adminCache)

	healthChecker := health.NewHealthChecker(pool)

	router := weddinghttp.NewRouter(weddinghttp.Handlers{
		Auth:         handlers.NewAuthHandler(userService, auditRepo, adminCache),
		Household:    handlers.NewHouseholdHandler(householdService),
		Guest:        handlers.NewGuestHandler(guestService),
		Event:        handlers.NewEventHandler(eventService),
		RSVP:         handlers.NewRSVPHandler(rsvpService),
		Roster:       handlers.NewRosterHandler(rosterService),
		Contribution: handlers.NewContributionHandler(contributionService),
		Photo:        handlers.NewPhotoHandler(photoService),
		AuditLog:     handlers.NewAuditLogHandler(auditRepo),
		Health:       handlers.NewHealthHandler(healthChecker),
	}, authMiddleware, hub, photoDir)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.HTTPSRedirect(
		middleware.SecurityHeaders(
			corsMiddleware(
				middleware.GzipCompression(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Wedding backend listening on %s (photos: %s)", addr, photoStorage.Name())
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildPhotoStorage selects the photo backend. Local storage also returns its
// directory so the router can serve it statically.
func buildPhotoStorage(ctx context.Context, cfg *config.Config) (services.PhotoStorage, string) {
	if cfg.Storage.Backend == "s3" {
		storage, err := services.NewS3PhotoStorage(ctx,
			cfg.Storage.S3Endpoint, cfg.Storage.S3AccessKey, cfg.Storage.S3SecretKey,
			cfg.Storage.S3Bucket, cfg.Storage.S3Region, cfg.Storage.PublicBaseURL)
		if err != nil {
			log.Fatalf("Failed to configure S3 photo storage: %v", err)
		}
		return storage, ""
	}
	local := services.NewLocalPhotoStorage(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	return local, local.BaseDir()
}

// ensurePrimaryEvent creates the configured primary wedding event on first
// boot so roster uploads always have a primary event to attach guests to
func ensurePrimaryEvent(ctx context.Context, repo *repositories.EventRepository, name string) error {
	primary, err := repo.GetPrimary(ctx)
	if err != nil {
		return err
	}
	if primary != nil {
		return nil
	}
	log.Printf("No primary event found, creating %q", name)
	return repo.Create(ctx, &models.Event{Name: name, IsPrimary: true})
}

func seedAdminUser(ctx context.Context, repo *repositories.UserRepository, spec string) error {
	email, password, ok := strings.Cut(spec, ":")
	if !ok || email == "" || password == "" {
		return fmt.Errorf("expected email:password, got %q", spec)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return repo.Create(ctx, &models.User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         "admin",
	})
}
