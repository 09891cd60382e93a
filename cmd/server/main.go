package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cinephile/internal/assets"
	"cinephile/internal/config"
	"cinephile/internal/database"
	"cinephile/internal/handlers"
	"cinephile/internal/puzzle"
	"cinephile/internal/repository"
	"cinephile/internal/security"
	"cinephile/internal/service"
	"cinephile/internal/tmdb"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

// version is stamped at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	migrationsDir := filepath.Join(cfg.MigrationsPath, db.Dialect.MigrationsSubdir())
	if err := db.RunMigrations(migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the genre reference table
	if err := db.SeedGenres(); err != nil {
		log.Printf("Warning: Failed to seed genres: %v", err)
	}

	// Initialize repositories
	playerRepo := repository.NewPlayerRepository(db)
	stateRepo := repository.NewStateRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Metadata collaborator and pool source
	tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey)

	var pools puzzle.PoolSource
	var refreshPools handlers.PoolRefresher
	if cfg.PoolSnapshotPath != "" {
		snapshot, err := puzzle.LoadSnapshot(cfg.PoolSnapshotPath)
		if err != nil {
			log.Fatalf("Failed to load pool snapshot: %v", err)
		}
		pools = snapshot
		log.Printf("Serving pools from snapshot: %s", cfg.PoolSnapshotPath)
	} else {
		live := puzzle.NewLivePoolSource(tmdbClient, puzzle.DefaultPoolConfig())
		pools = live
		refreshPools = func(r *http.Request) error {
			for _, genre := range puzzle.CuratedGenres {
				if _, err := live.PoolForGenre(r.Context(), genre.ID); err != nil {
					return err
				}
			}
			return nil
		}
	}

	assembler := puzzle.NewAssembler(pools, tmdbClient)

	// Mirror puzzle imagery into local static storage so pages never
	// hotlink the metadata provider's CDN. The loop re-warms hourly,
	// which also covers the puzzle change at UTC midnight.
	if err := os.MkdirAll(cfg.PosterCacheDir, 0o755); err != nil {
		log.Fatalf("Failed to create poster cache directory: %v", err)
	}
	posterCache := assets.NewPosterCache(cfg.PosterCacheDir, nil)
	warmCtx, stopWarming := context.WithCancel(context.Background())
	defer stopWarming()
	go posterCache.WarmLoop(warmCtx, time.Hour, assembler.Daily)

	// Initialize services
	gameService := service.NewGameService(stateRepo)
	endlessService := service.NewEndlessService(stateRepo)
	backupService := service.NewBackupService(db)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(30, time.Minute)
	middleware := handlers.NewMiddleware(playerRepo, limiter, cfg.SessionDuration)
	authHandler := handlers.NewAuthHandler(playerRepo, oauthProviders, cfg.AppBaseURL, cfg.SessionDuration)
	puzzleHandler := handlers.NewPuzzleHandler(assembler)
	searchHandler := handlers.NewSearchHandler(tmdbClient)
	gameHandler := handlers.NewGameHandler(gameService, assembler)
	endlessHandler := handlers.NewEndlessHandler(endlessService, assembler)
	shareHandler := handlers.NewShareHandler(gameService, emailService, settingsRepo, assembler, cfg.AppBaseURL)
	adminHandler := handlers.NewAdminHandler(db, settingsRepo, backupService, refreshPools, cfg.AdminTokenHash, version)

	// Setup routes
	mux := http.NewServeMux()

	// Static files, with the poster mirror served from wherever the
	// warm loop writes it
	mux.Handle("GET /static/posters/", http.StripPrefix("/static/posters/", http.FileServer(http.Dir(cfg.PosterCacheDir))))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("./static"))))

	// Puzzle and search
	mux.HandleFunc("GET /api/daily-puzzle", puzzleHandler.GetDailyPuzzle)
	mux.HandleFunc("GET /api/search", middleware.RateLimit(searchHandler.Search))

	// Daily games
	mux.HandleFunc("GET /api/state", middleware.WithPlayer(gameHandler.GetState))
	mux.HandleFunc("POST /api/guess", middleware.WithPlayer(middleware.RateLimit(gameHandler.SubmitGuess)))
	mux.HandleFunc("POST /api/skip", middleware.WithPlayer(gameHandler.Skip))

	// Endless runs
	mux.HandleFunc("POST /api/endless/{mode}/start", middleware.WithPlayer(endlessHandler.Start))
	mux.HandleFunc("GET /api/endless/{mode}", middleware.WithPlayer(endlessHandler.GetRun))
	mux.HandleFunc("POST /api/endless/{mode}/guess", middleware.WithPlayer(middleware.RateLimit(endlessHandler.SubmitGuess)))
	mux.HandleFunc("POST /api/endless/{mode}/next", middleware.WithPlayer(endlessHandler.Next))

	// Sharing
	mux.HandleFunc("POST /api/share/email", middleware.WithPlayer(middleware.RateLimit(shareHandler.EmailResults)))
	mux.HandleFunc("GET /api/share/qr", shareHandler.QRCode)

	// Account sync
	mux.HandleFunc("GET /api/auth/providers", authHandler.ListProviders)
	mux.HandleFunc("GET /api/profile", middleware.WithPlayer(authHandler.GetProfile))
	mux.HandleFunc("POST /api/profile/name", middleware.WithPlayer(authHandler.UpdateDisplayName))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)

	// Operator routes
	mux.HandleFunc("GET /health", adminHandler.Health)
	mux.HandleFunc("GET /api/health", adminHandler.Health)
	mux.HandleFunc("POST /admin/pools/refresh", adminHandler.RequireToken(adminHandler.RefreshPools))
	mux.HandleFunc("POST /admin/share", adminHandler.RequireToken(adminHandler.SetShareEnabled))
	mux.HandleFunc("GET /admin/backup/export", adminHandler.RequireToken(adminHandler.ExportBackup))
	mux.HandleFunc("POST /admin/backup/import", adminHandler.RequireToken(adminHandler.ImportBackup))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
