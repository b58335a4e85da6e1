package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"movie-explorer/internal/handler"
	"movie-explorer/internal/repository"
	"movie-explorer/internal/service"
	"movie-explorer/internal/tmdb"
)

// Config holds the application configuration
type Config struct {
	TMDBAPIKey     string
	Port           string
	GinMode        string
	DBPath         string
	BackupDir      string
	JWTSecret      string
	AllowedOrigins []string
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	config := loadConfig()
	log.Info().
		Str("port", config.Port).
		Str("db", config.DBPath).
		Msg("starting movie-explorer")

	gin.SetMode(config.GinMode)

	// Initialize database
	db, err := repository.NewSQLiteDB(config.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database schema")
	}

	store := repository.NewKVRepository(db)

	// Initialize TMDB client
	tmdbClient := tmdb.NewClient(config.TMDBAPIKey)

	// Initialize services
	catalogSvc := service.NewCatalogService(tmdbClient, store)
	favoritesSvc := service.NewFavoritesService(store)
	authSvc := service.NewAuthService(store)
	themeSvc := service.NewThemeService(store)
	backupSvc := service.NewBackupService(config.DBPath, config.BackupDir)

	scheduler := service.NewScheduler(backupSvc)
	scheduler.Start()

	// Set up HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.Logging())
	r.Use(handler.CORS(config.AllowedOrigins))

	h := handler.NewHandler(tmdbClient, catalogSvc, favoritesSvc, authSvc, themeSvc, backupSvc, config.JWTSecret)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
	log.Info().Str("addr", srv.Addr).Msg("server listening")

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	origins := []string{}
	if originEnv := os.Getenv("ALLOWED_ORIGINS"); originEnv != "" {
		for _, o := range strings.Split(originEnv, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	config := &Config{
		TMDBAPIKey:     getEnv("TMDB_API_KEY", ""),
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		DBPath:         getEnv("DB_PATH", "movie_explorer.db"),
		BackupDir:      getEnv("BACKUP_DIR", "backups"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: origins,
	}

	if config.TMDBAPIKey == "" {
		log.Warn().Msg("TMDB_API_KEY not set, TMDB API calls will fail")
	}
	if config.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET not set. Set the JWT_SECRET environment variable.")
	}

	return config
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
