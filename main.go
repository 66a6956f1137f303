package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/realestate-site/api"
	"github.com/rpupo63/realestate-site/backend"
	"github.com/rpupo63/realestate-site/catalog"
	"github.com/rpupo63/realestate-site/config"
	"github.com/rpupo63/realestate-site/database"
	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/geo"
	"github.com/rpupo63/realestate-site/media"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/seo"
	"github.com/rpupo63/realestate-site/services"
	"github.com/rpupo63/realestate-site/session"
	"github.com/rpupo63/realestate-site/web"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()
	setupLogging(cfg)

	ctx := context.Background()
	if err := config.LoadSSM(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Error loading SSM parameters")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		requireDB(db)
		fmt.Println("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
		requireDB(db)
		fmt.Println("Generating column mismatch report...")
		if _, err := models.GenerateColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	deps, err := buildDependencies(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Error wiring dependencies")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Err(fatalErr).Msg("Closing server")

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(cfg map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(cfg, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.IsDevelopment(cfg) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func requireDB(db *gorm.DB) {
	if db == nil {
		log.Fatal().Msg("DB_TYPE must be set to generate models")
	}
}

func buildDependencies(ctx context.Context, cfg map[string]string, db *gorm.DB) (api.Dependencies, error) {
	dev := config.IsDevelopment(cfg)

	client := backend.New(
		config.GetString(cfg, "BACKEND_API_URL", "http://localhost:4000"),
		backend.WithServiceToken(config.GetString(cfg, "BACKEND_API_TOKEN", "")),
		backend.WithTimeout(config.GetSeconds(cfg, "BACKEND_TIMEOUT_SECONDS", 10)),
	)

	var sam catalog.SamSource = client
	if config.GetString(cfg, "SAM_SOURCE", "mock") == "mock" {
		mock, err := catalog.NewMockSamSource()
		if err != nil {
			return api.Dependencies{}, err
		}
		sam = mock
		log.Info().Msg("Serving the sam catalog from embedded mock data")
	}

	resolver, err := media.FromConfig(ctx, cfg)
	if err != nil {
		return api.Dependencies{}, err
	}

	siteURL := config.GetString(cfg, "SITE_URL", "http://localhost:8080")
	renderer, err := web.NewRenderer(web.Options{
		Media:        resolver,
		SiteURL:      siteURL,
		FontPreloads: config.GetStrings(cfg, "FONT_PRELOADS"),
		Development:  dev,
	})
	if err != nil {
		return api.Dependencies{}, err
	}

	secret := config.GetString(cfg, "SESSION_SECRET", "")
	if secret == "" {
		if !dev {
			return api.Dependencies{}, errs.NewConfigError("SESSION_SECRET")
		}
		secret = "development-only-secret"
		log.Warn().Msg("SESSION_SECRET not set, using the development secret")
	}

	deps := api.Dependencies{
		Content:  client,
		Auth:     client,
		Sam:      sam,
		Renderer: renderer,
		Sessions: session.NewStore(secret, !dev),
		Notifier: services.NewNotifier(cfg),
		Site: seo.Site{
			Name:    web.SiteName,
			URL:     siteURL,
			Logo:    "/static/img/favicon.svg",
			Phone:   config.GetString(cfg, "SITE_PHONE", ""),
			Email:   config.GetString(cfg, "SITE_EMAIL", ""),
			Socials: config.GetStrings(cfg, "SITE_SOCIALS"),
		},
	}

	// GEOCODER_URL=off disables maps on project pages.
	if endpoint := config.GetString(cfg, "GEOCODER_URL", ""); endpoint != "off" {
		deps.Geocoder = geo.New(endpoint, geo.WithUserAgent(config.GetString(cfg, "GEOCODER_USER_AGENT", "")))
	}

	if db != nil {
		deps.Inquiries = database.New(db).ContactInquiryRepo()
	} else {
		log.Warn().Msg("DB_TYPE not set, contact inquiries are forwarded but not stored")
	}

	return deps, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
