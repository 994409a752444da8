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
	"golang.org/x/sync/errgroup"

	api "github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	_ "github.com/rpupo63/portfolio-backend/docs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

//go:generate swag init --parseDependency --output docs

// @title           Portfolio Backend API
// @version         1.0
// @description     Content backend for a personal portfolio site: accounts, projects, blog posts, career records and image uploads.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	env := config.New()
	cfg := config.Load(env)
	setupLogger(cfg)
	log.Info().Str("env", cfg.Env).Str("dbType", cfg.Database.Type).Msg("Initializing app...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Auth.JWTSecretParam != "" {
		store, err := config.NewParameterStore(ctx, config.GetString(env, "AWS_REGION", cfg.Media.Region))
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating parameter store client")
		}
		if err := config.ResolveSecrets(ctx, &cfg, store); err != nil {
			log.Fatal().Err(err).Msg("Error resolving secrets")
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	// If generating query helpers, run generation and exit
	if cfg.GenerateQueries {
		log.Info().Msg("Generating query helpers...")
		if err := models.GenerateQueries(db, "./generated"); err != nil {
			log.Fatal().Err(err).Msg("Error generating query helpers")
		}
		return
	}

	currentDB := database.New(db)

	var imageStore *services.S3ImageStore
	if cfg.Media.Bucket != "" {
		imageStore, err = services.NewS3ImageStore(ctx, cfg.Media)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating image store")
		}
	} else {
		log.Warn().Msg("MEDIA_BUCKET not set; image uploads will fail")
	}

	if err := checkDependencies(ctx, currentDB, imageStore); err != nil {
		log.Fatal().Err(err).Msg("Startup checks failed")
	}

	identity, err := services.NewIdentityService(currentDB.UserRepo(), cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating identity service")
	}

	var media *services.MediaService
	if imageStore != nil {
		media = services.NewMediaService(imageStore, cfg.Media)
	} else {
		media = services.NewMediaService(nil, cfg.Media)
	}

	// Start and listenToInterrupt both send once; neither may block after shutdown.
	errChannel := make(chan error, 2)

	server, err := api.NewServer(cfg, currentDB, identity, media)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogger configures the global zerolog logger; development gets a console writer.
func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// checkDependencies pings the database and the image store concurrently.
func checkDependencies(ctx context.Context, db database.Database, store *services.S3ImageStore) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		return nil
	})
	if store != nil {
		g.Go(func() error {
			if err := store.Check(ctx); err != nil {
				return fmt.Errorf("image store: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
