package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	// import docs for swagger generation.
	_ "github.com/fi-collar/pet-tracker/docs"
	"github.com/fi-collar/pet-tracker/internal/app"
	"github.com/fi-collar/pet-tracker/internal/client/query"
	"github.com/fi-collar/pet-tracker/internal/client/session"
	"github.com/fi-collar/pet-tracker/internal/client/tokencache"
	"github.com/fi-collar/pet-tracker/internal/config"
	"github.com/fi-collar/pet-tracker/internal/publisher/mqtt"
	"github.com/fi-collar/pet-tracker/internal/signer"
	"github.com/fi-collar/pet-tracker/internal/snapshot"
	"github.com/fi-collar/pet-tracker/internal/tracker"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

// @title Pet Tracker API
// @version 1.0
// @description This is the API documentation for the Pet Tracker service
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
const (
	appName = "pet-tracker"
	// tokenCleanupInterval is how often expired sessions are purged from the cache.
	tokenCleanupInterval = time.Hour
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", appName).Logger()

	cliApp := &cli.App{
		Name:  appName,
		Usage: "track TryFi pets and control their collars",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "poll the pets and serve the HTTP API",
				Action: func(c *cli.Context) error {
					return serve(c.Context, &logger)
				},
			},
			{
				Name:  "status",
				Usage: "load and refresh every pet once and print it as JSON",
				Action: func(c *cli.Context) error {
					return status(c.Context, &logger)
				},
			},
			{
				Name:  "led",
				Usage: "change the LED of a collar",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pet", Usage: "pet id", Required: true},
					&cli.StringFlag{Name: "color", Usage: "LED color code"},
					&cli.StringFlag{Name: "power", Usage: "on or off"},
				},
				Action: func(c *cli.Context) error {
					return led(c.Context, &logger, c.String("pet"), c.String("color"), c.String("power"))
				},
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run command.")
	}
}

type services struct {
	settings config.Settings
	tracker  *tracker.Tracker
	builder  *snapshot.Builder
	cleanup  func()
}

// setup loads the settings and wires the clients, the session cache and the tracker.
func setup(logger *zerolog.Logger, withPublisher bool) (*services, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	*logger = logger.Level(level)

	httpClient := &http.Client{Timeout: settings.HTTPTimeout}

	sessionClient, err := session.NewClient(settings.APIURL, settings.Email, settings.Password, httpClient, logger.With().Str("component", "session").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create session client: %w", err)
	}
	sessions := tokencache.New(settings.SessionTTL, tokenCleanupInterval, sessionClient)

	queryClient, err := query.NewClient(settings.APIURL, httpClient, *logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create query client: %w", err)
	}

	var sign *signer.Signer
	if settings.SigningPrivateKey != "" {
		sign, err = signer.New(settings.SigningPrivateKey)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("producer", sign.Address()).Msg("Signing location snapshots")
	}
	builder := snapshot.NewBuilder(settings.EventSource, sign)

	svc := &services{settings: settings, builder: builder, cleanup: func() {}}
	cfg := tracker.Config{
		SessionKey:  sessionClient.Key(),
		Concurrency: settings.RefreshConcurrency,
		ReloadEvery: settings.ReloadEvery,
	}
	if withPublisher && settings.MQTTBrokerURL != "" {
		publisher, disconnect, err := mqtt.Dial(settings.MQTTBrokerURL, settings.MQTTClientID, settings.MQTTTopicPrefix, builder, *logger)
		if err != nil {
			return nil, err
		}
		cfg.Sink = publisher
		svc.cleanup = disconnect
	}
	svc.tracker = tracker.New(queryClient, sessions, cfg, *logger)
	return svc, nil
}

func serve(ctx context.Context, logger *zerolog.Logger) error {
	svc, err := setup(logger, true)
	if err != nil {
		return err
	}
	defer svc.cleanup()

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Received signal, shutting down...")
	}()

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return svc.tracker.Run(gCtx, svc.settings.PollInterval)
	})

	ctrl := app.NewController(logger, svc.tracker, svc.builder)
	webApp := app.CreateWebServer(logger, ctrl)
	addr := ":" + strconv.Itoa(svc.settings.Port)
	logger.Info().Msgf("Listening on %s", addr)
	RunFiber(gCtx, webApp, addr, group)

	return group.Wait()
}

func status(ctx context.Context, logger *zerolog.Logger) error {
	svc, err := setup(logger, false)
	if err != nil {
		return err
	}
	defer svc.cleanup()

	if err := svc.tracker.Load(ctx); err != nil {
		return err
	}
	if err := svc.tracker.RefreshAll(ctx); err != nil {
		return err
	}
	return printJSON(svc.tracker.Views())
}

func led(ctx context.Context, logger *zerolog.Logger, petID, color, power string) error {
	if (color == "") == (power == "") {
		return errors.New("exactly one of --color or --power is required")
	}
	svc, err := setup(logger, false)
	if err != nil {
		return err
	}
	defer svc.cleanup()

	if err := svc.tracker.Load(ctx); err != nil {
		return err
	}
	var view tracker.PetView
	switch {
	case color != "":
		view, err = svc.tracker.SetLedColor(ctx, petID, color)
	case power == "on":
		view, err = svc.tracker.SetLedPower(ctx, petID, true)
	case power == "off":
		view, err = svc.tracker.SetLedPower(ctx, petID, false)
	default:
		return fmt.Errorf("invalid --power %q, want on or off", power)
	}
	if err != nil {
		return err
	}
	return printJSON(view)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RunFiber runs a fiber server on addr and shuts it down when ctx is done.
func RunFiber(ctx context.Context, fiberApp *fiber.App, addr string, group *errgroup.Group) {
	group.Go(func() error {
		if err := fiberApp.Listen(addr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		if err := fiberApp.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})
}
