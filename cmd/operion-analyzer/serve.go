package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dukex/operion-analyzer/pkg/eventbus"
	"github.com/dukex/operion-analyzer/pkg/events"
	"github.com/dukex/operion-analyzer/pkg/log"
	"github.com/dukex/operion-analyzer/pkg/services"
	"github.com/dukex/operion-analyzer/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9092

type API struct {
	logger   *slog.Logger
	analysis *services.Analysis
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, analysis *services.Analysis) *API {
	return &API{
		logger:   logger,
		analysis: analysis,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.analysis, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Operion Analyzer")
	})

	handlers.RegisterRoutes(app)

	return app
}

func (a *API) Start(port int) error {
	a.logger.Info("Starting analysis API", "port", port)

	return a.App().Listen(":" + strconv.Itoa(port))
}

func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve the analysis HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := newEnvironment(ctx, command, "api")
			if err != nil {
				return err
			}
			defer env.close(ctx)

			env.logger.InfoContext(ctx, "Initializing Operion Analyzer API")

			if env.eventBus != nil {
				if err := watchAnalyses(ctx, env.eventBus); err != nil {
					return err
				}
			}

			return NewAPI(env.logger, env.analysis).Start(command.Int("port"))
		},
	}
}

// watchAnalyses logs every analysis event seen on the bus.
func watchAnalyses(ctx context.Context, bus eventbus.EventBus) error {
	err := bus.Handle(events.AnalysisCompletedEvent, func(ctx context.Context, event eventbus.Event) error {
		completed, ok := event.(*events.AnalysisCompleted)
		if !ok {
			return nil
		}

		log.FromContext(ctx).InfoContext(ctx, "Workflow analyzed",
			"workflow_id", completed.WorkflowID,
			"fingerprint", completed.Fingerprint,
			"valid", completed.Valid,
			"cached", completed.Cached,
			"errors", completed.Errors,
			"warnings", completed.Warnings,
			"duration", completed.Duration,
		)

		return nil
	})
	if err != nil {
		return err
	}

	err = bus.Handle(events.AnalysisFailedEvent, func(ctx context.Context, event eventbus.Event) error {
		if failed, ok := event.(*events.AnalysisFailed); ok {
			log.FromContext(ctx).WarnContext(ctx, "Workflow rejected", "error", failed.Error)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return bus.Subscribe(ctx)
}
