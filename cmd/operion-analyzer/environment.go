package main

import (
	"context"
	"log/slog"

	"github.com/dukex/operion-analyzer/pkg/cmd"
	"github.com/dukex/operion-analyzer/pkg/eventbus"
	"github.com/dukex/operion-analyzer/pkg/log"
	"github.com/dukex/operion-analyzer/pkg/registry"
	"github.com/dukex/operion-analyzer/pkg/services"
	cli "github.com/urfave/cli/v3"
)

// environment holds the collaborators built from the root flags.
type environment struct {
	logger   *slog.Logger
	registry *registry.Registry
	eventBus eventbus.EventBus
	analysis *services.Analysis
	closers  []func(context.Context) error
}

func newEnvironment(ctx context.Context, command *cli.Command, module string, opts ...services.Option) (*environment, error) {
	log.Setup(command.String("log-level"))

	env := &environment{logger: log.WithModule(module)}

	reg, err := cmd.NewRegistry(env.logger, command.String("specs"))
	if err != nil {
		return nil, err
	}

	env.registry = reg

	c, err := cmd.NewCache(command.String("cache-url"), env.logger)
	if err != nil {
		return nil, err
	}

	if c != nil {
		env.closers = append(env.closers, func(context.Context) error { return c.Close() })
		opts = append(opts, services.WithCache(c))
	}

	tracer, shutdown, err := cmd.NewTracer(ctx, command.Bool("otel"), serviceName)
	if err != nil {
		env.close(ctx)

		return nil, err
	}

	env.closers = append(env.closers, shutdown)

	bus, err := cmd.NewEventBus(command.String("event-bus"), env.logger)
	if err != nil {
		env.close(ctx)

		return nil, err
	}

	if bus != nil {
		env.eventBus = bus
		env.closers = append(env.closers, func(context.Context) error { return bus.Close() })
		opts = append(opts, services.WithPublisher(bus))
	}

	opts = append([]services.Option{services.WithLogger(env.logger), services.WithTracer(tracer)}, opts...)
	env.analysis = services.NewAnalysis(reg, opts...)

	return env, nil
}

// close releases collaborators in reverse order of creation.
func (e *environment) close(ctx context.Context) {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](ctx); err != nil {
			e.logger.ErrorContext(ctx, "Failed to release resource", "error", err)
		}
	}
}
