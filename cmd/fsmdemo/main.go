// Command fsmdemo walks a three-phase state machine through
// Init, Running and Ending. Each phase does timer-backed work in its hooks and
// advances the machine itself once the work is done.
//
// Configuration is read from the environment (or a .env file):
//
//	APP_ENV          development | staging | production (default development)
//	STEP_DELAY       time spent in each phase (default 500ms)
//	DISPOSE_TIMEOUT  deadline for exit hooks at shutdown (default 5s)
//	REDIS_URL        optional; when set, transitions are published to Redis
//	REDIS_CHANNEL    pub/sub channel for transition records (default fsm:transitions)
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/fsmkit/pkg/broadcast"
	"github.com/dmitrymomot/fsmkit/pkg/config"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/redis"
	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	StepDelay      time.Duration `env:"STEP_DELAY" envDefault:"500ms"`
	DisposeTimeout time.Duration `env:"DISPOSE_TIMEOUT" envDefault:"5s"`
	Redis          redis.Config
}

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(logger.WithEnvironment(logger.ParseEnvironment(cfg.Env), "fsmdemo"))
	logger.SetAsDefault(l)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, l); err != nil && !errors.Is(err, context.Canceled) {
		l.Error("fsmdemo failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, l *slog.Logger) error {
	feed := broadcast.NewMemoryBroadcaster[statemachine.Change[phase]](16)

	machine, err := newMachine(cfg.StepDelay, l,
		statemachine.WithName("fsmdemo"),
		statemachine.WithBroadcaster[phase](feed),
	)
	if err != nil {
		return err
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := redis.Healthcheck(client)(ctx); err != nil {
			return err
		}
		machine.Subscribe(redis.ChangePublisher[phase](client, cfg.Redis.Channel, machine.Name()))
		l.InfoContext(ctx, "publishing transitions", logger.Component("redis"), slog.String("channel", cfg.Redis.Channel))
	}

	g, gctx := errgroup.WithContext(ctx)
	sub := feed.Subscribe(gctx)

	g.Go(func() error {
		return watch(gctx, sub, l.With(logger.Component("watcher")))
	})

	g.Go(func() error {
		defer feed.Close()
		return drive(gctx, machine, cfg.DisposeTimeout)
	})

	return g.Wait()
}

// drive starts the machine and disposes it once the states have advanced to
// Ending or the context is cancelled.
func drive(ctx context.Context, machine *statemachine.Machine[phase], disposeTimeout time.Duration) error {
	startErr := machine.Start(ctx)

	// ctx may already be cancelled; exit hooks still need time to run.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disposeTimeout)
	defer cancel()

	return errors.Join(startErr, machine.Dispose(dctx))
}

// watch logs every change delivered to sub until the feed is closed.
func watch(ctx context.Context, sub broadcast.Subscriber[statemachine.Change[phase]], l *slog.Logger) error {
	defer sub.Close()

	for msg := range sub.Receive() {
		change := msg.Data
		args := []any{logger.Machine(change.Machine), logger.State(change.To)}
		if !change.Initial {
			args = append(args, logger.PreviousState(change.From))
		}
		l.InfoContext(ctx, "observed transition", args...)
	}

	if n := sub.Dropped(); n > 0 {
		l.WarnContext(ctx, "missed transitions", slog.Uint64("dropped", n))
	}
	return nil
}
