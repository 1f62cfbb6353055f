package river

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riversqlite"
	"github.com/riverqueue/river/rivermigrate"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// Options configures the River client built by Setup.
type Options struct {
	Logger *zap.Logger
	// Store and Clock feed the front-desk digest. The digest is not
	// scheduled when Store is nil or DigestInterval is zero.
	Store          domain.Store
	Clock          domain.Clock
	DigestInterval time.Duration
}

// Migrate runs River's own migrations (river_job, river_leader, etc.). They
// are separate from the booking schema's goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrator, err := rivermigrate.New(riversqlite.New(db), nil)
	if err != nil {
		return fmt.Errorf("creating river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("running river migrations: %w", err)
	}
	return nil
}

// Setup creates a River client with the workers registered and runs River's
// internal migrations. The caller must call client.Start() to begin
// processing jobs and client.Stop() for graceful shutdown.
func Setup(ctx context.Context, db *sql.DB, opts Options) (*Client, error) {
	if err := Migrate(ctx, db); err != nil {
		return nil, err
	}
	driver := riversqlite.New(db)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewEventWorker(logger))

	var periodic []*river.PeriodicJob
	if opts.Store != nil && opts.DigestInterval > 0 {
		clock := opts.Clock
		if clock == nil {
			clock = domain.SystemClock{}
		}
		river.AddWorker(workers, NewDigestWorker(opts.Store, clock, logger))
		periodic = append(periodic, river.NewPeriodicJob(
			river.PeriodicInterval(opts.DigestInterval),
			func() (river.JobArgs, *river.InsertOpts) { return DigestArgs{}, nil },
			nil,
		))
	}

	client, err := river.NewClient(driver, &river.Config{
		Logger: slog.New(zapslog.NewHandler(logger.Core(), zapslog.WithName("river"))),
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 2},
		},
		Workers:      workers,
		PeriodicJobs: periodic,
	})
	if err != nil {
		return nil, fmt.Errorf("creating river client: %w", err)
	}

	return client, nil
}
