// Package database owns the connection to the MongoDB document store.
//
// It handles:
//   - building client options from config (URI, pool size, timeouts)
//   - command monitoring: slow and failed command logs, plus New Relic
//     datastore segments through nrmongo when the agent is running
//   - driver logging through zerolog in the local environment
//   - a ping at startup so the process fails fast when the store is down
package database

import (
	"context"
	"fmt"

	"github.com/deppfellow/shopbuilder/internal/config"
	loggerConfig "github.com/deppfellow/shopbuilder/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Database wraps the Mongo client and the application database handle.
//
// Client is shared by every request; the driver pools connections.
// DB is the handle for the configured database name.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zerolog.Logger
}

// New connects to MongoDB with instrumentation and pings it.
//
// Behavior:
//   - Apply the URI, pool size and connect timeout from config
//   - Attach the slow command monitor, wrapped by nrmongo if New Relic is on
//   - In local env: route driver logs through zerolog
//   - Connect, ping within the connect timeout, and return Database
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.Database.URL).
		SetAppName(config.ServiceName).
		SetConnectTimeout(cfg.Database.ConnectTimeout).
		SetServerSelectionTimeout(cfg.Database.ConnectTimeout)

	if cfg.Database.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.Database.MaxPoolSize)
	}

	monitor := NewCommandMonitor(*logger, cfg.Observability.Logging.SlowQueryThreshold)

	// nrmongo wraps our monitor so both run on every command.
	if loggerService != nil && loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}
	clientOptions.SetMonitor(monitor)

	// Very noisy, which is why it's only in local.
	if cfg.IsLocal() {
		level := loggerConfig.GetMongoLogLevel(logger.GetLevel())
		clientOptions.SetLoggerOptions(options.Logger().
			SetSink(loggerConfig.NewMongoLogSink(*logger)).
			SetComponentLevel(options.LogComponentCommand, level).
			SetComponentLevel(options.LogComponentConnection, level))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// Best effort; the ping error is what matters.
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("database", cfg.Database.Name).
		Msg("connected to the database")

	return &Database{
		Client: client,
		DB:     client.Database(cfg.Database.Name),
		log:    logger,
	}, nil
}

// Ping checks that the primary answers within ctx.
func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting for in-use connections until ctx ends.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Msg("closing database connection")
	return db.Client.Disconnect(ctx)
}
