// Package graphdb stores the graph in Neo4j. Queries are parameterized throughout:
// identifiers, including the constant predicate and class ids, are bound as parameters
// and never spliced into Cypher text.
package graphdb

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"orkg-backend/backend/internal/metrics"
	apperrors "orkg-backend/backend/pkg/errors"
	"orkg-backend/backend/pkg/logger"
)

// Query is one parameterized Cypher statement. Operation names it in logs and metrics.
type Query struct {
	Operation string
	Text      string
	Params    map[string]any
}

// Executor runs queries against the store
type Executor interface {
	Read(ctx context.Context, q Query) ([]*neo4j.Record, error)
	Write(ctx context.Context, q Query) ([]*neo4j.Record, error)
}

// Connect opens a driver and verifies that the server is reachable
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	return driver, nil
}

// DriverExecutor runs every query in its own session
type DriverExecutor struct {
	driver   neo4j.DriverWithContext
	database string
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewDriverExecutor creates an executor; an empty database selects the server default
// and a nil m disables metrics.
func NewDriverExecutor(driver neo4j.DriverWithContext, database string, m *metrics.Metrics) *DriverExecutor {
	return &DriverExecutor{
		driver:   driver,
		database: database,
		metrics:  m,
		logger:   logger.Named("graphdb"),
	}
}

func (e *DriverExecutor) Read(ctx context.Context, q Query) ([]*neo4j.Record, error) {
	return e.run(ctx, neo4j.AccessModeRead, q)
}

func (e *DriverExecutor) Write(ctx context.Context, q Query) ([]*neo4j.Record, error) {
	return e.run(ctx, neo4j.AccessModeWrite, q)
}

func (e *DriverExecutor) run(ctx context.Context, mode neo4j.AccessMode, q Query) ([]*neo4j.Record, error) {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: e.database})
	defer session.Close(ctx)

	started := time.Now()
	records, err := collect(ctx, session, q)
	e.metrics.ObserveQuery(q.Operation, started, err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewContextCancelled(q.Operation, ctx.Err())
		}
		e.logger.Error("query failed", zap.String("operation", q.Operation), zap.Error(err))
		return nil, apperrors.NewGraphQueryFailed(q.Operation, err)
	}

	e.logger.Debug("query executed",
		zap.String("operation", q.Operation),
		zap.Int("records", len(records)),
		zap.Duration("took", time.Since(started)),
	)
	return records, nil
}

func collect(ctx context.Context, session neo4j.SessionWithContext, q Query) ([]*neo4j.Record, error) {
	result, err := session.Run(ctx, q.Text, q.Params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

// Close releases the driver
func (e *DriverExecutor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}
