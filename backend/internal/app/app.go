// Package app assembles stores and services from configuration. Both the HTTP
// server and orkgctl start from here.
package app

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"orkg-backend/backend/internal/api"
	"orkg-backend/backend/internal/community"
	communitymem "orkg-backend/backend/internal/community/inmemory"
	"orkg-backend/backend/internal/community/postgres"
	"orkg-backend/backend/internal/contenttypes"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/graphdb"
	"orkg-backend/backend/internal/metrics"
	"orkg-backend/backend/pkg/config"
	apperrors "orkg-backend/backend/pkg/errors"
	"orkg-backend/backend/pkg/logger"
)

// Stores are the repositories behind every service
type Stores struct {
	Resources  graph.ResourceRepository
	Predicates graph.PredicateRepository
	Classes    graph.ClassRepository
	Literals   graph.LiteralRepository
	Things     graph.ThingRepository
	Statements graph.StatementRepository

	Fields     graph.ResearchFieldQueries
	Problems   graph.ProblemQueries
	Benchmarks graph.BenchmarkQueries

	Observatories community.ObservatoryRepository
	Organizations community.OrganizationRepository
	Contributors  community.ContributorRepository
}

// GraphStores fills the graph repositories from a Cypher-backed graph
func GraphStores(g *graphdb.Graph) Stores {
	return Stores{
		Resources:  g.Resources(),
		Predicates: g.Predicates(),
		Classes:    g.Classes(),
		Literals:   g.Literals(),
		Things:     g.Things(),
		Statements: g.Statements(),
		Fields:     g.ResearchFields(),
		Problems:   g.Problems(),
		Benchmarks: g.Benchmarks(),
	}
}

// WithCommunity returns s backed by the given community repositories
func (s Stores) WithCommunity(
	observatories community.ObservatoryRepository,
	organizations community.OrganizationRepository,
	contributors community.ContributorRepository,
) Stores {
	s.Observatories = observatories
	s.Organizations = organizations
	s.Contributors = contributors
	return s
}

// NewServices builds the application services on top of s. A nil m disables metrics.
func NewServices(s Stores, m *metrics.Metrics) api.Services {
	observatories := community.NewObservatoryService(s.Observatories, s.Organizations, s.Contributors, s.Resources)
	organizations := community.NewOrganizationService(s.Organizations)
	ports := contenttypes.Ports{
		Resources:     s.Resources,
		Predicates:    s.Predicates,
		Classes:       s.Classes,
		Literals:      s.Literals,
		Things:        s.Things,
		Statements:    s.Statements,
		Observatories: observatories,
		Organizations: organizations,
	}
	return api.Services{
		Resources:     graph.NewResourceService(s.Resources, s.Classes),
		Statements:    graph.NewStatementService(s.Things, s.Predicates, s.Statements),
		Research:      graph.NewResearchService(s.Resources, s.Fields, s.Problems, s.Benchmarks),
		Templates:     contenttypes.NewTemplateService(ports, m),
		Papers:        contenttypes.NewPaperService(ports, m),
		Comparisons:   contenttypes.NewComparisonService(ports, m),
		Observatories: observatories,
		Organizations: organizations,
		Contributors:  community.NewContributorService(s.Contributors),
	}
}

// Runtime holds the open connections of a running process
type Runtime struct {
	Stores  Stores
	closers []func(context.Context)
}

// Close releases every connection in reverse order of opening
func (r *Runtime) Close(ctx context.Context) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i](ctx)
	}
}

// Open connects to Neo4j and, when configured, to PostgreSQL. Schemas are migrated
// when migrate is set. Without POSTGRES_URL the community data lives in memory.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics, migrate bool) (*Runtime, error) {
	log := logger.Named("app")
	rt := &Runtime{}

	driver, err := graphdb.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		return nil, err
	}
	exec := graphdb.NewDriverExecutor(driver, cfg.Neo4jDatabase, m)
	rt.closers = append(rt.closers, func(ctx context.Context) {
		if err := exec.Close(ctx); err != nil {
			log.Warn("closing neo4j driver failed", zap.Error(err))
		}
	})
	if migrate {
		if err := graphdb.Migrate(ctx, exec); err != nil {
			rt.Close(ctx)
			return nil, err
		}
	}
	stores := GraphStores(graphdb.NewGraph(exec))

	if !cfg.HasPostgres() {
		log.Warn("POSTGRES_URL is not set, community data is kept in memory")
		mem := communitymem.NewStore()
		rt.Stores = stores.WithCommunity(mem.Observatories(), mem.Organizations(), mem.Contributors())
		return rt, nil
	}

	pool, err := pgxpool.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		rt.Close(ctx)
		return nil, apperrors.NewStoreQueryFailed("postgres.connect", err)
	}
	rt.closers = append(rt.closers, func(context.Context) { pool.Close() })
	if migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			rt.Close(ctx)
			return nil, err
		}
	}
	rt.Stores = stores.WithCommunity(
		postgres.NewObservatoryRepository(pool),
		postgres.NewOrganizationRepository(pool),
		postgres.NewContributorRepository(pool),
	)
	log.Info("stores opened", zap.Bool("postgres", true))
	return rt, nil
}
