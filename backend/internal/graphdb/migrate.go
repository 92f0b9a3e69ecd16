package graphdb

import (
	"context"

	"go.uber.org/zap"

	"orkg-backend/backend/pkg/logger"
)

// legacyRewrites move data written by older schemas onto the current one: the per-kind
// id properties become id, class labels become the classes list, and every node gets
// the Thing label. Each statement only touches nodes that still need it.
var legacyRewrites = []Query{
	{Operation: "migrate.thing_label", Text: `MATCH (n) WHERE (n:Resource OR n:Predicate OR n:Class OR n:Literal) AND NOT n:Thing
SET n:Thing`},
	{Operation: "migrate.resource_id", Text: `MATCH (n:Resource) WHERE n.id IS NULL AND n.resource_id IS NOT NULL
SET n.id = n.resource_id REMOVE n.resource_id`},
	{Operation: "migrate.predicate_id", Text: `MATCH (n:Predicate) WHERE n.id IS NULL AND n.predicate_id IS NOT NULL
SET n.id = n.predicate_id REMOVE n.predicate_id`},
	{Operation: "migrate.class_id", Text: `MATCH (n:Class) WHERE n.id IS NULL AND n.class_id IS NOT NULL
SET n.id = n.class_id REMOVE n.class_id`},
	{Operation: "migrate.literal_id", Text: `MATCH (n:Literal) WHERE n.id IS NULL AND n.literal_id IS NOT NULL
SET n.id = n.literal_id REMOVE n.literal_id`},
	{Operation: "migrate.statement_id", Text: `MATCH ()-[r:RELATED]->() WHERE r.id IS NULL AND r.statement_id IS NOT NULL
SET r.id = r.statement_id REMOVE r.statement_id`},
	{Operation: "migrate.classes", Text: `MATCH (n:Resource) WHERE n.classes IS NULL
SET n.classes = [l IN labels(n) WHERE NOT l IN ['Thing', 'Resource', 'AuditableEntity']]`},
}

var schemaStatements = []Query{
	{Operation: "migrate.thing_constraint", Text: "CREATE CONSTRAINT thing_id IF NOT EXISTS FOR (n:Thing) REQUIRE n.id IS UNIQUE"},
	{Operation: "migrate.resource_index", Text: "CREATE INDEX resource_id IF NOT EXISTS FOR (n:Resource) ON (n.id)"},
	{Operation: "migrate.predicate_index", Text: "CREATE INDEX predicate_id IF NOT EXISTS FOR (n:Predicate) ON (n.id)"},
	{Operation: "migrate.class_index", Text: "CREATE INDEX class_id IF NOT EXISTS FOR (n:Class) ON (n.id)"},
	{Operation: "migrate.literal_index", Text: "CREATE INDEX literal_id IF NOT EXISTS FOR (n:Literal) ON (n.id)"},
	{Operation: "migrate.statement_index", Text: "CREATE INDEX statement_id IF NOT EXISTS FOR ()-[r:RELATED]-() ON (r.id)"},
	{Operation: "migrate.statement_predicate_index", Text: "CREATE INDEX statement_predicate_id IF NOT EXISTS FOR ()-[r:RELATED]-() ON (r.predicate_id)"},
	{Operation: "migrate.counter_constraint", Text: "CREATE CONSTRAINT id_counter_name IF NOT EXISTS FOR (c:IdCounter) REQUIRE c.name IS UNIQUE"},
}

// Migrate rewrites legacy data and then creates the constraints and indexes.
// Every step is idempotent, so Migrate can run on each start.
func Migrate(ctx context.Context, exec Executor) error {
	log := logger.Named("migrate")
	for _, steps := range [][]Query{legacyRewrites, schemaStatements} {
		for _, q := range steps {
			if _, err := exec.Write(ctx, q); err != nil {
				return err
			}
			log.Debug("migration step applied", zap.String("operation", q.Operation))
		}
	}
	log.Info("graph schema is up to date", zap.Int("steps", len(legacyRewrites)+len(schemaStatements)))
	return nil
}
