package graphdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
	apperrors "orkg-backend/backend/pkg/errors"
	"orkg-backend/backend/pkg/logger"
)

// Graph hands out the Neo4j implementations of the graph ports
type Graph struct {
	exec   Executor
	logger *zap.Logger
}

func NewGraph(exec Executor) *Graph {
	return &Graph{exec: exec, logger: logger.Named("graphdb")}
}

func (g *Graph) Resources() *ResourceRepository {
	return &ResourceRepository{NodeRepository: newNodeRepository(g, "Resource", "R", resourceSetClause, resourceParams, nodeToResource)}
}

func (g *Graph) Predicates() *NodeRepository[graph.Predicate] {
	return newNodeRepository(g, "Predicate", "P", predicateSetClause, predicateParams, nodeToPredicate)
}

func (g *Graph) Classes() *NodeRepository[graph.Class] {
	return newNodeRepository(g, "Class", "C", classSetClause, classParams, nodeToClass)
}

func (g *Graph) Literals() *NodeRepository[graph.Literal] {
	return newNodeRepository(g, "Literal", "L", literalSetClause, literalParams, nodeToLiteral)
}

func (g *Graph) Things() *ThingRepository {
	return &ThingRepository{exec: g.exec}
}

func (g *Graph) Statements() *StatementRepository {
	return &StatementRepository{g: g}
}

func (g *Graph) ResearchFields() *ResearchFieldRepository {
	return &ResearchFieldRepository{exec: g.exec}
}

func (g *Graph) Problems() *ProblemRepository {
	return &ProblemRepository{exec: g.exec}
}

func (g *Graph) Benchmarks() *BenchmarkRepository {
	return &BenchmarkRepository{exec: g.exec}
}

// ============================================================================
// Identifier counters
// ============================================================================

const nextIDQuery = `
MERGE (c:IdCounter {name: $name})
ON CREATE SET c.value = 0
SET c.value = c.value + 1
RETURN c.value AS value`

// nextID increments the counter for prefix until it yields an id that taken reports free.
// Explicitly chosen ids can occupy counter values, so a value may be skipped.
func (g *Graph) nextID(ctx context.Context, prefix string, taken func(context.Context, string) (bool, error)) (string, error) {
	for {
		records, err := g.exec.Write(ctx, Query{
			Operation: "id.next",
			Text:      nextIDQuery,
			Params:    map[string]any{"name": prefix},
		})
		if err != nil {
			return "", err
		}
		if len(records) == 0 {
			return "", apperrors.NewGraphQueryFailed("id.next", fmt.Errorf("counter %q returned no value", prefix))
		}
		candidate := fmt.Sprintf("%s%d", prefix, getInt64FromRecord(records[0], "value"))
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		g.logger.Debug("skipping taken id", zap.String("id", candidate))
	}
}

func (g *Graph) thingExists(ctx context.Context, id string) (bool, error) {
	records, err := g.exec.Read(ctx, Query{
		Operation: "thing.exists",
		Text:      "MATCH (n:Thing {id: $id}) RETURN count(n) > 0 AS found",
		Params:    map[string]any{"id": id},
	})
	if err != nil || len(records) == 0 {
		return false, err
	}
	return getBoolFromRecord(records[0], "found"), nil
}

// ============================================================================
// Nodes
// ============================================================================

// NodeRepository stores one node variant under its label
type NodeRepository[T graph.Thing] struct {
	g         *Graph
	label     string
	prefix    string
	setClause string
	params    func(T) map[string]any
	decode    func(neo4j.Node) (T, error)
}

func newNodeRepository[T graph.Thing](
	g *Graph,
	label, prefix, setClause string,
	params func(T) map[string]any,
	decode func(neo4j.Node) (T, error),
) *NodeRepository[T] {
	return &NodeRepository[T]{g: g, label: label, prefix: prefix, setClause: setClause, params: params, decode: decode}
}

func (r *NodeRepository[T]) NextIdentity(ctx context.Context) (ids.ThingID, error) {
	id, err := r.g.nextID(ctx, r.prefix, r.g.thingExists)
	if err != nil {
		return ids.ThingID{}, err
	}
	return ids.ParseThingID(id)
}

// Save creates or replaces the node with the same id
func (r *NodeRepository[T]) Save(ctx context.Context, node T) error {
	_, err := r.g.exec.Write(ctx, Query{
		Operation: r.op("save"),
		Text:      fmt.Sprintf("MERGE (n:Thing:%s {id: $id})\nSET %s", r.label, r.setClause),
		Params:    r.params(node),
	})
	return err
}

func (r *NodeRepository[T]) FindByID(ctx context.Context, id ids.ThingID) (T, bool, error) {
	var zero T
	records, err := r.g.exec.Read(ctx, Query{
		Operation: r.op("find_by_id"),
		Text:      fmt.Sprintf("MATCH (n:%s {id: $id}) RETURN n", r.label),
		Params:    map[string]any{"id": id.String()},
	})
	if err != nil || len(records) == 0 {
		return zero, false, err
	}
	n, err := getNodeFromRecord(records[0], "n")
	if err != nil {
		return zero, false, err
	}
	node, err := r.decode(n)
	if err != nil {
		return zero, false, err
	}
	return node, true, nil
}

func (r *NodeRepository[T]) Exists(ctx context.Context, id ids.ThingID) (bool, error) {
	records, err := r.g.exec.Read(ctx, Query{
		Operation: r.op("exists"),
		Text:      fmt.Sprintf("MATCH (n:%s {id: $id}) RETURN count(n) > 0 AS found", r.label),
		Params:    map[string]any{"id": id.String()},
	})
	if err != nil || len(records) == 0 {
		return false, err
	}
	return getBoolFromRecord(records[0], "found"), nil
}

func (r *NodeRepository[T]) op(name string) string {
	return strings.ToLower(r.label) + "." + name
}

const (
	resourceSetClause = `n.label = $label, n.classes = $classes, n.created_at = $created_at,
    n.created_by = $created_by, n.observatory_id = $observatory_id, n.organization_id = $organization_id,
    n.visibility = $visibility, n.verified = $verified, n.extraction_method = $extraction_method,
    n.unlisted_by = $unlisted_by, n.modifiable = $modifiable`
	predicateSetClause = `n.label = $label, n.created_at = $created_at, n.created_by = $created_by, n.modifiable = $modifiable`
	classSetClause     = `n.label = $label, n.uri = $uri, n.created_at = $created_at, n.created_by = $created_by, n.modifiable = $modifiable`
	literalSetClause   = `n.label = $label, n.datatype = $datatype, n.created_at = $created_at, n.created_by = $created_by, n.modifiable = $modifiable`
)

func resourceParams(r graph.Resource) map[string]any {
	return map[string]any{
		"id":                r.ID.String(),
		"label":             r.Label,
		"classes":           thingIDStrings(r.Classes),
		"created_at":        r.CreatedAt,
		"created_by":        nullableID(r.CreatedBy),
		"observatory_id":    nullableID(r.ObservatoryID),
		"organization_id":   nullableID(r.OrganizationID),
		"visibility":        string(r.Visibility),
		"verified":          r.Verified,
		"extraction_method": string(r.ExtractionMethod),
		"unlisted_by":       nullableID(r.UnlistedBy),
		"modifiable":        r.Modifiable,
	}
}

func predicateParams(p graph.Predicate) map[string]any {
	return map[string]any{
		"id":         p.ID.String(),
		"label":      p.Label,
		"created_at": p.CreatedAt,
		"created_by": nullableID(p.CreatedBy),
		"modifiable": p.Modifiable,
	}
}

func classParams(c graph.Class) map[string]any {
	return map[string]any{
		"id":         c.ID.String(),
		"label":      c.Label,
		"uri":        c.URI,
		"created_at": c.CreatedAt,
		"created_by": nullableID(c.CreatedBy),
		"modifiable": c.Modifiable,
	}
}

func literalParams(l graph.Literal) map[string]any {
	return map[string]any{
		"id":         l.ID.String(),
		"label":      l.Label,
		"datatype":   l.Datatype,
		"created_at": l.CreatedAt,
		"created_by": nullableID(l.CreatedBy),
		"modifiable": l.Modifiable,
	}
}

// ResourceRepository adds filtered listing to the resource node store
type ResourceRepository struct {
	*NodeRepository[graph.Resource]
}

var resourceSortable = map[string]string{
	"id":         "node.id",
	"label":      "node.label",
	"created_at": "node.created_at",
	"created_by": "node.created_by",
	"visibility": "node.visibility",
}

// visibilityCondition filters variable v by the $visibilities parameter; nodes
// written before visibility existed count as DEFAULT
func visibilityCondition(v string) string {
	return fmt.Sprintf("coalesce(%s.visibility, 'DEFAULT') IN $visibilities", v)
}

func (r *ResourceRepository) FindAll(ctx context.Context, filter graph.ResourceFilter, req paging.Request) (paging.Page[graph.Resource], error) {
	b := NewBuilder().
		Match("(node:Resource)").
		Where(
			when(filter.Label != "", "toLower(node.label) = toLower($label)"),
			when(len(filter.Classes) > 0, "all(c IN $classes WHERE c IN node.classes)"),
			when(filter.Visibility != "", visibilityCondition("node")),
			when(!filter.CreatedBy.IsUnknown(), "node.created_by = $created_by"),
		).
		With("node").
		Param("label", filter.Label).
		Param("classes", thingIDStrings(filter.Classes)).
		Param("visibilities", filter.Visibility.VisibilityStrings()).
		Param("created_by", filter.CreatedBy.String())

	return runPaged(ctx, r.g.exec, pagedQuery[graph.Resource]{
		operation: "resource.find_all",
		base:      b,
		content:   "node",
		count:     "count(node)",
		sortable:  resourceSortable,
		fallback:  []string{"node.created_at ASC"},
		unique:    "node.id",
		decode:    resourceFrom("node"),
	}, req)
}

// ThingRepository finds nodes of any variant
type ThingRepository struct {
	exec Executor
}

func (r *ThingRepository) FindByID(ctx context.Context, id ids.ThingID) (graph.Thing, bool, error) {
	records, err := r.exec.Read(ctx, Query{
		Operation: "thing.find_by_id",
		Text:      "MATCH (n:Thing {id: $id}) RETURN n",
		Params:    map[string]any{"id": id.String()},
	})
	if err != nil || len(records) == 0 {
		return nil, false, err
	}
	n, err := getNodeFromRecord(records[0], "n")
	if err != nil {
		return nil, false, err
	}
	thing, err := nodeToThing(n)
	if err != nil {
		return nil, false, err
	}
	return thing, true, nil
}

// ============================================================================
// Statements
// ============================================================================

// StatementRepository stores statements as RELATED relationships between things.
// The predicate is referenced by id and joined on read.
type StatementRepository struct {
	g *Graph
}

// saveStatementQuery writes the relationship only when both ends exist and reports
// which of them were found.
const saveStatementQuery = `
OPTIONAL MATCH (s:Thing {id: $subject})
OPTIONAL MATCH (o:Thing {id: $object})
FOREACH (_ IN CASE WHEN s IS NOT NULL AND o IS NOT NULL THEN [1] ELSE [] END |
  MERGE (s)-[r:RELATED {id: $id}]->(o)
  SET r.predicate_id = $predicate, r.created_at = $created_at, r.created_by = $created_by,
      r.modifiable = $modifiable
)
RETURN s IS NOT NULL AS subject_found, o IS NOT NULL AS object_found`

var statementSortable = map[string]string{
	"id":            "r.id",
	"created_at":    "r.created_at",
	"created_by":    "r.created_by",
	"subject.label": "s.label",
	"object.label":  "o.label",
}

func (r *StatementRepository) NextIdentity(ctx context.Context) (ids.StatementID, error) {
	id, err := r.g.nextID(ctx, "S", r.exists)
	if err != nil {
		return ids.StatementID{}, err
	}
	return ids.ParseStatementID(id)
}

func (r *StatementRepository) exists(ctx context.Context, id string) (bool, error) {
	records, err := r.g.exec.Read(ctx, Query{
		Operation: "statement.exists",
		Text:      "MATCH ()-[r:RELATED {id: $id}]->() RETURN count(r) > 0 AS found",
		Params:    map[string]any{"id": id},
	})
	if err != nil || len(records) == 0 {
		return false, err
	}
	return getBoolFromRecord(records[0], "found"), nil
}

func (r *StatementRepository) Save(ctx context.Context, s graph.GeneralStatement) error {
	records, err := r.g.exec.Write(ctx, Query{
		Operation: "statement.save",
		Text:      saveStatementQuery,
		Params: map[string]any{
			"id":         s.ID.String(),
			"subject":    s.Subject.ThingID().String(),
			"predicate":  s.Predicate.ID.String(),
			"object":     s.Object.ThingID().String(),
			"created_at": s.CreatedAt,
			"created_by": nullableID(s.CreatedBy),
			"modifiable": s.Modifiable,
		},
	})
	if err != nil {
		return err
	}
	if len(records) == 0 || !getBoolFromRecord(records[0], "subject_found") {
		return graph.NewThingNotFound(s.Subject.ThingID())
	}
	if !getBoolFromRecord(records[0], "object_found") {
		return graph.NewThingNotFound(s.Object.ThingID())
	}
	return nil
}

func (r *StatementRepository) FindByID(ctx context.Context, id ids.StatementID) (graph.GeneralStatement, bool, error) {
	records, err := r.g.exec.Read(ctx, Query{
		Operation: "statement.find_by_id",
		Text: `MATCH (s:Thing)-[r:RELATED {id: $id}]->(o:Thing)
MATCH (p:Predicate {id: r.predicate_id})
RETURN s, r, p, o`,
		Params: map[string]any{"id": id.String()},
	})
	if err != nil || len(records) == 0 {
		return graph.GeneralStatement{}, false, err
	}
	st, err := statementFromRecord(records[0])
	if err != nil {
		return graph.GeneralStatement{}, false, err
	}
	return st, true, nil
}

func (r *StatementRepository) filtered(filter graph.StatementFilter) *Builder {
	return NewBuilder().
		Match("(s:Thing)-[r:RELATED]->(o:Thing)").
		Where(
			when(!filter.Subject.IsZero(), "s.id = $subject"),
			when(!filter.Predicate.IsZero(), "r.predicate_id = $predicate"),
			when(!filter.Object.IsZero(), "o.id = $object"),
			when(filter.ObjectLabel != "", "o.label = $object_label"),
			when(!filter.CreatedBy.IsUnknown(), "r.created_by = $created_by"),
		).
		Param("subject", filter.Subject.String()).
		Param("predicate", filter.Predicate.String()).
		Param("object", filter.Object.String()).
		Param("object_label", filter.ObjectLabel).
		Param("created_by", filter.CreatedBy.String())
}

func (r *StatementRepository) FindAll(ctx context.Context, filter graph.StatementFilter, req paging.Request) (paging.Page[graph.GeneralStatement], error) {
	b := r.filtered(filter).
		Match("(p:Predicate {id: r.predicate_id})").
		With("s, r, p, o")
	return runPaged(ctx, r.g.exec, pagedQuery[graph.GeneralStatement]{
		operation: "statement.find_all",
		base:      b,
		content:   "s, r, p, o",
		count:     "count(r)",
		sortable:  statementSortable,
		fallback:  []string{"r.created_at ASC"},
		unique:    "r.id",
		decode:    statementFromRecord,
	}, req)
}

func (r *StatementRepository) Count(ctx context.Context, filter graph.StatementFilter) (int64, error) {
	q, err := r.filtered(filter).Return("count(r) AS total").Build("statement.count")
	if err != nil {
		return 0, err
	}
	records, err := r.g.exec.Read(ctx, q)
	if err != nil || len(records) == 0 {
		return 0, err
	}
	return getInt64FromRecord(records[0], "total"), nil
}

func (r *StatementRepository) Delete(ctx context.Context, id ids.StatementID) error {
	_, err := r.g.exec.Write(ctx, Query{
		Operation: "statement.delete",
		Text:      "MATCH ()-[r:RELATED {id: $id}]->() DELETE r",
		Params:    map[string]any{"id": id.String()},
	})
	return err
}

// compile-time port checks
var (
	_ graph.ResourceRepository  = (*ResourceRepository)(nil)
	_ graph.PredicateRepository = (*NodeRepository[graph.Predicate])(nil)
	_ graph.ClassRepository     = (*NodeRepository[graph.Class])(nil)
	_ graph.LiteralRepository   = (*NodeRepository[graph.Literal])(nil)
	_ graph.ThingRepository     = (*ThingRepository)(nil)
	_ graph.StatementRepository = (*StatementRepository)(nil)
)
