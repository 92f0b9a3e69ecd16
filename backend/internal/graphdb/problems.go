package graphdb

import (
	"context"
	"maps"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

// ProblemRepository answers research-problem centric queries
type ProblemRepository struct {
	exec Executor
}

func problemScope(problemID ids.ThingID) *Builder {
	return vocabulary(NewBuilder()).
		Match("(problem:Resource {id: $problemId})").
		Where("$problemClass IN problem.classes").
		Param("problemId", problemID.String())
}

func (r *ProblemRepository) FindContributions(ctx context.Context, problemID ids.ThingID, visibility graph.VisibilityFilter, req paging.Request) (paging.Page[graph.Resource], error) {
	b := problemScope(problemID).
		Match("(node:Resource)-[:RELATED {predicate_id: $problemPredicate}]->(problem)").
		Where("$contributionClass IN node.classes", visibilityCondition("node")).
		With("DISTINCT node").
		Param("visibilities", visibility.VisibilityStrings())
	return runPaged(ctx, r.exec, resourcePage("problem.contributions", b), req)
}

func (r *ProblemRepository) FindPapers(ctx context.Context, problemID ids.ThingID, visibility graph.VisibilityFilter, req paging.Request) (paging.Page[graph.Resource], error) {
	b := problemScope(problemID).
		Match("(node:Resource)-[:RELATED {predicate_id: $contributionPredicate}]->(:Resource)-[:RELATED {predicate_id: $problemPredicate}]->(problem)").
		Where("$paperClass IN node.classes", visibilityCondition("node")).
		With("DISTINCT node").
		Param("visibilities", visibility.VisibilityStrings())
	return runPaged(ctx, r.exec, resourcePage("problem.papers", b), req)
}

// FindResearchFields lists the fields of papers addressing the problem, with paper counts
func (r *ProblemRepository) FindResearchFields(ctx context.Context, problemID ids.ThingID, req paging.Request) (paging.Page[graph.FieldWithPaperCount], error) {
	b := problemScope(problemID).
		Match("(problem)<-[:RELATED {predicate_id: $problemPredicate}]-(:Resource)<-[:RELATED {predicate_id: $contributionPredicate}]-(paper:Resource)-[:RELATED {predicate_id: $fieldPredicate}]->(node:Resource)").
		Where("$paperClass IN paper.classes", "$researchFieldClass IN node.classes").
		With("node, count(DISTINCT paper) AS papers")

	sortable := maps.Clone(resourceSortable)
	sortable["papers"] = "papers"
	return runPaged(ctx, r.exec, pagedQuery[graph.FieldWithPaperCount]{
		operation: "problem.research_fields",
		base:      b,
		content:   "node, papers",
		count:     "count(node)",
		sortable:  sortable,
		fallback:  []string{"papers DESC", "node.id ASC"},
		unique:    "node.id",
		decode: func(record *neo4j.Record) (graph.FieldWithPaperCount, error) {
			field, err := resourceFrom("node")(record)
			if err != nil {
				return graph.FieldWithPaperCount{}, err
			}
			return graph.FieldWithPaperCount{Field: field, Papers: getInt64FromRecord(record, "papers")}, nil
		},
	}, req)
}

// FindDatasets lists datasets benchmarked by contributions addressing the problem
func (r *ProblemRepository) FindDatasets(ctx context.Context, problemID ids.ThingID, req paging.Request) (paging.Page[graph.Resource], error) {
	b := problemScope(problemID).
		Match("(problem)<-[:RELATED {predicate_id: $problemPredicate}]-(:Resource)-[:RELATED {predicate_id: $benchmarkPredicate}]->(:Resource)-[:RELATED {predicate_id: $datasetPredicate}]->(node:Resource)").
		Where("$datasetClass IN node.classes").
		With("DISTINCT node")
	return runPaged(ctx, r.exec, resourcePage("problem.datasets", b), req)
}

var _ graph.ProblemQueries = (*ProblemRepository)(nil)
