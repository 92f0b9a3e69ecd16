package graphdb

import (
	"context"
	"maps"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

// ResearchFieldRepository traverses the research-field hierarchy
type ResearchFieldRepository struct {
	exec Executor
}

// vocabulary binds the constant predicate and class ids every traversal refers to
func vocabulary(b *Builder) *Builder {
	return b.
		Param("fieldPredicate", graph.PredicateHasResearchField.String()).
		Param("contributionPredicate", graph.PredicateHasContribution.String()).
		Param("problemPredicate", graph.PredicateHasResearchProblem.String()).
		Param("subfieldPredicate", graph.PredicateHasSubfield.String()).
		Param("comparePredicate", graph.PredicateCompareContribution.String()).
		Param("benchmarkPredicate", graph.PredicateHasBenchmark.String()).
		Param("datasetPredicate", graph.PredicateHasDataset.String()).
		Param("sourceCodePredicate", graph.PredicateHasSourceCode.String()).
		Param("researchFieldClass", graph.ClassResearchField.String()).
		Param("paperClass", graph.ClassPaper.String()).
		Param("contributionClass", graph.ClassContribution.String()).
		Param("problemClass", graph.ClassProblem.String()).
		Param("comparisonClass", graph.ClassComparison.String()).
		Param("benchmarkClass", graph.ClassBenchmark.String()).
		Param("datasetClass", graph.ClassDataset.String())
}

// fieldScope binds f to the field and, with includeSubfields, to every field reachable
// from it through has-subfield statements. A missing field matches nothing.
func fieldScope(fieldID ids.ThingID, includeSubfields bool) *Builder {
	b := vocabulary(NewBuilder()).
		Match("(field:Resource {id: $fieldId})").
		Where("$researchFieldClass IN field.classes").
		Param("fieldId", fieldID.String())
	if !includeSubfields {
		return b.With("field AS f")
	}
	return b.
		Match("path = (field)-[:RELATED*0..]->(sub:Resource)").
		Where(
			"all(r IN relationships(path) WHERE r.predicate_id = $subfieldPredicate)",
			"$researchFieldClass IN sub.classes",
		).
		With("DISTINCT sub AS f")
}

// papersInScope binds paper to the papers filed under any field bound to f
func papersInScope(b *Builder) *Builder {
	return b.
		Match("(paper:Resource)-[:RELATED {predicate_id: $fieldPredicate}]->(f)").
		Where("$paperClass IN paper.classes")
}

func resourcePage(operation string, b *Builder) pagedQuery[graph.Resource] {
	return pagedQuery[graph.Resource]{
		operation: operation,
		base:      b,
		content:   "node",
		count:     "count(node)",
		sortable:  resourceSortable,
		fallback:  []string{"node.created_at ASC", "node.id ASC"},
		unique:    "node.id",
		decode:    resourceFrom("node"),
	}
}

func (r *ResearchFieldRepository) FindPapers(ctx context.Context, fieldID ids.ThingID, q graph.FieldContentQuery, req paging.Request) (paging.Page[graph.Resource], error) {
	b := fieldScope(fieldID, q.IncludeSubfields).
		Match("(node:Resource)-[:RELATED {predicate_id: $fieldPredicate}]->(f)").
		Where("$paperClass IN node.classes", visibilityCondition("node")).
		With("DISTINCT node").
		Param("visibilities", q.Visibility.VisibilityStrings())
	return runPaged(ctx, r.exec, resourcePage("research_field.papers", b), req)
}

// FindComparisons finds comparisons that compare contributions of papers in the field
func (r *ResearchFieldRepository) FindComparisons(ctx context.Context, fieldID ids.ThingID, q graph.FieldContentQuery, req paging.Request) (paging.Page[graph.Resource], error) {
	b := papersInScope(fieldScope(fieldID, q.IncludeSubfields)).
		Match("(paper)-[:RELATED {predicate_id: $contributionPredicate}]->(:Resource)<-[:RELATED {predicate_id: $comparePredicate}]-(node:Resource)").
		Where("$comparisonClass IN node.classes", visibilityCondition("node")).
		With("DISTINCT node").
		Param("visibilities", q.Visibility.VisibilityStrings())
	return runPaged(ctx, r.exec, resourcePage("research_field.comparisons", b), req)
}

func (r *ResearchFieldRepository) FindProblems(ctx context.Context, fieldID ids.ThingID, q graph.FieldContentQuery, req paging.Request) (paging.Page[graph.Resource], error) {
	b := papersInScope(fieldScope(fieldID, q.IncludeSubfields)).
		Match("(paper)-[:RELATED {predicate_id: $contributionPredicate}]->(:Resource)-[:RELATED {predicate_id: $problemPredicate}]->(node:Resource)").
		Where("$problemClass IN node.classes", visibilityCondition("node")).
		With("DISTINCT node").
		Param("visibilities", q.Visibility.VisibilityStrings())
	return runPaged(ctx, r.exec, resourcePage("research_field.problems", b), req)
}

// FindProblemsWithPaperCount ranks the problems of a field by the number of papers addressing them
func (r *ResearchFieldRepository) FindProblemsWithPaperCount(ctx context.Context, fieldID ids.ThingID, req paging.Request) (paging.Page[graph.ProblemWithPaperCount], error) {
	b := papersInScope(fieldScope(fieldID, false)).
		Match("(paper)-[:RELATED {predicate_id: $contributionPredicate}]->(:Resource)-[:RELATED {predicate_id: $problemPredicate}]->(node:Resource)").
		Where("$problemClass IN node.classes").
		With("node, count(DISTINCT paper) AS papers")

	sortable := maps.Clone(resourceSortable)
	sortable["papers"] = "papers"
	return runPaged(ctx, r.exec, pagedQuery[graph.ProblemWithPaperCount]{
		operation: "research_field.problems_with_paper_count",
		base:      b,
		content:   "node, papers",
		count:     "count(node)",
		sortable:  sortable,
		fallback:  []string{"papers DESC", "node.id ASC"},
		unique:    "node.id",
		decode: func(record *neo4j.Record) (graph.ProblemWithPaperCount, error) {
			problem, err := resourceFrom("node")(record)
			if err != nil {
				return graph.ProblemWithPaperCount{}, err
			}
			return graph.ProblemWithPaperCount{Problem: problem, Papers: getInt64FromRecord(record, "papers")}, nil
		},
	}, req)
}

// FindContributorIDs lists everyone who created a paper, one of its contributions or a
// comparison of those contributions within the field. Unknown contributors, stored as null
// or as the all-zero id, are skipped.
func (r *ResearchFieldRepository) FindContributorIDs(ctx context.Context, fieldID ids.ThingID, includeSubfields bool, req paging.Request) (paging.Page[ids.ContributorID], error) {
	b := papersInScope(fieldScope(fieldID, includeSubfields)).
		OptionalMatch("(paper)-[:RELATED {predicate_id: $contributionPredicate}]->(contribution:Resource)").
		OptionalMatch("(contribution)<-[:RELATED {predicate_id: $comparePredicate}]-(comparison:Resource)").
		Unwind("[paper.created_by, contribution.created_by, comparison.created_by] AS contributor").
		With("DISTINCT contributor").
		Where("contributor IS NOT NULL", "contributor <> $unknownContributor").
		Param("unknownContributor", ids.UnknownContributor.String())

	return runPaged(ctx, r.exec, pagedQuery[ids.ContributorID]{
		operation: "research_field.contributors",
		base:      b,
		content:   "contributor",
		count:     "count(contributor)",
		sortable:  map[string]string{"id": "contributor"},
		fallback:  []string{"contributor ASC"},
		unique:    "contributor",
		decode: func(record *neo4j.Record) (ids.ContributorID, error) {
			return ids.ParseContributorID(getStringFromRecord(record, "contributor"))
		},
	}, req)
}

// FindFieldsWithBenchmarks lists fields holding at least one paper with a benchmarked contribution
func (r *ResearchFieldRepository) FindFieldsWithBenchmarks(ctx context.Context, req paging.Request) (paging.Page[graph.Resource], error) {
	b := vocabulary(NewBuilder()).
		Match("(paper:Resource)-[:RELATED {predicate_id: $fieldPredicate}]->(node:Resource)").
		Where("$paperClass IN paper.classes", "$researchFieldClass IN node.classes").
		Match("(paper)-[:RELATED {predicate_id: $contributionPredicate}]->(:Resource)-[:RELATED {predicate_id: $benchmarkPredicate}]->(benchmark:Resource)").
		Where("$benchmarkClass IN benchmark.classes").
		With("DISTINCT node")
	return runPaged(ctx, r.exec, resourcePage("research_field.with_benchmarks", b), req)
}

// FindSubfields lists the direct subfields of a field with their own subfield count
func (r *ResearchFieldRepository) FindSubfields(ctx context.Context, fieldID ids.ThingID, req paging.Request) (paging.Page[graph.SubfieldWithChildCount], error) {
	b := vocabulary(NewBuilder()).
		Match("(parent:Resource {id: $fieldId})-[:RELATED {predicate_id: $subfieldPredicate}]->(node:Resource)").
		Where("$researchFieldClass IN parent.classes", "$researchFieldClass IN node.classes").
		OptionalMatch("(node)-[:RELATED {predicate_id: $subfieldPredicate}]->(child:Resource)").
		With("node, count(DISTINCT child) AS child_count").
		Param("fieldId", fieldID.String())

	return runPaged(ctx, r.exec, pagedQuery[graph.SubfieldWithChildCount]{
		operation: "research_field.subfields",
		base:      b,
		content:   "node, child_count",
		count:     "count(node)",
		sortable:  resourceSortable,
		fallback:  []string{"node.id ASC"},
		unique:    "node.id",
		decode: func(record *neo4j.Record) (graph.SubfieldWithChildCount, error) {
			field, err := resourceFrom("node")(record)
			if err != nil {
				return graph.SubfieldWithChildCount{}, err
			}
			return graph.SubfieldWithChildCount{Resource: field, ChildCount: getInt64FromRecord(record, "child_count")}, nil
		},
	}, req)
}

func (r *ResearchFieldRepository) FindParent(ctx context.Context, fieldID ids.ThingID) (graph.Resource, bool, error) {
	q, err := vocabulary(NewBuilder()).
		Match("(node:Resource)-[:RELATED {predicate_id: $subfieldPredicate}]->(field:Resource {id: $fieldId})").
		Where("$researchFieldClass IN node.classes").
		Return("node").
		OrderBy(nil, nil, "node.id ASC").
		SkipLimit(paging.Of(0, 1)).
		Param("fieldId", fieldID.String()).
		Build("research_field.parent")
	if err != nil {
		return graph.Resource{}, false, err
	}
	records, err := r.exec.Read(ctx, q)
	if err != nil || len(records) == 0 {
		return graph.Resource{}, false, err
	}
	parent, err := resourceFrom("node")(records[0])
	if err != nil {
		return graph.Resource{}, false, err
	}
	return parent, true, nil
}

// FindRoots returns the top-level fields above fieldID, ordered by id. A root field has none.
func (r *ResearchFieldRepository) FindRoots(ctx context.Context, fieldID ids.ThingID) ([]graph.Resource, error) {
	q, err := vocabulary(NewBuilder()).
		Match("(field:Resource {id: $fieldId})").
		Match("path = (node:Resource)-[:RELATED*1..]->(field)").
		Where(
			"all(r IN relationships(path) WHERE r.predicate_id = $subfieldPredicate)",
			"$researchFieldClass IN node.classes",
			"NOT EXISTS { MATCH (:Resource)-[:RELATED {predicate_id: $subfieldPredicate}]->(node) }",
		).
		Return("DISTINCT node").
		OrderBy(nil, nil, "node.id ASC").
		Param("fieldId", fieldID.String()).
		Build("research_field.roots")
	if err != nil {
		return nil, err
	}
	records, err := r.exec.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	roots := make([]graph.Resource, 0, len(records))
	for _, record := range records {
		root, err := resourceFrom("node")(record)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

var _ graph.ResearchFieldQueries = (*ResearchFieldRepository)(nil)
