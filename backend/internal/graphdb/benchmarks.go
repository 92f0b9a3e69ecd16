package graphdb

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

// BenchmarkRepository computes benchmark and dataset summaries. Every aggregate is
// computed in the same query as the rows it belongs to.
type BenchmarkRepository struct {
	exec Executor
}

var benchmarkSortable = map[string]string{
	"id":             "problem_id",
	"label":          "problem_label",
	"total_papers":   "total_papers",
	"total_datasets": "total_datasets",
	"total_codes":    "total_codes",
}

const datasetSummaryColumns = `model.label AS model_name, model.id AS model_id, metric.label AS metric,
       score.label AS score, paper.id AS paper_id, paper.label AS paper_title,
       month.label AS paper_month, year.label AS paper_year, code_urls, evaluation.id AS evaluation_id`

var datasetSummarySortable = map[string]string{
	"model_name":  "model_name",
	"metric":      "metric",
	"score":       "score",
	"paper_title": "paper_title",
	"paper_year":  "paper_year",
}

// summarize groups benchmarked contributions by research problem. The papers must be
// filed under a field bound to f.
func summarize(b *Builder) *Builder {
	return b.
		Match("(f)<-[:RELATED {predicate_id: $fieldPredicate}]-(paper:Resource)-[:RELATED {predicate_id: $contributionPredicate}]->(contribution:Resource)-[:RELATED {predicate_id: $benchmarkPredicate}]->(:Resource)-[:RELATED {predicate_id: $datasetPredicate}]->(dataset:Resource)").
		Where("$paperClass IN paper.classes").
		Match("(contribution)-[:RELATED {predicate_id: $problemPredicate}]->(problem:Resource)").
		Where("$problemClass IN problem.classes").
		OptionalMatch("(contribution)-[:RELATED {predicate_id: $sourceCodePredicate}]->(code:Thing)").
		With(`problem,
     collect(DISTINCT {id: f.id, label: f.label}) AS research_fields,
     count(DISTINCT paper) AS total_papers,
     count(DISTINCT dataset) AS total_datasets,
     count(DISTINCT code) AS total_codes`)
}

func (r *BenchmarkRepository) summaries(ctx context.Context, operation string, b *Builder, req paging.Request) (paging.Page[graph.BenchmarkSummary], error) {
	return runPaged(ctx, r.exec, pagedQuery[graph.BenchmarkSummary]{
		operation: operation,
		base:      summarize(b),
		content:   "problem.id AS problem_id, problem.label AS problem_label, research_fields, total_papers, total_datasets, total_codes",
		count:     "count(problem)",
		sortable:  benchmarkSortable,
		fallback:  []string{"total_papers DESC", "problem_id ASC"},
		unique:    "problem_id",
		decode:    benchmarkSummaryFromRecord,
	}, req)
}

func (r *BenchmarkRepository) SummarizeBenchmarks(ctx context.Context, req paging.Request) (paging.Page[graph.BenchmarkSummary], error) {
	b := vocabulary(NewBuilder()).
		Match("(f:Resource)").
		Where("$researchFieldClass IN f.classes")
	return r.summaries(ctx, "benchmark.summaries", b, req)
}

func (r *BenchmarkRepository) SummarizeBenchmarksByField(ctx context.Context, fieldID ids.ThingID, includeSubfields bool, req paging.Request) (paging.Page[graph.BenchmarkSummary], error) {
	return r.summaries(ctx, "benchmark.summaries_by_field", fieldScope(fieldID, includeSubfields), req)
}

func (r *BenchmarkRepository) FindProblemsForDataset(ctx context.Context, datasetID ids.ThingID, req paging.Request) (paging.Page[graph.Resource], error) {
	b := vocabulary(NewBuilder()).
		Match("(dataset:Resource {id: $datasetId})<-[:RELATED {predicate_id: $datasetPredicate}]-(:Resource)<-[:RELATED {predicate_id: $benchmarkPredicate}]-(:Resource)-[:RELATED {predicate_id: $problemPredicate}]->(node:Resource)").
		Where("$datasetClass IN dataset.classes", "$problemClass IN node.classes").
		With("DISTINCT node").
		Param("datasetId", datasetID.String())
	return runPaged(ctx, r.exec, resourcePage("benchmark.problems_for_dataset", b), req)
}

// SummarizeDataset returns one row per evaluation reported on the dataset for the problem
func (r *BenchmarkRepository) SummarizeDataset(ctx context.Context, datasetID, problemID ids.ThingID, req paging.Request) (paging.Page[graph.DatasetSummary], error) {
	b := vocabulary(NewBuilder()).
		Match("(dataset:Resource {id: $datasetId})<-[:RELATED {predicate_id: $datasetPredicate}]-(benchmark:Resource)<-[:RELATED {predicate_id: $benchmarkPredicate}]-(contribution:Resource)-[:RELATED {predicate_id: $problemPredicate}]->(problem:Resource {id: $problemId})").
		Where("$datasetClass IN dataset.classes").
		Match("(paper:Resource)-[:RELATED {predicate_id: $contributionPredicate}]->(contribution)").
		Where("$paperClass IN paper.classes").
		Match("(benchmark)-[:RELATED {predicate_id: $evaluationPredicate}]->(evaluation:Thing)-[:RELATED {predicate_id: $metricPredicate}]->(metric:Thing)").
		Match("(evaluation)-[:RELATED {predicate_id: $valuePredicate}]->(score:Thing)").
		OptionalMatch("(contribution)-[:RELATED {predicate_id: $modelPredicate}]->(model:Thing)").
		OptionalMatch("(paper)-[:RELATED {predicate_id: $monthPredicate}]->(month:Thing)").
		OptionalMatch("(paper)-[:RELATED {predicate_id: $yearPredicate}]->(year:Thing)").
		OptionalMatch("(contribution)-[:RELATED {predicate_id: $sourceCodePredicate}]->(code:Thing)").
		With("evaluation, model, metric, score, paper, month, year, collect(DISTINCT code.label) AS code_urls").
		Param("datasetId", datasetID.String()).
		Param("problemId", problemID.String()).
		Param("evaluationPredicate", graph.PredicateHasEvaluation.String()).
		Param("metricPredicate", graph.PredicateHasMetric.String()).
		Param("valuePredicate", graph.PredicateHasValue.String()).
		Param("modelPredicate", graph.PredicateHasModel.String()).
		Param("monthPredicate", graph.PredicateMonthPublished.String()).
		Param("yearPredicate", graph.PredicateYearPublished.String())

	return runPaged(ctx, r.exec, pagedQuery[graph.DatasetSummary]{
		operation: "benchmark.dataset_summary",
		base:      b,
		content:   datasetSummaryColumns,
		count:     "count(*)",
		sortable:  datasetSummarySortable,
		fallback:  []string{"paper_id ASC", "metric ASC"},
		unique:    "evaluation_id",
		decode:    datasetSummaryFromRecord,
	}, req)
}

func benchmarkSummaryFromRecord(record *neo4j.Record) (graph.BenchmarkSummary, error) {
	problemID, err := ids.ParseThingID(getStringFromRecord(record, "problem_id"))
	if err != nil {
		return graph.BenchmarkSummary{}, err
	}
	fields := make([]graph.ThingRef, 0)
	for _, m := range getMapSliceFromRecord(record, "research_fields") {
		id, err := thingIDFromMap(m, "id")
		if err != nil {
			return graph.BenchmarkSummary{}, err
		}
		fields = append(fields, graph.ThingRef{ID: id, Label: getStringFromMap(m, "label", "")})
	}
	return graph.BenchmarkSummary{
		ResearchProblem: graph.ThingRef{ID: problemID, Label: getStringFromRecord(record, "problem_label")},
		ResearchFields:  fields,
		TotalPapers:     getInt64FromRecord(record, "total_papers"),
		TotalDatasets:   getInt64FromRecord(record, "total_datasets"),
		TotalCodes:      getInt64FromRecord(record, "total_codes"),
	}, nil
}

func datasetSummaryFromRecord(record *neo4j.Record) (graph.DatasetSummary, error) {
	paperID, err := ids.ParseThingID(getStringFromRecord(record, "paper_id"))
	if err != nil {
		return graph.DatasetSummary{}, err
	}
	return graph.DatasetSummary{
		ModelName:  getOptionalStringFromRecord(record, "model_name"),
		ModelID:    getOptionalStringFromRecord(record, "model_id"),
		Metric:     getStringFromRecord(record, "metric"),
		Score:      getStringFromRecord(record, "score"),
		PaperID:    paperID,
		PaperTitle: getStringFromRecord(record, "paper_title"),
		PaperMonth: parseOptionalInt(getOptionalStringFromRecord(record, "paper_month")),
		PaperYear:  parseOptionalInt(getOptionalStringFromRecord(record, "paper_year")),
		CodeURLs:   getStringSliceFromRecord(record, "code_urls"),
	}, nil
}

var _ graph.BenchmarkQueries = (*BenchmarkRepository)(nil)
