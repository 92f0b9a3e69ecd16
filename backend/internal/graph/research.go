package graph

import (
	"context"

	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

// ResearchService fronts the traversal queries. Queries return empty pages for
// missing nodes; this layer reports them as not found.
type ResearchService struct {
	resources  ResourceRepository
	fields     ResearchFieldQueries
	problems   ProblemQueries
	benchmarks BenchmarkQueries
}

func NewResearchService(resources ResourceRepository, fields ResearchFieldQueries, problems ProblemQueries, benchmarks BenchmarkQueries) *ResearchService {
	return &ResearchService{resources: resources, fields: fields, problems: problems, benchmarks: benchmarks}
}

func (s *ResearchService) requireClass(ctx context.Context, id, class ids.ThingID, notFound func(ids.ThingID) error) error {
	r, ok, err := s.resources.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok || !r.HasClass(class) {
		return notFound(id)
	}
	return nil
}

func (s *ResearchService) requireField(ctx context.Context, id ids.ThingID) error {
	return s.requireClass(ctx, id, ClassResearchField, func(id ids.ThingID) error { return NewResearchFieldNotFound(id) })
}

func (s *ResearchService) requireProblem(ctx context.Context, id ids.ThingID) error {
	return s.requireClass(ctx, id, ClassProblem, func(id ids.ThingID) error { return NewProblemNotFound(id) })
}

func (s *ResearchService) requireDataset(ctx context.Context, id ids.ThingID) error {
	return s.requireClass(ctx, id, ClassDataset, func(id ids.ThingID) error { return NewDatasetNotFound(id) })
}

// ============================================================================
// Research fields
// ============================================================================

func (s *ResearchService) PapersOfField(ctx context.Context, fieldID ids.ThingID, q FieldContentQuery, req paging.Request) (paging.Page[Resource], error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return paging.Page[Resource]{}, err
	}
	return s.fields.FindPapers(ctx, fieldID, q, req)
}

func (s *ResearchService) ComparisonsOfField(ctx context.Context, fieldID ids.ThingID, q FieldContentQuery, req paging.Request) (paging.Page[Resource], error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return paging.Page[Resource]{}, err
	}
	return s.fields.FindComparisons(ctx, fieldID, q, req)
}

func (s *ResearchService) ProblemsOfField(ctx context.Context, fieldID ids.ThingID, q FieldContentQuery, req paging.Request) (paging.Page[Resource], error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return paging.Page[Resource]{}, err
	}
	return s.fields.FindProblems(ctx, fieldID, q, req)
}

func (s *ResearchService) ProblemsOfFieldWithPaperCount(ctx context.Context, fieldID ids.ThingID, req paging.Request) (paging.Page[ProblemWithPaperCount], error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return paging.Page[ProblemWithPaperCount]{}, err
	}
	return s.fields.FindProblemsWithPaperCount(ctx, fieldID, req)
}

func (s *ResearchService) ContributorsOfField(ctx context.Context, fieldID ids.ThingID, includeSubfields bool, req paging.Request) (paging.Page[ids.ContributorID], error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return paging.Page[ids.ContributorID]{}, err
	}
	return s.fields.FindContributorIDs(ctx, fieldID, includeSubfields, req)
}

func (s *ResearchService) Subfields(ctx context.Context, fieldID ids.ThingID, req paging.Request) (paging.Page[SubfieldWithChildCount], error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return paging.Page[SubfieldWithChildCount]{}, err
	}
	return s.fields.FindSubfields(ctx, fieldID, req)
}

// ParentOf returns the parent field; ok is false for a root field.
func (s *ResearchService) ParentOf(ctx context.Context, fieldID ids.ThingID) (Resource, bool, error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return Resource{}, false, err
	}
	return s.fields.FindParent(ctx, fieldID)
}

func (s *ResearchService) RootsOf(ctx context.Context, fieldID ids.ThingID) ([]Resource, error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return nil, err
	}
	return s.fields.FindRoots(ctx, fieldID)
}

func (s *ResearchService) FieldsWithBenchmarks(ctx context.Context, req paging.Request) (paging.Page[Resource], error) {
	return s.fields.FindFieldsWithBenchmarks(ctx, req)
}

// ============================================================================
// Research problems
// ============================================================================

func (s *ResearchService) ContributionsOfProblem(ctx context.Context, problemID ids.ThingID, visibility VisibilityFilter, req paging.Request) (paging.Page[Resource], error) {
	if err := s.requireProblem(ctx, problemID); err != nil {
		return paging.Page[Resource]{}, err
	}
	return s.problems.FindContributions(ctx, problemID, visibility, req)
}

func (s *ResearchService) PapersOfProblem(ctx context.Context, problemID ids.ThingID, visibility VisibilityFilter, req paging.Request) (paging.Page[Resource], error) {
	if err := s.requireProblem(ctx, problemID); err != nil {
		return paging.Page[Resource]{}, err
	}
	return s.problems.FindPapers(ctx, problemID, visibility, req)
}

func (s *ResearchService) FieldsOfProblem(ctx context.Context, problemID ids.ThingID, req paging.Request) (paging.Page[FieldWithPaperCount], error) {
	if err := s.requireProblem(ctx, problemID); err != nil {
		return paging.Page[FieldWithPaperCount]{}, err
	}
	return s.problems.FindResearchFields(ctx, problemID, req)
}

func (s *ResearchService) DatasetsOfProblem(ctx context.Context, problemID ids.ThingID, req paging.Request) (paging.Page[Resource], error) {
	if err := s.requireProblem(ctx, problemID); err != nil {
		return paging.Page[Resource]{}, err
	}
	return s.problems.FindDatasets(ctx, problemID, req)
}

// ============================================================================
// Benchmarks
// ============================================================================

func (s *ResearchService) BenchmarkSummaries(ctx context.Context, req paging.Request) (paging.Page[BenchmarkSummary], error) {
	return s.benchmarks.SummarizeBenchmarks(ctx, req)
}

func (s *ResearchService) BenchmarkSummariesOfField(ctx context.Context, fieldID ids.ThingID, includeSubfields bool, req paging.Request) (paging.Page[BenchmarkSummary], error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return paging.Page[BenchmarkSummary]{}, err
	}
	return s.benchmarks.SummarizeBenchmarksByField(ctx, fieldID, includeSubfields, req)
}

func (s *ResearchService) ProblemsOfDataset(ctx context.Context, datasetID ids.ThingID, req paging.Request) (paging.Page[Resource], error) {
	if err := s.requireDataset(ctx, datasetID); err != nil {
		return paging.Page[Resource]{}, err
	}
	return s.benchmarks.FindProblemsForDataset(ctx, datasetID, req)
}

func (s *ResearchService) DatasetSummary(ctx context.Context, datasetID, problemID ids.ThingID, req paging.Request) (paging.Page[DatasetSummary], error) {
	if err := s.requireDataset(ctx, datasetID); err != nil {
		return paging.Page[DatasetSummary]{}, err
	}
	if err := s.requireProblem(ctx, problemID); err != nil {
		return paging.Page[DatasetSummary]{}, err
	}
	return s.benchmarks.SummarizeDataset(ctx, datasetID, problemID, req)
}
