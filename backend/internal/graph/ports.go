package graph

import (
	"context"

	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

// Repositories return (zero, false, nil) for a missing node. Turning that into a
// not-found error is the caller's decision.

// NodeRepository stores one node variant
type NodeRepository[T Thing] interface {
	NextIdentity(ctx context.Context) (ids.ThingID, error)
	Save(ctx context.Context, node T) error
	FindByID(ctx context.Context, id ids.ThingID) (T, bool, error)
	Exists(ctx context.Context, id ids.ThingID) (bool, error)
}

type ResourceRepository interface {
	NodeRepository[Resource]
	FindAll(ctx context.Context, filter ResourceFilter, req paging.Request) (paging.Page[Resource], error)
}

type (
	PredicateRepository = NodeRepository[Predicate]
	ClassRepository     = NodeRepository[Class]
	LiteralRepository   = NodeRepository[Literal]
)

// ThingRepository looks up a node regardless of its variant
type ThingRepository interface {
	FindByID(ctx context.Context, id ids.ThingID) (Thing, bool, error)
}

type StatementRepository interface {
	NextIdentity(ctx context.Context) (ids.StatementID, error)
	Save(ctx context.Context, statement GeneralStatement) error
	FindByID(ctx context.Context, id ids.StatementID) (GeneralStatement, bool, error)
	FindAll(ctx context.Context, filter StatementFilter, req paging.Request) (paging.Page[GeneralStatement], error)
	Count(ctx context.Context, filter StatementFilter) (int64, error)
	Delete(ctx context.Context, id ids.StatementID) error
}

// FieldContentQuery selects content attached to a research field
type FieldContentQuery struct {
	IncludeSubfields bool
	Visibility       VisibilityFilter
}

// ResearchFieldQueries traverses the research-field hierarchy
type ResearchFieldQueries interface {
	FindPapers(ctx context.Context, fieldID ids.ThingID, q FieldContentQuery, req paging.Request) (paging.Page[Resource], error)
	FindComparisons(ctx context.Context, fieldID ids.ThingID, q FieldContentQuery, req paging.Request) (paging.Page[Resource], error)
	FindProblems(ctx context.Context, fieldID ids.ThingID, q FieldContentQuery, req paging.Request) (paging.Page[Resource], error)
	FindProblemsWithPaperCount(ctx context.Context, fieldID ids.ThingID, req paging.Request) (paging.Page[ProblemWithPaperCount], error)
	FindContributorIDs(ctx context.Context, fieldID ids.ThingID, includeSubfields bool, req paging.Request) (paging.Page[ids.ContributorID], error)
	FindFieldsWithBenchmarks(ctx context.Context, req paging.Request) (paging.Page[Resource], error)
	FindSubfields(ctx context.Context, fieldID ids.ThingID, req paging.Request) (paging.Page[SubfieldWithChildCount], error)
	FindParent(ctx context.Context, fieldID ids.ThingID) (Resource, bool, error)
	FindRoots(ctx context.Context, fieldID ids.ThingID) ([]Resource, error)
}

// ProblemQueries answers research-problem centric questions
type ProblemQueries interface {
	FindContributions(ctx context.Context, problemID ids.ThingID, visibility VisibilityFilter, req paging.Request) (paging.Page[Resource], error)
	FindPapers(ctx context.Context, problemID ids.ThingID, visibility VisibilityFilter, req paging.Request) (paging.Page[Resource], error)
	FindResearchFields(ctx context.Context, problemID ids.ThingID, req paging.Request) (paging.Page[FieldWithPaperCount], error)
	FindDatasets(ctx context.Context, problemID ids.ThingID, req paging.Request) (paging.Page[Resource], error)
}

// BenchmarkQueries aggregates benchmark and dataset results
type BenchmarkQueries interface {
	SummarizeBenchmarks(ctx context.Context, req paging.Request) (paging.Page[BenchmarkSummary], error)
	SummarizeBenchmarksByField(ctx context.Context, fieldID ids.ThingID, includeSubfields bool, req paging.Request) (paging.Page[BenchmarkSummary], error)
	FindProblemsForDataset(ctx context.Context, datasetID ids.ThingID, req paging.Request) (paging.Page[Resource], error)
	SummarizeDataset(ctx context.Context, datasetID, problemID ids.ThingID, req paging.Request) (paging.Page[DatasetSummary], error)
}
