package graph

import "orkg-backend/backend/internal/ids"

// ThingRef is the id/label pair used inside summaries
type ThingRef struct {
	ID    ids.ThingID `json:"id"`
	Label string      `json:"label"`
}

// BenchmarkSummary aggregates everything benchmarked for one research problem
type BenchmarkSummary struct {
	ResearchProblem ThingRef   `json:"research_problem"`
	ResearchFields  []ThingRef `json:"research_fields"`
	TotalPapers     int64      `json:"total_papers"`
	TotalDatasets   int64      `json:"total_datasets"`
	TotalCodes      int64      `json:"total_codes"`
}

// DatasetSummary is one evaluation result reported for a dataset
type DatasetSummary struct {
	ModelName  *string     `json:"model_name"`
	ModelID    *string     `json:"model_id"`
	Metric     string      `json:"metric"`
	Score      string      `json:"score"`
	PaperID    ids.ThingID `json:"paper_id"`
	PaperTitle string      `json:"paper_title"`
	PaperMonth *int        `json:"paper_month"`
	PaperYear  *int        `json:"paper_year"`
	CodeURLs   []string    `json:"code_urls"`
}

type ProblemWithPaperCount struct {
	Problem Resource `json:"problem"`
	Papers  int64    `json:"papers"`
}

type FieldWithPaperCount struct {
	Field  Resource `json:"field"`
	Papers int64    `json:"paper_count"`
}

type SubfieldWithChildCount struct {
	Resource   Resource `json:"resource"`
	ChildCount int64    `json:"child_count"`
}
