package graphdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

func TestFieldScope(t *testing.T) {
	t.Run("without subfields binds the field itself", func(t *testing.T) {
		q, err := fieldScope(ids.MustThingID("R11"), false).Build("scope")
		require.NoError(t, err)
		assert.Contains(t, q.Text, "WITH field AS f")
		assert.NotContains(t, q.Text, "RELATED*0..")
		assert.Equal(t, "R11", q.Params["fieldId"])
	})

	t.Run("with subfields follows has-subfield paths only", func(t *testing.T) {
		q, err := fieldScope(ids.MustThingID("R11"), true).Build("scope")
		require.NoError(t, err)
		assert.Contains(t, q.Text, "path = (field)-[:RELATED*0..]->(sub:Resource)")
		assert.Contains(t, q.Text, "all(r IN relationships(path) WHERE r.predicate_id = $subfieldPredicate)")
		assert.Contains(t, q.Text, "WITH DISTINCT sub AS f")
		assert.Equal(t, "P36", q.Params["subfieldPredicate"])
		assert.Equal(t, "ResearchField", q.Params["researchFieldClass"])
	})
}

func TestVocabularyIsNeverInlined(t *testing.T) {
	q, err := papersInScope(fieldScope(ids.MustThingID("R11"), true)).Return("paper").Build("papers")
	require.NoError(t, err)
	for _, id := range []string{"P30", "P36", "Paper", "ResearchField", "R11"} {
		assert.NotContains(t, q.Text, "'"+id+"'")
		assert.NotContains(t, q.Text, "\""+id+"\"")
	}
	assert.Equal(t, "P30", q.Params["fieldPredicate"])
	assert.Equal(t, "Paper", q.Params["paperClass"])
}

func TestFindPapersOfField(t *testing.T) {
	exec := newFakeExecutor().
		respond("research_field.papers",
			record("node", resourceNode("R1", "a", "Paper")),
			record("node", resourceNode("R2", "b", "Paper"))).
		respond("research_field.papers.count", countRecord(30))

	fields := NewGraph(exec).ResearchFields()
	page, err := fields.FindPapers(context.Background(), ids.MustThingID("R11"), graph.FieldContentQuery{
		IncludeSubfields: true,
		Visibility:       graph.FilterAllListed,
	}, paging.Of(0, 2))
	require.NoError(t, err)

	require.Len(t, page.Content, 2)
	assert.Equal(t, int64(30), page.TotalElements)
	assert.True(t, page.HasNext())

	q, _ := exec.query("research_field.papers")
	assert.Contains(t, q.Text, "RELATED*0..")
	assert.Contains(t, q.Text, "$paperClass IN node.classes")
	assert.Equal(t, []string{"DEFAULT", "FEATURED"}, q.Params["visibilities"])
	assert.Equal(t, []string{"research_field.papers", "research_field.papers.count"}, exec.operations())
}

func TestFindPapersOfMissingFieldIsEmpty(t *testing.T) {
	exec := newFakeExecutor()
	page, err := NewGraph(exec).ResearchFields().FindPapers(context.Background(), ids.MustThingID("R404"),
		graph.FieldContentQuery{Visibility: graph.FilterAllListed}, paging.Of(0, 10))
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(0), page.TotalElements)
}

func TestFindComparisonsAndProblemsOfField(t *testing.T) {
	exec := newFakeExecutor()
	fields := NewGraph(exec).ResearchFields()
	field := ids.MustThingID("R11")
	query := graph.FieldContentQuery{Visibility: graph.FilterFeatured}

	_, err := fields.FindComparisons(context.Background(), field, query, paging.Of(0, 10))
	require.NoError(t, err)
	_, err = fields.FindProblems(context.Background(), field, query, paging.Of(0, 10))
	require.NoError(t, err)

	comparisons, _ := exec.query("research_field.comparisons")
	assert.Contains(t, comparisons.Text, "predicate_id: $comparePredicate")
	assert.Contains(t, comparisons.Text, "$comparisonClass IN node.classes")
	assert.Equal(t, []string{"FEATURED"}, comparisons.Params["visibilities"])

	problems, _ := exec.query("research_field.problems")
	assert.Contains(t, problems.Text, "predicate_id: $problemPredicate")
	assert.Contains(t, problems.Text, "WITH DISTINCT node")
}

func TestFindProblemsWithPaperCount(t *testing.T) {
	exec := newFakeExecutor().
		respond("research_field.problems_with_paper_count",
			record("node", resourceNode("R5", "QA", "Problem"), "papers", int64(4))).
		respond("research_field.problems_with_paper_count.count", countRecord(1))

	page, err := NewGraph(exec).ResearchFields().FindProblemsWithPaperCount(context.Background(), ids.MustThingID("R11"), paging.Of(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "QA", page.Content[0].Problem.Label)
	assert.Equal(t, int64(4), page.Content[0].Papers)

	q, _ := exec.query("research_field.problems_with_paper_count")
	assert.Contains(t, q.Text, "ORDER BY papers DESC, node.id ASC")

	_, err = NewGraph(newFakeExecutor()).ResearchFields().FindProblemsWithPaperCount(context.Background(), ids.MustThingID("R11"),
		paging.Of(0, 10, paging.Order{Property: "papers", Direction: paging.Asc}))
	require.NoError(t, err)
}

func TestFindContributorIDs(t *testing.T) {
	alice := ids.NewContributorID()
	bob := ids.NewContributorID()
	exec := newFakeExecutor().
		respond("research_field.contributors", record("contributor", alice.String()), record("contributor", bob.String())).
		respond("research_field.contributors.count", countRecord(2))

	page, err := NewGraph(exec).ResearchFields().FindContributorIDs(context.Background(), ids.MustThingID("R11"), true, paging.Of(0, 10))
	require.NoError(t, err)
	assert.Equal(t, []ids.ContributorID{alice, bob}, page.Content)

	q, _ := exec.query("research_field.contributors")
	assert.Contains(t, q.Text, "contributor IS NOT NULL")
	assert.Contains(t, q.Text, "contributor <> $unknownContributor")
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", q.Params["unknownContributor"])
	assert.Contains(t, q.Text, "comparison.created_by")
}

func TestFindSubfields(t *testing.T) {
	exec := newFakeExecutor().
		respond("research_field.subfields",
			record("node", resourceNode("R20", "NLP", "ResearchField"), "child_count", int64(3)),
			record("node", resourceNode("R21", "Vision", "ResearchField"), "child_count", int64(0))).
		respond("research_field.subfields.count", countRecord(2))

	page, err := NewGraph(exec).ResearchFields().FindSubfields(context.Background(), ids.MustThingID("R11"), paging.Of(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, int64(3), page.Content[0].ChildCount)
	assert.Equal(t, "Vision", page.Content[1].Resource.Label)

	q, _ := exec.query("research_field.subfields")
	assert.Contains(t, q.Text, "ORDER BY node.id ASC")
}

func TestFindParent(t *testing.T) {
	exec := newFakeExecutor().respond("research_field.parent", record("node", resourceNode("R1", "Science", "ResearchField")))
	fields := NewGraph(exec).ResearchFields()

	parent, found, err := fields.FindParent(context.Background(), ids.MustThingID("R11"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "R1", parent.ID.String())

	q, _ := exec.query("research_field.parent")
	assert.Equal(t, int64(1), q.Params["limit"])

	_, found, err = fields.FindParent(context.Background(), ids.MustThingID("R1"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindRoots(t *testing.T) {
	exec := newFakeExecutor().respond("research_field.roots",
		record("node", resourceNode("R1", "Science", "ResearchField")),
		record("node", resourceNode("R2", "Humanities", "ResearchField")))

	roots, err := NewGraph(exec).ResearchFields().FindRoots(context.Background(), ids.MustThingID("R11"))
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "R1", roots[0].ID.String())

	q, _ := exec.query("research_field.roots")
	assert.Contains(t, q.Text, "RELATED*1..")
	assert.Contains(t, q.Text, "NOT EXISTS")
	assert.Contains(t, q.Text, "ORDER BY node.id ASC")

	roots, err = NewGraph(newFakeExecutor()).ResearchFields().FindRoots(context.Background(), ids.MustThingID("R1"))
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestProblemQueries(t *testing.T) {
	exec := newFakeExecutor().
		respond("problem.research_fields",
			record("node", resourceNode("R11", "AI", "ResearchField"), "papers", int64(9))).
		respond("problem.research_fields.count", countRecord(1))
	problems := NewGraph(exec).Problems()
	problem := ids.MustThingID("R5")

	fields, err := problems.FindResearchFields(context.Background(), problem, paging.Of(0, 10))
	require.NoError(t, err)
	require.Len(t, fields.Content, 1)
	assert.Equal(t, int64(9), fields.Content[0].Papers)

	_, err = problems.FindContributions(context.Background(), problem, graph.FilterUnlisted, paging.Of(0, 10))
	require.NoError(t, err)
	_, err = problems.FindPapers(context.Background(), problem, graph.FilterAllListed, paging.Of(0, 10))
	require.NoError(t, err)
	_, err = problems.FindDatasets(context.Background(), problem, paging.Of(0, 10))
	require.NoError(t, err)

	contributions, _ := exec.query("problem.contributions")
	assert.Equal(t, "R5", contributions.Params["problemId"])
	assert.Equal(t, []string{"UNLISTED"}, contributions.Params["visibilities"])

	datasets, _ := exec.query("problem.datasets")
	assert.Contains(t, datasets.Text, "$datasetClass IN node.classes")
}
