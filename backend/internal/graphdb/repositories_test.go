package graphdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
	apperrors "orkg-backend/backend/pkg/errors"
)

func TestNextIdentitySkipsTakenIDs(t *testing.T) {
	exec := newFakeExecutor().
		respond("id.next", record("value", int64(1))).
		respond("id.next", record("value", int64(2))).
		respond("thing.exists", record("found", true)).
		respond("thing.exists", record("found", false))

	id, err := NewGraph(exec).Resources().NextIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "R2", id.String())
	assert.Len(t, exec.writes, 2)

	q, _ := exec.query("id.next")
	assert.Equal(t, "R", q.Params["name"])
}

func TestNextIdentityFailsWithoutCounterValue(t *testing.T) {
	exec := newFakeExecutor()
	_, err := NewGraph(exec).Predicates().NextIdentity(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGraph))
}

func TestStatementNextIdentityChecksRelationships(t *testing.T) {
	exec := newFakeExecutor().respond("id.next", record("value", int64(5)))

	id, err := NewGraph(exec).Statements().NextIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "S5", id.String())
	assert.Equal(t, []string{"id.next", "statement.exists"}, exec.operations())
}

func TestResourceSaveBindsEveryProperty(t *testing.T) {
	exec := newFakeExecutor()
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	observatory := ids.NewObservatoryID()

	err := NewGraph(exec).Resources().Save(context.Background(), graph.Resource{
		ID:               ids.MustThingID("R10"),
		Label:            "Some paper",
		Classes:          []ids.ThingID{graph.ClassPaper},
		CreatedAt:        createdAt,
		CreatedBy:        ids.UnknownContributor,
		ObservatoryID:    observatory,
		Visibility:       graph.VisibilityFeatured,
		ExtractionMethod: graph.ExtractionManual,
		Modifiable:       true,
	})
	require.NoError(t, err)

	require.Len(t, exec.writes, 1)
	q := exec.writes[0]
	assert.Equal(t, "resource.save", q.Operation)
	assert.Contains(t, q.Text, "MERGE (n:Thing:Resource {id: $id})")
	assert.Equal(t, "R10", q.Params["id"])
	assert.Equal(t, []string{"Paper"}, q.Params["classes"])
	assert.Nil(t, q.Params["created_by"])
	assert.Nil(t, q.Params["organization_id"])
	assert.Equal(t, observatory.String(), q.Params["observatory_id"])
	assert.Equal(t, "FEATURED", q.Params["visibility"])
	assert.Equal(t, createdAt, q.Params["created_at"])
	assert.NotContains(t, q.Text, "Some paper")
}

func TestResourceFindByID(t *testing.T) {
	node := resourceNode("R1", "Deep learning", "Paper", "Comparison", "Paper")
	exec := newFakeExecutor().respond("resource.find_by_id", record("n", node))

	resource, found, err := NewGraph(exec).Resources().FindByID(context.Background(), ids.MustThingID("R1"))
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "R1", resource.ID.String())
	assert.Equal(t, "Deep learning", resource.Label)
	assert.Equal(t, []ids.ThingID{graph.ClassComparison, graph.ClassPaper}, resource.Classes)
	assert.Equal(t, graph.VisibilityDefault, resource.Visibility)
	assert.True(t, resource.CreatedBy.IsUnknown())
	assert.True(t, resource.Modifiable)

	_, found, err = NewGraph(newFakeExecutor()).Resources().FindByID(context.Background(), ids.MustThingID("R404"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResourceFindByIDPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	exec := newFakeExecutor().fail("resource.find_by_id", boom)
	_, found, err := NewGraph(exec).Resources().FindByID(context.Background(), ids.MustThingID("R1"))
	require.ErrorIs(t, err, boom)
	assert.False(t, found)
}

func TestThingFindByIDDecodesVariant(t *testing.T) {
	literal := neo4j.Node{
		Labels: []string{"Thing", "Literal"},
		Props:  map[string]any{"id": "L1", "label": "2021", "created_at": "2021-05-04T10:00:00Z"},
	}
	exec := newFakeExecutor().
		respond("thing.find_by_id", record("n", literal)).
		respond("thing.find_by_id", record("n", predicateNode("P30", "has research field")))

	things := NewGraph(exec).Things()

	thing, found, err := things.FindByID(context.Background(), ids.MustThingID("L1"))
	require.NoError(t, err)
	require.True(t, found)
	lit, ok := thing.(graph.Literal)
	require.True(t, ok)
	assert.Equal(t, graph.DatatypeString, lit.Datatype)
	assert.True(t, time.Date(2021, 5, 4, 10, 0, 0, 0, time.UTC).Equal(lit.CreatedAt))

	thing, _, err = things.FindByID(context.Background(), ids.MustThingID("P30"))
	require.NoError(t, err)
	assert.Equal(t, graph.KindPredicate, graph.KindOf(thing))
}

func TestResourceFindAllBindsFilter(t *testing.T) {
	contributor := ids.NewContributorID()
	exec := newFakeExecutor().
		respond("resource.find_all", record("node", resourceNode("R3", "x", "Problem"))).
		respond("resource.find_all.count", countRecord(1))

	page, err := NewGraph(exec).Resources().FindAll(context.Background(), graph.ResourceFilter{
		Label:      "X",
		Classes:    []ids.ThingID{graph.ClassProblem},
		Visibility: graph.FilterFeatured,
		CreatedBy:  contributor,
	}, paging.Of(0, 20, paging.Order{Property: "label", Direction: paging.Desc}))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(1), page.TotalElements)

	q, _ := exec.query("resource.find_all")
	assert.Contains(t, q.Text, "toLower(node.label) = toLower($label)")
	assert.Contains(t, q.Text, "all(c IN $classes WHERE c IN node.classes)")
	assert.Contains(t, q.Text, "coalesce(node.visibility, 'DEFAULT') IN $visibilities")
	assert.Contains(t, q.Text, "node.created_by = $created_by")
	assert.Contains(t, q.Text, "ORDER BY node.label DESC, node.id ASC\nSKIP")
	assert.Equal(t, []string{"FEATURED"}, q.Params["visibilities"])
	assert.Equal(t, contributor.String(), q.Params["created_by"])
}

func TestResourceFindAllWithoutFilterHasNoWhere(t *testing.T) {
	exec := newFakeExecutor()
	page, err := NewGraph(exec).Resources().FindAll(context.Background(), graph.ResourceFilter{}, paging.Of(0, 5))
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(0), page.TotalElements)

	q, _ := exec.query("resource.find_all")
	assert.NotContains(t, q.Text, "WHERE")
	assert.Contains(t, q.Text, "ORDER BY node.created_at ASC, node.id ASC\nSKIP")
}

func TestResourceFindAllRejectsUnknownSort(t *testing.T) {
	exec := newFakeExecutor()
	_, err := NewGraph(exec).Resources().FindAll(context.Background(), graph.ResourceFilter{},
		paging.Of(0, 5, paging.Order{Property: "classes"}))
	var unknown *paging.ErrUnknownSortingProperty
	require.True(t, errors.As(err, &unknown))
	assert.Empty(t, exec.operations())
}

func statementRecord(id string) *neo4j.Record {
	rel := neo4j.Relationship{
		Type:  "RELATED",
		Props: map[string]any{"id": id, "predicate_id": "P31", "created_by": nil},
	}
	return record(
		"s", resourceNode("R1", "paper", "Paper"),
		"r", rel,
		"p", predicateNode("P31", "has contribution"),
		"o", resourceNode("R2", "contribution", "Contribution"),
	)
}

func TestStatementFindAll(t *testing.T) {
	exec := newFakeExecutor().
		respond("statement.find_all", statementRecord("S1"), statementRecord("S2")).
		respond("statement.find_all.count", countRecord(12))

	page, err := NewGraph(exec).Statements().FindAll(context.Background(), graph.StatementFilter{
		Subject:   ids.MustThingID("R1"),
		Predicate: graph.PredicateHasContribution,
	}, paging.Of(0, 2))
	require.NoError(t, err)

	require.Len(t, page.Content, 2)
	assert.Equal(t, int64(12), page.TotalElements)
	st := page.Content[0]
	assert.Equal(t, "S1", st.ID.String())
	assert.Equal(t, "R1", st.Subject.ThingID().String())
	assert.Equal(t, "has contribution", st.Predicate.Label)
	assert.Equal(t, graph.KindResource, graph.KindOf(st.Object))
	assert.True(t, st.CreatedBy.IsUnknown())
	assert.True(t, st.Modifiable)

	q, _ := exec.query("statement.find_all")
	assert.Contains(t, q.Text, "s.id = $subject AND r.predicate_id = $predicate")
	assert.NotContains(t, q.Text, "o.id = $object")
	assert.Contains(t, q.Text, "ORDER BY r.created_at ASC, r.id ASC\nSKIP")
	assert.Equal(t, "P31", q.Params["predicate"])

	sorted := newFakeExecutor()
	_, err = NewGraph(sorted).Statements().FindAll(context.Background(), graph.StatementFilter{},
		paging.Of(1, 2, paging.Order{Property: "id", Direction: paging.Desc}))
	require.NoError(t, err)
	q, _ = sorted.query("statement.find_all")
	assert.Contains(t, q.Text, "ORDER BY r.id DESC\nSKIP")
}

func TestStatementFindByID(t *testing.T) {
	exec := newFakeExecutor().respond("statement.find_by_id", statementRecord("S7"))

	st, found, err := NewGraph(exec).Statements().FindByID(context.Background(), ids.MustStatementID("S7"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "S7", st.ID.String())
	assert.Equal(t, "R2", st.Object.ThingID().String())
}

func TestStatementCountAndDelete(t *testing.T) {
	exec := newFakeExecutor().respond("statement.count", countRecord(3))
	statements := NewGraph(exec).Statements()

	n, err := statements.Count(context.Background(), graph.StatementFilter{ObjectLabel: "ML"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	q, _ := exec.query("statement.count")
	assert.Contains(t, q.Text, "o.label = $object_label")
	assert.Equal(t, "ML", q.Params["object_label"])

	require.NoError(t, statements.Delete(context.Background(), ids.MustStatementID("S3")))
	assert.Equal(t, "statement.delete", exec.writes[0].Operation)
	assert.Equal(t, "S3", exec.writes[0].Params["id"])
}

func TestStatementSaveFailsForMissingEndpoints(t *testing.T) {
	exec := newFakeExecutor()
	err := NewGraph(exec).Statements().Save(context.Background(), graph.GeneralStatement{
		ID:        ids.MustStatementID("S1"),
		Subject:   graph.Resource{ID: ids.MustThingID("R1")},
		Predicate: graph.Predicate{ID: ids.MustThingID("P1")},
		Object:    graph.Resource{ID: ids.MustThingID("R2")},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	q := exec.writes[0]
	assert.Equal(t, "R1", q.Params["subject"])
	assert.Equal(t, "P1", q.Params["predicate"])
	assert.Equal(t, "R2", q.Params["object"])
	assert.Nil(t, q.Params["created_by"])
}

func TestStatementSaveNamesTheMissingEnd(t *testing.T) {
	statement := graph.GeneralStatement{
		ID:        ids.MustStatementID("S1"),
		Subject:   graph.Resource{ID: ids.MustThingID("R1")},
		Predicate: graph.Predicate{ID: ids.MustThingID("P1")},
		Object:    graph.Resource{ID: ids.MustThingID("R2")},
	}
	tests := []struct {
		name    string
		found   *neo4j.Record
		missing string
	}{
		{name: "subject", found: record("subject_found", false, "object_found", true), missing: `Thing "R1" not found.`},
		{name: "object", found: record("subject_found", true, "object_found", false), missing: `Thing "R2" not found.`},
		{name: "both", found: record("subject_found", false, "object_found", false), missing: `Thing "R1" not found.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newFakeExecutor().respond("statement.save", tt.found)
			err := NewGraph(exec).Statements().Save(context.Background(), statement)
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
			assert.Equal(t, tt.missing, err.Error())
		})
	}
}

func TestStatementSave(t *testing.T) {
	exec := newFakeExecutor().respond("statement.save", record("subject_found", true, "object_found", true))
	err := NewGraph(exec).Statements().Save(context.Background(), graph.GeneralStatement{
		ID:        ids.MustStatementID("S1"),
		Subject:   graph.Resource{ID: ids.MustThingID("R1")},
		Predicate: graph.Predicate{ID: ids.MustThingID("P1")},
		Object:    graph.Literal{ID: ids.MustThingID("L1")},
	})
	require.NoError(t, err)
}

func TestMigrateRunsEveryStepInOrder(t *testing.T) {
	exec := newFakeExecutor()
	require.NoError(t, Migrate(context.Background(), exec))

	ops := exec.operations()
	require.Len(t, ops, len(legacyRewrites)+len(schemaStatements))
	assert.Equal(t, "migrate.thing_label", ops[0])
	assert.Equal(t, "migrate.counter_constraint", ops[len(ops)-1])
	assert.Len(t, exec.writes, len(ops))
}

func TestMigrateStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	exec := newFakeExecutor().fail("migrate.class_id", boom)
	require.ErrorIs(t, Migrate(context.Background(), exec), boom)
	assert.Equal(t, "migrate.class_id", exec.operations()[len(exec.operations())-1])
}
