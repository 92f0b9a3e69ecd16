package contenttypes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/contenttypes"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/graph/inmemory"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

type observatories map[ids.ObservatoryID]bool

func (o observatories) Exists(_ context.Context, id ids.ObservatoryID) (bool, error) {
	return o[id], nil
}

type organizations map[ids.OrganizationID]bool

func (o organizations) Exists(_ context.Context, id ids.OrganizationID) (bool, error) {
	return o[id], nil
}

var (
	fieldID        = ids.MustThingID("R11")
	problemID      = ids.MustThingID("R5")
	authorID       = ids.MustThingID("R77")
	targetClassID  = ids.MustThingID("C100")
	stringClassID  = ids.MustThingID("String")
	pathID         = ids.MustThingID("P100")
	objectID       = ids.MustThingID("R90")
	observatoryID  = ids.NewObservatoryID()
	organizationID = ids.NewOrganizationID()
	contributor    = ids.NewContributorID()
)

type fixture struct {
	graph *inmemory.Graph
	ports contenttypes.Ports
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	g := inmemory.NewGraph()
	_, err := graph.SeedVocabulary(ctx, g.Classes(), g.Predicates())
	require.NoError(t, err)

	for _, r := range []graph.Resource{
		{ID: fieldID, Label: "Computer Science", Classes: []ids.ThingID{graph.ClassResearchField}},
		{ID: problemID, Label: "Entity linking", Classes: []ids.ThingID{graph.ClassProblem}},
		{ID: authorID, Label: "Jane Doe", Classes: []ids.ThingID{graph.ClassAuthor}},
		{ID: objectID, Label: "Some method"},
	} {
		require.NoError(t, g.Resources().Save(ctx, r))
	}
	require.NoError(t, g.Classes().Save(ctx, graph.Class{ID: targetClassID, Label: "Dataset description"}))
	require.NoError(t, g.Classes().Save(ctx, graph.Class{ID: stringClassID, Label: "String"}))
	require.NoError(t, g.Predicates().Save(ctx, graph.Predicate{ID: pathID, Label: "uses"}))

	return fixture{
		graph: g,
		ports: contenttypes.Ports{
			Resources:     g.Resources(),
			Predicates:    g.Predicates(),
			Classes:       g.Classes(),
			Literals:      g.Literals(),
			Things:        g.Things(),
			Statements:    g.Statements(),
			Observatories: observatories{observatoryID: true},
			Organizations: organizations{organizationID: true},
		},
	}
}

func (f fixture) statementCount(t *testing.T, filter graph.StatementFilter) int64 {
	t.Helper()
	n, err := f.graph.Statements().Count(context.Background(), filter)
	require.NoError(t, err)
	return n
}

func (f fixture) resourcesOfClass(t *testing.T, class ids.ThingID) []graph.Resource {
	t.Helper()
	page, err := f.graph.Resources().FindAll(context.Background(), graph.ResourceFilter{Classes: []ids.ThingID{class}}, paging.Of(0, 100))
	require.NoError(t, err)
	return page.Content
}

func intPtr(n int) *int { return &n }
