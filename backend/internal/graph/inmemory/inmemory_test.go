package inmemory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

func saveResource(t *testing.T, g *Graph, id, label string, at time.Time, classes ...ids.ThingID) graph.Resource {
	t.Helper()
	r := graph.Resource{
		ID:         ids.MustThingID(id),
		Label:      label,
		Classes:    classes,
		CreatedAt:  at,
		Visibility: graph.VisibilityDefault,
	}
	require.NoError(t, g.Resources().Save(context.Background(), r))
	return r
}

func TestNextIdentity_UniqueUnderConcurrency(t *testing.T) {
	g := NewGraph()
	repo := g.Resources()

	var mu sync.Mutex
	seen := make(map[ids.ThingID]bool)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.NextIdentity(context.Background())
			assert.NoError(t, err)
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}

func TestNextIdentity_PrefixesPerKind(t *testing.T) {
	g := NewGraph()
	ctx := context.Background()

	r, _ := g.Resources().NextIdentity(ctx)
	p, _ := g.Predicates().NextIdentity(ctx)
	c, _ := g.Classes().NextIdentity(ctx)
	l, _ := g.Literals().NextIdentity(ctx)
	s, _ := g.Statements().NextIdentity(ctx)

	assert.Equal(t, "R1", r.String())
	assert.Equal(t, "P1", p.String())
	assert.Equal(t, "C1", c.String())
	assert.Equal(t, "L1", l.String())
	assert.Equal(t, "S1", s.String())
}

func TestResourceRepository_FindAllFiltersSortsAndPages(t *testing.T) {
	g := NewGraph()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	paper := ids.MustThingID("Paper")

	for i := 0; i < 5; i++ {
		saveResource(t, g, fmt.Sprintf("R%d", i+1), fmt.Sprintf("paper %d", i+1), base.Add(time.Duration(i)*time.Hour), paper)
	}
	saveResource(t, g, "R10", "other", base, ids.MustThingID("Problem"))

	page, err := g.Resources().FindAll(context.Background(), graph.ResourceFilter{Classes: []ids.ThingID{paper}}, paging.Of(0, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalElements)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "R1", page.Content[0].ID.String())
	assert.Equal(t, "R2", page.Content[1].ID.String())

	desc := paging.Of(0, 1, paging.Order{Property: "created_at", Direction: paging.Desc})
	page, err = g.Resources().FindAll(context.Background(), graph.ResourceFilter{Classes: []ids.ThingID{paper}}, desc)
	require.NoError(t, err)
	assert.Equal(t, "R5", page.Content[0].ID.String())

	page, err = g.Resources().FindAll(context.Background(), graph.ResourceFilter{Label: "OTHER"}, paging.Of(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "R10", page.Content[0].ID.String())
}

func TestResourceRepository_FindAllRejectsUnknownSort(t *testing.T) {
	g := NewGraph()
	_, err := g.Resources().FindAll(context.Background(), graph.ResourceFilter{},
		paging.Of(0, 10, paging.Order{Property: "shoe_size", Direction: paging.Asc}))
	var unknown *paging.ErrUnknownSortingProperty
	assert.ErrorAs(t, err, &unknown)
}

func TestResourceRepository_SaveCopiesClasses(t *testing.T) {
	g := NewGraph()
	classes := []ids.ThingID{ids.MustThingID("Paper")}
	saveResource(t, g, "R1", "x", time.Now(), classes...)
	classes[0] = ids.MustThingID("Problem")

	r, ok, err := g.Resources().FindByID(context.Background(), ids.MustThingID("R1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Paper", r.Classes[0].String())
}

func TestStatementRepository_ResolvesCurrentNodes(t *testing.T) {
	g := NewGraph()
	ctx := context.Background()
	now := time.Now()
	subject := saveResource(t, g, "R1", "before", now)
	object := saveResource(t, g, "R2", "object", now)
	predicate := graph.Predicate{ID: ids.MustThingID("P1"), Label: "relates"}
	require.NoError(t, g.Predicates().Save(ctx, predicate))

	id, err := g.Statements().NextIdentity(ctx)
	require.NoError(t, err)
	require.NoError(t, g.Statements().Save(ctx, graph.GeneralStatement{
		ID: id, Subject: subject, Predicate: predicate, Object: object, CreatedAt: now,
	}))

	subject.Label = "after"
	require.NoError(t, g.Resources().Save(ctx, subject))

	st, ok, err := g.Statements().FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "after", st.Subject.ThingLabel())

	count, err := g.Statements().Count(ctx, graph.StatementFilter{ObjectLabel: "object"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, g.Statements().Delete(ctx, id))
	_, ok, err = g.Statements().FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestThingRepository_FindsEveryVariant(t *testing.T) {
	g := NewGraph()
	ctx := context.Background()
	saveResource(t, g, "R1", "r", time.Now())
	require.NoError(t, g.Predicates().Save(ctx, graph.Predicate{ID: ids.MustThingID("P1")}))
	require.NoError(t, g.Classes().Save(ctx, graph.Class{ID: ids.MustThingID("C1")}))
	require.NoError(t, g.Literals().Save(ctx, graph.Literal{ID: ids.MustThingID("L1")}))

	for id, kind := range map[string]graph.Kind{
		"R1": graph.KindResource,
		"P1": graph.KindPredicate,
		"C1": graph.KindClass,
		"L1": graph.KindLiteral,
	} {
		thing, ok, err := g.Things().FindByID(ctx, ids.MustThingID(id))
		require.NoError(t, err)
		require.True(t, ok, id)
		assert.Equal(t, kind, graph.KindOf(thing))
	}

	_, ok, err := g.Things().FindByID(ctx, ids.MustThingID("X1"))
	require.NoError(t, err)
	assert.False(t, ok)
}
