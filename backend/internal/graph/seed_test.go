package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/graph/inmemory"
)

func TestSeedVocabulary_IsIdempotent(t *testing.T) {
	store := inmemory.NewGraph()
	ctx := context.Background()
	want := len(graph.VocabularyClasses()) + len(graph.VocabularyPredicates())

	created, err := graph.SeedVocabulary(ctx, store.Classes(), store.Predicates())
	require.NoError(t, err)
	assert.Equal(t, want, created)

	list, ok, err := store.Classes().FindByID(ctx, graph.ClassList)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "List", list.Label)

	created, err = graph.SeedVocabulary(ctx, store.Classes(), store.Predicates())
	require.NoError(t, err)
	assert.Zero(t, created)
}
