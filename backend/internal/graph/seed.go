package graph

import (
	"context"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/pkg/logger"
)

// SeedVocabulary creates the vocabulary classes and predicates that are still missing
// and reports how many it created. Reserved classes are written directly, since the
// class service refuses them.
func SeedVocabulary(ctx context.Context, classes ClassRepository, predicates PredicateRepository) (int, error) {
	log := logger.Named("seed")
	now := utcNow()
	created := 0

	classLabels := VocabularyClasses()
	for _, id := range sortedIDs(classLabels) {
		ok, err := classes.Exists(ctx, id)
		if err != nil {
			return created, err
		}
		if ok {
			continue
		}
		if err := classes.Save(ctx, Class{ID: id, Label: classLabels[id], CreatedAt: now}); err != nil {
			return created, err
		}
		created++
	}

	predicateLabels := VocabularyPredicates()
	for _, id := range sortedIDs(predicateLabels) {
		ok, err := predicates.Exists(ctx, id)
		if err != nil {
			return created, err
		}
		if ok {
			continue
		}
		if err := predicates.Save(ctx, Predicate{ID: id, Label: predicateLabels[id], CreatedAt: now}); err != nil {
			return created, err
		}
		created++
	}

	log.Info("vocabulary seeded", zap.Int("created", created))
	return created, nil
}

func sortedIDs(m map[ids.ThingID]string) []ids.ThingID {
	return slices.SortedFunc(maps.Keys(m), func(a, b ids.ThingID) int {
		return strings.Compare(a.String(), b.String())
	})
}
