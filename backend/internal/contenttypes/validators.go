package contenttypes

import (
	"context"
	"strings"

	"orkg-backend/backend/internal/community"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
)

const maxDescriptionLength = graph.MaxLabelLength

// checkLabel requires a non-blank label that satisfies the label grammar
func checkLabel(label, property string) error {
	if strings.TrimSpace(label) == "" || !graph.ValidateLabel(label) {
		return graph.NewInvalidLabel(property)
	}
	return nil
}

// checkLiteral runs the checks the literal service applies before value is written
func checkLiteral(value, datatype, property string) error {
	if len(value) > graph.MaxLabelLength {
		return graph.NewInvalidLabel(property)
	}
	return graph.ValidateLiteralValue(value, datatype)
}

// checkDescription accepts an empty description; a given one must not be blank
func checkDescription(description string) error {
	if description == "" {
		return nil
	}
	if strings.TrimSpace(description) == "" || len(description) > maxDescriptionLength {
		return NewInvalidDescription()
	}
	return nil
}

func requireResearchField(ctx context.Context, resources graph.ResourceRepository, id ids.ThingID) error {
	field, ok, err := resources.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok || !field.HasClass(graph.ClassResearchField) {
		return graph.NewResearchFieldNotFound(id)
	}
	return nil
}

func requireObservatories(ctx context.Context, lookup ObservatoryLookup, observatories []ids.ObservatoryID) error {
	for _, id := range observatories {
		ok, err := lookup.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return community.NewObservatoryNotFound(id)
		}
	}
	return nil
}

func requireOrganizations(ctx context.Context, lookup OrganizationLookup, organizations []ids.OrganizationID) error {
	for _, id := range organizations {
		ok, err := lookup.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return community.NewOrganizationNotFound(id)
		}
	}
	return nil
}

func requirePredicate(ctx context.Context, predicates graph.PredicateRepository, id ids.ThingID) error {
	ok, err := predicates.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return graph.NewPredicateNotFound(id)
	}
	return nil
}

func requireClass(ctx context.Context, classes graph.ClassRepository, id ids.ThingID) error {
	ok, err := classes.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return graph.NewClassNotFound(id)
	}
	return nil
}

// first returns the first element of s or the zero value
func first[T any](s []T) T {
	var zero T
	if len(s) == 0 {
		return zero
	}
	return s[0]
}

// Author names a paper or comparison author: an existing author resource or a plain name
type Author struct {
	ID   ids.ThingID `json:"id,omitzero"`
	Name string      `json:"name"`
}

func requireAuthors(ctx context.Context, resources graph.ResourceRepository, authors []Author) error {
	for _, a := range authors {
		if a.ID.IsZero() {
			if err := checkLabel(a.Name, "author name"); err != nil {
				return err
			}
			continue
		}
		ok, err := resources.Exists(ctx, a.ID)
		if err != nil {
			return err
		}
		if !ok {
			return NewAuthorNotFound(a.ID)
		}
	}
	return nil
}

// linkAuthors points subject at each author, in order, creating name literals
// for authors without a resource
func (w writer) linkAuthors(ctx context.Context, subject ids.ThingID, authors []Author, contributor ids.ContributorID) error {
	for _, a := range authors {
		if !a.ID.IsZero() {
			if err := w.link(ctx, subject, graph.PredicateHasAuthor, a.ID, contributor); err != nil {
				return err
			}
			continue
		}
		if err := w.literalStatement(ctx, subject, graph.PredicateHasAuthor, a.Name, graph.DatatypeString, contributor); err != nil {
			return err
		}
	}
	return nil
}
