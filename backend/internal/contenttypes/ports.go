// Package contenttypes creates the structured content of the graph (templates, papers and
// comparisons) by running commands through validation and creation pipelines.
package contenttypes

import (
	"context"
	"slices"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

// ObservatoryLookup reports whether an observatory exists
type ObservatoryLookup interface {
	Exists(ctx context.Context, id ids.ObservatoryID) (bool, error)
}

// OrganizationLookup reports whether an organization exists
type OrganizationLookup interface {
	Exists(ctx context.Context, id ids.OrganizationID) (bool, error)
}

// Ports bundles the stores the pipelines read from and write to
type Ports struct {
	Resources     graph.ResourceRepository
	Predicates    graph.PredicateRepository
	Classes       graph.ClassRepository
	Literals      graph.LiteralRepository
	Things        graph.ThingRepository
	Statements    graph.StatementRepository
	Observatories ObservatoryLookup
	Organizations OrganizationLookup
}

// writer creates nodes and statements through the graph services, so every write
// goes through the same checks as a direct API call.
type writer struct {
	resources  *graph.ResourceService
	literals   *graph.LiteralService
	statements *graph.StatementService
	store      graph.StatementRepository
}

func newWriter(p Ports) writer {
	return writer{
		resources:  graph.NewResourceService(p.Resources, p.Classes),
		literals:   graph.NewLiteralService(p.Literals),
		statements: graph.NewStatementService(p.Things, p.Predicates, p.Statements),
		store:      p.Statements,
	}
}

func (w writer) resource(ctx context.Context, cmd graph.CreateResourceCommand) (ids.ThingID, error) {
	return w.resources.Create(ctx, cmd)
}

func (w writer) literal(ctx context.Context, value, datatype string, contributor ids.ContributorID) (ids.ThingID, error) {
	return w.literals.Create(ctx, graph.CreateLiteralCommand{Label: value, Datatype: datatype, Contributor: contributor})
}

func (w writer) link(ctx context.Context, subject, predicate, object ids.ThingID, contributor ids.ContributorID) error {
	_, err := w.statements.Add(ctx, graph.CreateStatementCommand{
		Subject:     subject,
		Predicate:   predicate,
		Object:      object,
		Contributor: contributor,
	})
	return err
}

// literalStatement creates a literal and points subject at it
func (w writer) literalStatement(ctx context.Context, subject, predicate ids.ThingID, value, datatype string, contributor ids.ContributorID) error {
	literal, err := w.literal(ctx, value, datatype, contributor)
	if err != nil {
		return err
	}
	return w.link(ctx, subject, predicate, literal, contributor)
}

// replaceLiteral leaves subject with at most one predicate statement, pointing at a literal
// holding value. An empty value removes the statements.
func (w writer) replaceLiteral(ctx context.Context, subject, predicate ids.ThingID, value, datatype string, contributor ids.ContributorID) error {
	current, err := statementsOf(ctx, w.store, graph.StatementFilter{Subject: subject, Predicate: predicate})
	if err != nil {
		return err
	}
	if value != "" && len(current) == 1 && current[0].Object.ThingLabel() == value {
		return nil
	}
	for _, st := range current {
		if err := w.statements.Delete(ctx, st.ID); err != nil {
			return err
		}
	}
	if value == "" {
		return nil
	}
	return w.literalStatement(ctx, subject, predicate, value, datatype, contributor)
}

// replaceObjects makes objects the exact set of objects subject points at through predicate.
// Statements to objects that stay are kept.
func (w writer) replaceObjects(ctx context.Context, subject, predicate ids.ThingID, objects []ids.ThingID, contributor ids.ContributorID) error {
	current, err := statementsOf(ctx, w.store, graph.StatementFilter{Subject: subject, Predicate: predicate})
	if err != nil {
		return err
	}
	linked := make(map[ids.ThingID]bool, len(objects))
	for _, st := range current {
		object := st.Object.ThingID()
		if slices.Contains(objects, object) && !linked[object] {
			linked[object] = true
			continue
		}
		if err := w.statements.Delete(ctx, st.ID); err != nil {
			return err
		}
	}
	for _, object := range objects {
		if linked[object] {
			continue
		}
		if err := w.link(ctx, subject, predicate, object, contributor); err != nil {
			return err
		}
		linked[object] = true
	}
	return nil
}

var pageOfOne = paging.Of(0, 1)

// statementsOf loads every statement matching filter
func statementsOf(ctx context.Context, statements graph.StatementRepository, filter graph.StatementFilter) ([]graph.GeneralStatement, error) {
	var all []graph.GeneralStatement
	fetch := func(ctx context.Context, req paging.Request) (paging.Page[graph.GeneralStatement], error) {
		return statements.FindAll(ctx, filter, req)
	}
	err := paging.ForEach(ctx, fetch, func(s graph.GeneralStatement) error {
		all = append(all, s)
		return nil
	}, nil, 500)
	return all, err
}

// firstObject returns the object of the first statement matching subject and predicate
func firstObject(ctx context.Context, statements graph.StatementRepository, subject, predicate ids.ThingID) (graph.Thing, bool, error) {
	page, err := statements.FindAll(ctx, graph.StatementFilter{Subject: subject, Predicate: predicate}, pageOfOne)
	if err != nil || len(page.Content) == 0 {
		return nil, false, err
	}
	return page.Content[0].Object, true, nil
}
