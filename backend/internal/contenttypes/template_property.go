package contenttypes

import (
	"context"
	"regexp"
	"strconv"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	apperrors "orkg-backend/backend/pkg/errors"
)

// PropertyDefinition describes one template property. Datatype and Class are mutually
// exclusive; both name a class.
type PropertyDefinition struct {
	Label        string      `json:"label"`
	Placeholder  string      `json:"placeholder,omitempty"`
	Description  string      `json:"description,omitempty"`
	MinCount     *int        `json:"min_count,omitempty"`
	MaxCount     *int        `json:"max_count,omitempty"`
	Pattern      string      `json:"pattern,omitempty"`
	Path         ids.ThingID `json:"path"`
	Datatype     ids.ThingID `json:"datatype,omitzero"`
	Class        ids.ThingID `json:"class,omitzero"`
	MinInclusive string      `json:"min_inclusive,omitempty"`
	MaxInclusive string      `json:"max_inclusive,omitempty"`
}

// CreateTemplatePropertyCommand appends a property to an existing template
type CreateTemplatePropertyCommand struct {
	TemplateID  ids.ThingID       `json:"-"`
	Contributor ids.ContributorID `json:"-"`
	PropertyDefinition
}

type templatePropertyState struct {
	template      graph.Resource
	propertyCount int
	propertyID    ids.ThingID
}

// checkProperty validates a property definition against the graph
func (s *TemplateService) checkProperty(ctx context.Context, def PropertyDefinition) error {
	if err := checkLabel(def.Label, "label"); err != nil {
		return err
	}
	if !graph.ValidateLabel(def.Placeholder) {
		return graph.NewInvalidLabel("placeholder")
	}
	if err := checkDescription(def.Description); err != nil {
		return err
	}
	if def.MinCount != nil && *def.MinCount < 0 {
		return NewInvalidMinCount(*def.MinCount)
	}
	if def.MaxCount != nil && *def.MaxCount < 0 {
		return NewInvalidMaxCount(*def.MaxCount)
	}
	// a max count of zero leaves the property unbounded
	if def.MinCount != nil && def.MaxCount != nil && *def.MaxCount > 0 && *def.MinCount > *def.MaxCount {
		return NewInvalidCardinality(*def.MinCount, *def.MaxCount)
	}
	if def.Path.IsZero() {
		return apperrors.NewValidation("path", "is required")
	}
	if err := requirePredicate(ctx, s.ports.Predicates, def.Path); err != nil {
		return err
	}
	if !def.Datatype.IsZero() && !def.Class.IsZero() {
		return apperrors.NewValidation("datatype", "must not be combined with a class")
	}
	for _, c := range []ids.ThingID{def.Datatype, def.Class} {
		if c.IsZero() {
			continue
		}
		if err := requireClass(ctx, s.ports.Classes, c); err != nil {
			return err
		}
	}
	if def.Pattern != "" {
		if err := checkLiteral(def.Pattern, graph.DatatypeString, "pattern"); err != nil {
			return err
		}
		if _, err := regexp.Compile(def.Pattern); err != nil {
			return NewInvalidRegexPattern(def.Pattern, err)
		}
	}
	return checkBounds(def.MinInclusive, def.MaxInclusive)
}

func checkBounds(minValue, maxValue string) error {
	if len(minValue) > graph.MaxLabelLength {
		return graph.NewInvalidLabel("min_inclusive")
	}
	if len(maxValue) > graph.MaxLabelLength {
		return graph.NewInvalidLabel("max_inclusive")
	}
	var lo, hi float64
	var err error
	if minValue != "" {
		if lo, err = strconv.ParseFloat(minValue, 64); err != nil {
			return apperrors.NewValidation("min_inclusive", "must be a number")
		}
	}
	if maxValue != "" {
		if hi, err = strconv.ParseFloat(maxValue, 64); err != nil {
			return apperrors.NewValidation("max_inclusive", "must be a number")
		}
	}
	if minValue != "" && maxValue != "" && lo > hi {
		return NewInvalidBounds(minValue, maxValue)
	}
	return nil
}

// createProperty writes a property shape and attaches it to the template at position order
func (s *TemplateService) createProperty(ctx context.Context, templateID ids.ThingID, def PropertyDefinition, order int, contributor ids.ContributorID) (ids.ThingID, error) {
	w := s.writer
	property, err := w.resource(ctx, graph.CreateResourceCommand{
		Label:       def.Label,
		Classes:     []ids.ThingID{graph.ClassPropertyShape},
		Contributor: contributor,
	})
	if err != nil {
		return ids.ThingID{}, err
	}

	type attribute struct {
		predicate ids.ThingID
		value     string
		datatype  string
	}
	var attributes []attribute
	if def.Placeholder != "" {
		attributes = append(attributes, attribute{graph.PredicatePlaceholder, def.Placeholder, graph.DatatypeString})
	}
	if def.Description != "" {
		attributes = append(attributes, attribute{graph.PredicateDescription, def.Description, graph.DatatypeString})
	}
	if def.MinCount != nil {
		attributes = append(attributes, attribute{graph.PredicateShMinCount, strconv.Itoa(*def.MinCount), graph.DatatypeInt})
	}
	if def.MaxCount != nil {
		attributes = append(attributes, attribute{graph.PredicateShMaxCount, strconv.Itoa(*def.MaxCount), graph.DatatypeInt})
	}
	for _, a := range attributes {
		if err := w.literalStatement(ctx, property, a.predicate, a.value, a.datatype, contributor); err != nil {
			return ids.ThingID{}, err
		}
	}

	switch {
	case !def.Datatype.IsZero():
		err = w.link(ctx, property, graph.PredicateShDatatype, def.Datatype, contributor)
	case !def.Class.IsZero():
		err = w.link(ctx, property, graph.PredicateShClass, def.Class, contributor)
	}
	if err != nil {
		return ids.ThingID{}, err
	}
	if def.Pattern != "" {
		if err := w.literalStatement(ctx, property, graph.PredicateShPattern, def.Pattern, graph.DatatypeString, contributor); err != nil {
			return ids.ThingID{}, err
		}
	}
	if err := w.link(ctx, property, graph.PredicateShPath, def.Path, contributor); err != nil {
		return ids.ThingID{}, err
	}
	if err := w.literalStatement(ctx, property, graph.PredicateShOrder, strconv.Itoa(order), graph.DatatypeInt, contributor); err != nil {
		return ids.ThingID{}, err
	}
	if def.MinInclusive != "" {
		if err := w.literalStatement(ctx, property, graph.PredicateShMinInclusive, def.MinInclusive, graph.DatatypeDecimal, contributor); err != nil {
			return ids.ThingID{}, err
		}
	}
	if def.MaxInclusive != "" {
		if err := w.literalStatement(ctx, property, graph.PredicateShMaxInclusive, def.MaxInclusive, graph.DatatypeDecimal, contributor); err != nil {
			return ids.ThingID{}, err
		}
	}
	if err := w.link(ctx, templateID, graph.PredicateShProperty, property, contributor); err != nil {
		return ids.ThingID{}, err
	}
	return property, nil
}

// ============================================================================
// Pipeline steps
// ============================================================================

func (s *TemplateService) templateExists(ctx context.Context, cmd CreateTemplatePropertyCommand, st templatePropertyState) (templatePropertyState, error) {
	template, ok, err := s.ports.Resources.FindByID(ctx, cmd.TemplateID)
	if err != nil {
		return st, err
	}
	if !ok || !template.HasClass(graph.ClassNodeShape) {
		return st, NewTemplateNotFound(cmd.TemplateID)
	}
	st.template = template
	return st, nil
}

func (s *TemplateService) templateOpen(ctx context.Context, cmd CreateTemplatePropertyCommand, st templatePropertyState) (templatePropertyState, error) {
	closed, err := s.isClosed(ctx, st.template.ID)
	if err != nil {
		return st, err
	}
	if closed {
		return st, NewTemplateClosed(st.template.ID)
	}
	count, err := s.ports.Statements.Count(ctx, graph.StatementFilter{Subject: st.template.ID, Predicate: graph.PredicateShProperty})
	if err != nil {
		return st, err
	}
	st.propertyCount = int(count)
	return st, nil
}

func (s *TemplateService) propertyValid(ctx context.Context, cmd CreateTemplatePropertyCommand, st templatePropertyState) (templatePropertyState, error) {
	return st, s.checkProperty(ctx, cmd.PropertyDefinition)
}

func (s *TemplateService) propertyCreator(ctx context.Context, cmd CreateTemplatePropertyCommand, st templatePropertyState) (templatePropertyState, error) {
	id, err := s.createProperty(ctx, st.template.ID, cmd.PropertyDefinition, st.propertyCount+1, cmd.Contributor)
	if err != nil {
		return st, err
	}
	st.propertyID = id
	return st, nil
}

func (s *TemplateService) isClosed(ctx context.Context, templateID ids.ThingID) (bool, error) {
	object, ok, err := firstObject(ctx, s.ports.Statements, templateID, graph.PredicateShClosed)
	if err != nil || !ok {
		return false, err
	}
	return object.ThingLabel() == "true", nil
}

// CreateProperty appends a property to a template and returns the property id
func (s *TemplateService) CreateProperty(ctx context.Context, cmd CreateTemplatePropertyCommand) (ids.ThingID, error) {
	st, err := s.addProperty.Execute(ctx, cmd, templatePropertyState{})
	if err != nil {
		return ids.ThingID{}, err
	}
	return st.propertyID, nil
}
