package contenttypes

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"orkg-backend/backend/internal/actions"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
)

// UpdateTemplateCommand changes the fields of a template. Nil fields keep their current value.
type UpdateTemplateCommand struct {
	TemplateID     ids.ThingID        `json:"-"`
	Contributor    ids.ContributorID  `json:"-"`
	Label          *string            `json:"label"`
	Description    *string            `json:"description"`
	FormattedLabel *string            `json:"formatted_label"`
	TargetClass    *ids.ThingID       `json:"target_class"`
	Relations      *TemplateRelations `json:"relations"`
	IsClosed       *bool              `json:"is_closed"`
}

type templateUpdateState struct {
	template graph.Resource
}

// UpdateTemplatePropertyCommand replaces the definition of a template property
type UpdateTemplatePropertyCommand struct {
	TemplateID  ids.ThingID       `json:"-"`
	PropertyID  ids.ThingID       `json:"-"`
	Contributor ids.ContributorID `json:"-"`
	PropertyDefinition
}

type templatePropertyUpdateState struct {
	template graph.Resource
	property graph.Resource
	current  TemplateProperty
}

func (s *TemplateService) buildUpdatePipelines() {
	s.update = actions.New[UpdateTemplateCommand, templateUpdateState]("template.update").
		WithMetrics(s.metrics).
		ValidateFunc("template_exists", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			r, err := s.modifiableTemplate(ctx, cmd.TemplateID)
			st.template = r
			return st, err
		}).
		ValidateFunc("label", func(_ context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.Label == nil {
				return st, nil
			}
			return st, checkLabel(*cmd.Label, "label")
		}).
		ValidateFunc("description", func(_ context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.Description == nil {
				return st, nil
			}
			return st, checkDescription(*cmd.Description)
		}).
		ValidateFunc("formatted_label", func(_ context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.FormattedLabel != nil && !graph.ValidateLabel(*cmd.FormattedLabel) {
				return st, graph.NewInvalidLabel("formatted_label")
			}
			return st, nil
		}).
		ValidateFunc("target_class", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.TargetClass == nil {
				return st, nil
			}
			return st, s.checkTargetClass(ctx, *cmd.TargetClass, st.template.ID)
		}).
		ValidateFunc("relations", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.Relations == nil {
				return st, nil
			}
			return st, s.checkRelations(ctx, *cmd.Relations)
		}).
		MutateFunc("update_label", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.Label == nil || *cmd.Label == st.template.Label {
				return st, nil
			}
			st.template.Label = *cmd.Label
			return st, s.ports.Resources.Save(ctx, st.template)
		}).
		MutateFunc("update_description", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.Description == nil {
				return st, nil
			}
			return st, s.writer.replaceLiteral(ctx, st.template.ID, graph.PredicateDescription, *cmd.Description, graph.DatatypeString, cmd.Contributor)
		}).
		MutateFunc("update_formatted_label", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.FormattedLabel == nil {
				return st, nil
			}
			return st, s.writer.replaceLiteral(ctx, st.template.ID, graph.PredicateTemplateLabelFormat, *cmd.FormattedLabel, graph.DatatypeString, cmd.Contributor)
		}).
		MutateFunc("update_target_class", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.TargetClass == nil {
				return st, nil
			}
			return st, s.writer.replaceObjects(ctx, st.template.ID, graph.PredicateShTargetClass, []ids.ThingID{*cmd.TargetClass}, cmd.Contributor)
		}).
		MutateFunc("update_relations", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.Relations == nil {
				return st, nil
			}
			rel := cmd.Relations
			if err := s.writer.replaceObjects(ctx, st.template.ID, graph.PredicateTemplateOfResearchField, rel.ResearchFields, cmd.Contributor); err != nil {
				return st, err
			}
			if err := s.writer.replaceObjects(ctx, st.template.ID, graph.PredicateTemplateOfResearchProblem, rel.ResearchProblems, cmd.Contributor); err != nil {
				return st, err
			}
			return st, s.writer.replaceObjects(ctx, st.template.ID, graph.PredicateTemplateOfPredicate, optional(rel.Predicate), cmd.Contributor)
		}).
		MutateFunc("update_closed", func(ctx context.Context, cmd UpdateTemplateCommand, st templateUpdateState) (templateUpdateState, error) {
			if cmd.IsClosed == nil {
				return st, nil
			}
			value := ""
			if *cmd.IsClosed {
				value = "true"
			}
			return st, s.writer.replaceLiteral(ctx, st.template.ID, graph.PredicateShClosed, value, graph.DatatypeBoolean, cmd.Contributor)
		})

	s.updateProperty = actions.New[UpdateTemplatePropertyCommand, templatePropertyUpdateState]("template.property.update").
		WithMetrics(s.metrics).
		ValidateFunc("template_exists", func(ctx context.Context, cmd UpdateTemplatePropertyCommand, st templatePropertyUpdateState) (templatePropertyUpdateState, error) {
			r, err := s.modifiableTemplate(ctx, cmd.TemplateID)
			st.template = r
			return st, err
		}).
		ValidateFunc("property_exists", s.propertyOfTemplate).
		ValidateFunc("property", func(ctx context.Context, cmd UpdateTemplatePropertyCommand, st templatePropertyUpdateState) (templatePropertyUpdateState, error) {
			return st, s.checkProperty(ctx, cmd.PropertyDefinition)
		}).
		MutateFunc("update_property", s.propertyUpdater)
}

// modifiableTemplate loads a template that may be changed
func (s *TemplateService) modifiableTemplate(ctx context.Context, id ids.ThingID) (graph.Resource, error) {
	r, ok, err := s.ports.Resources.FindByID(ctx, id)
	if err != nil {
		return graph.Resource{}, err
	}
	if !ok || !r.HasClass(graph.ClassNodeShape) {
		return graph.Resource{}, NewTemplateNotFound(id)
	}
	if !r.Modifiable {
		return graph.Resource{}, NewTemplateNotModifiable(id)
	}
	return r, nil
}

func (s *TemplateService) propertyOfTemplate(ctx context.Context, cmd UpdateTemplatePropertyCommand, st templatePropertyUpdateState) (templatePropertyUpdateState, error) {
	property, ok, err := s.ports.Resources.FindByID(ctx, cmd.PropertyID)
	if err != nil {
		return st, err
	}
	if !ok || !property.HasClass(graph.ClassPropertyShape) {
		return st, NewTemplatePropertyNotFound(cmd.PropertyID)
	}
	linked, err := s.ports.Statements.Count(ctx, graph.StatementFilter{
		Subject:   st.template.ID,
		Predicate: graph.PredicateShProperty,
		Object:    property.ID,
	})
	if err != nil {
		return st, err
	}
	if linked == 0 {
		return st, NewUnrelatedTemplateProperty(st.template.ID, property.ID)
	}
	if !property.Modifiable {
		return st, NewTemplatePropertyNotModifiable(property.ID)
	}
	st.property = property
	st.current, err = s.readProperty(ctx, property)
	return st, err
}

// propertyUpdater rewrites only the attributes that differ from the stored property
func (s *TemplateService) propertyUpdater(ctx context.Context, cmd UpdateTemplatePropertyCommand, st templatePropertyUpdateState) (templatePropertyUpdateState, error) {
	w, id, next, old := s.writer, st.property.ID, cmd.PropertyDefinition, st.current.PropertyDefinition

	if next.Label != old.Label {
		st.property.Label = next.Label
		if err := s.ports.Resources.Save(ctx, st.property); err != nil {
			return st, err
		}
	}

	literals := []struct {
		predicate ids.ThingID
		next, old string
		datatype  string
	}{
		{graph.PredicatePlaceholder, next.Placeholder, old.Placeholder, graph.DatatypeString},
		{graph.PredicateDescription, next.Description, old.Description, graph.DatatypeString},
		{graph.PredicateShMinCount, formatCount(next.MinCount), formatCount(old.MinCount), graph.DatatypeInt},
		{graph.PredicateShMaxCount, formatCount(next.MaxCount), formatCount(old.MaxCount), graph.DatatypeInt},
		{graph.PredicateShPattern, next.Pattern, old.Pattern, graph.DatatypeString},
		{graph.PredicateShMinInclusive, next.MinInclusive, old.MinInclusive, graph.DatatypeDecimal},
		{graph.PredicateShMaxInclusive, next.MaxInclusive, old.MaxInclusive, graph.DatatypeDecimal},
	}
	for _, l := range literals {
		if l.next == l.old {
			continue
		}
		if err := w.replaceLiteral(ctx, id, l.predicate, l.next, l.datatype, cmd.Contributor); err != nil {
			return st, err
		}
	}

	links := []struct {
		predicate ids.ThingID
		next, old ids.ThingID
	}{
		{graph.PredicateShPath, next.Path, old.Path},
		{graph.PredicateShDatatype, next.Datatype, old.Datatype},
		{graph.PredicateShClass, next.Class, old.Class},
	}
	for _, l := range links {
		if l.next == l.old {
			continue
		}
		if err := w.replaceObjects(ctx, id, l.predicate, optional(l.next), cmd.Contributor); err != nil {
			return st, err
		}
	}
	return st, nil
}

func optional(id ids.ThingID) []ids.ThingID {
	if id.IsZero() {
		return nil
	}
	return []ids.ThingID{id}
}

func formatCount(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// Update applies the changed fields of cmd to an existing template
func (s *TemplateService) Update(ctx context.Context, cmd UpdateTemplateCommand) error {
	if _, err := s.update.Execute(ctx, cmd, templateUpdateState{}); err != nil {
		return err
	}
	s.logger.Info("template updated", zap.String("id", cmd.TemplateID.String()))
	return nil
}

// UpdateProperty replaces the definition of a property; its position in the template is kept
func (s *TemplateService) UpdateProperty(ctx context.Context, cmd UpdateTemplatePropertyCommand) error {
	_, err := s.updateProperty.Execute(ctx, cmd, templatePropertyUpdateState{})
	return err
}
