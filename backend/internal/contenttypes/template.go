package contenttypes

import (
	"context"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"

	"orkg-backend/backend/internal/actions"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/metrics"
	"orkg-backend/backend/internal/paging"
	"orkg-backend/backend/pkg/logger"
)

// TemplateRelations ties a template to the parts of the graph it is meant for
type TemplateRelations struct {
	ResearchFields   []ids.ThingID `json:"research_fields"`
	ResearchProblems []ids.ThingID `json:"research_problems"`
	Predicate        ids.ThingID   `json:"predicate,omitzero"`
}

type CreateTemplateCommand struct {
	Label            string                 `json:"label"`
	Description      string                 `json:"description,omitempty"`
	FormattedLabel   string                 `json:"formatted_label,omitempty"`
	TargetClass      ids.ThingID            `json:"target_class"`
	Relations        TemplateRelations      `json:"relations"`
	Properties       []PropertyDefinition   `json:"properties"`
	IsClosed         bool                   `json:"is_closed"`
	Observatories    []ids.ObservatoryID    `json:"observatories"`
	Organizations    []ids.OrganizationID   `json:"organizations"`
	ExtractionMethod graph.ExtractionMethod `json:"extraction_method,omitempty"`
	Contributor      ids.ContributorID      `json:"-"`
}

type templateState struct {
	templateID ids.ThingID
}

// TemplateProperty is a property as read back from the graph
type TemplateProperty struct {
	ID    ids.ThingID `json:"id"`
	Order int         `json:"order"`
	PropertyDefinition
}

// Template is the view of a NodeShape resource and its statements
type Template struct {
	ID             ids.ThingID          `json:"id"`
	Label          string               `json:"label"`
	Description    string               `json:"description,omitempty"`
	FormattedLabel string               `json:"formatted_label,omitempty"`
	TargetClass    ids.ThingID          `json:"target_class"`
	Relations      TemplateRelations    `json:"relations"`
	Properties     []TemplateProperty   `json:"properties"`
	IsClosed       bool                 `json:"is_closed"`
	CreatedAt      time.Time            `json:"created_at"`
	CreatedBy      ids.ContributorID    `json:"created_by"`
	Observatories  []ids.ObservatoryID  `json:"observatories"`
	Organizations  []ids.OrganizationID `json:"organizations"`
}

// TemplateService creates and updates templates and their properties
type TemplateService struct {
	ports          Ports
	writer         writer
	create         *actions.Pipeline[CreateTemplateCommand, templateState]
	addProperty    *actions.Pipeline[CreateTemplatePropertyCommand, templatePropertyState]
	update         *actions.Pipeline[UpdateTemplateCommand, templateUpdateState]
	updateProperty *actions.Pipeline[UpdateTemplatePropertyCommand, templatePropertyUpdateState]
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewTemplateService(ports Ports, m *metrics.Metrics) *TemplateService {
	s := &TemplateService{ports: ports, writer: newWriter(ports), metrics: m, logger: logger.Named("templates")}

	s.create = actions.New[CreateTemplateCommand, templateState]("template.create").
		WithMetrics(m).
		ValidateFunc("label", func(_ context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			return st, checkLabel(cmd.Label, "label")
		}).
		ValidateFunc("description", func(_ context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			return st, checkDescription(cmd.Description)
		}).
		ValidateFunc("formatted_label", func(_ context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			if !graph.ValidateLabel(cmd.FormattedLabel) {
				return st, graph.NewInvalidLabel("formatted_label")
			}
			return st, nil
		}).
		ValidateFunc("target_class", s.targetClassValid).
		ValidateFunc("relations", s.relationsValid).
		ValidateFunc("properties", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			for _, p := range cmd.Properties {
				if err := s.checkProperty(ctx, p); err != nil {
					return st, err
				}
			}
			return st, nil
		}).
		ValidateFunc("organization", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			return st, requireOrganizations(ctx, s.ports.Organizations, cmd.Organizations)
		}).
		ValidateFunc("observatory", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			return st, requireObservatories(ctx, s.ports.Observatories, cmd.Observatories)
		}).
		MutateFunc("create_resource", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			id, err := s.writer.resource(ctx, graph.CreateResourceCommand{
				Label:            cmd.Label,
				Classes:          []ids.ThingID{graph.ClassNodeShape},
				Contributor:      cmd.Contributor,
				Observatory:      first(cmd.Observatories),
				Organization:     first(cmd.Organizations),
				ExtractionMethod: cmd.ExtractionMethod,
			})
			st.templateID = id
			return st, err
		}).
		MutateFunc("link_target_class", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			return st, s.writer.link(ctx, st.templateID, graph.PredicateShTargetClass, cmd.TargetClass, cmd.Contributor)
		}).
		MutateFunc("link_relations", s.relationsCreator).
		MutateFunc("create_description", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			if cmd.Description == "" {
				return st, nil
			}
			return st, s.writer.literalStatement(ctx, st.templateID, graph.PredicateDescription, cmd.Description, graph.DatatypeString, cmd.Contributor)
		}).
		MutateFunc("create_formatted_label", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			if cmd.FormattedLabel == "" {
				return st, nil
			}
			return st, s.writer.literalStatement(ctx, st.templateID, graph.PredicateTemplateLabelFormat, cmd.FormattedLabel, graph.DatatypeString, cmd.Contributor)
		}).
		MutateFunc("create_closed", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			if !cmd.IsClosed {
				return st, nil
			}
			return st, s.writer.literalStatement(ctx, st.templateID, graph.PredicateShClosed, "true", graph.DatatypeBoolean, cmd.Contributor)
		}).
		MutateFunc("create_properties", func(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
			for i, p := range cmd.Properties {
				if _, err := s.createProperty(ctx, st.templateID, p, i+1, cmd.Contributor); err != nil {
					return st, err
				}
			}
			return st, nil
		})

	s.addProperty = actions.New[CreateTemplatePropertyCommand, templatePropertyState]("template.property.create").
		WithMetrics(m).
		ValidateFunc("template_exists", s.templateExists).
		ValidateFunc("template", s.templateOpen).
		ValidateFunc("property", s.propertyValid).
		MutateFunc("create_property", s.propertyCreator)

	s.buildUpdatePipelines()
	return s
}

func (s *TemplateService) targetClassValid(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
	return st, s.checkTargetClass(ctx, cmd.TargetClass, ids.ThingID{})
}

// checkTargetClass requires an existing class that no template other than self targets
func (s *TemplateService) checkTargetClass(ctx context.Context, class, self ids.ThingID) error {
	if err := requireClass(ctx, s.ports.Classes, class); err != nil {
		return err
	}
	page, err := s.ports.Statements.FindAll(ctx,
		graph.StatementFilter{Predicate: graph.PredicateShTargetClass, Object: class},
		paging.Of(0, 2))
	if err != nil {
		return err
	}
	for _, st := range page.Content {
		if owner := st.Subject.ThingID(); owner != self {
			return NewTemplateAlreadyExistsForClass(class, owner)
		}
	}
	return nil
}

func (s *TemplateService) relationsValid(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
	return st, s.checkRelations(ctx, cmd.Relations)
}

func (s *TemplateService) checkRelations(ctx context.Context, relations TemplateRelations) error {
	for _, field := range relations.ResearchFields {
		if err := requireResearchField(ctx, s.ports.Resources, field); err != nil {
			return err
		}
	}
	for _, problem := range relations.ResearchProblems {
		r, ok, err := s.ports.Resources.FindByID(ctx, problem)
		if err != nil {
			return err
		}
		if !ok || !r.HasClass(graph.ClassProblem) {
			return graph.NewProblemNotFound(problem)
		}
	}
	if !relations.Predicate.IsZero() {
		return requirePredicate(ctx, s.ports.Predicates, relations.Predicate)
	}
	return nil
}

func (s *TemplateService) relationsCreator(ctx context.Context, cmd CreateTemplateCommand, st templateState) (templateState, error) {
	for _, field := range cmd.Relations.ResearchFields {
		if err := s.writer.link(ctx, st.templateID, graph.PredicateTemplateOfResearchField, field, cmd.Contributor); err != nil {
			return st, err
		}
	}
	for _, problem := range cmd.Relations.ResearchProblems {
		if err := s.writer.link(ctx, st.templateID, graph.PredicateTemplateOfResearchProblem, problem, cmd.Contributor); err != nil {
			return st, err
		}
	}
	if !cmd.Relations.Predicate.IsZero() {
		if err := s.writer.link(ctx, st.templateID, graph.PredicateTemplateOfPredicate, cmd.Relations.Predicate, cmd.Contributor); err != nil {
			return st, err
		}
	}
	return st, nil
}

// Create runs the template pipeline and returns the id of the new template
func (s *TemplateService) Create(ctx context.Context, cmd CreateTemplateCommand) (ids.ThingID, error) {
	st, err := s.create.Execute(ctx, cmd, templateState{})
	if err != nil {
		return ids.ThingID{}, err
	}
	s.logger.Info("template created",
		zap.String("id", st.templateID.String()),
		zap.String("target_class", cmd.TargetClass.String()),
		zap.Int("properties", len(cmd.Properties)),
	)
	return st.templateID, nil
}

// FindByID reads a template back from its statements
func (s *TemplateService) FindByID(ctx context.Context, id ids.ThingID) (Template, error) {
	r, ok, err := s.ports.Resources.FindByID(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if !ok || !r.HasClass(graph.ClassNodeShape) {
		return Template{}, NewTemplateNotFound(id)
	}
	t := Template{
		ID:            r.ID,
		Label:         r.Label,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
		Relations:     TemplateRelations{ResearchFields: []ids.ThingID{}, ResearchProblems: []ids.ThingID{}},
		Properties:    []TemplateProperty{},
		Observatories: []ids.ObservatoryID{},
		Organizations: []ids.OrganizationID{},
	}
	if !r.ObservatoryID.IsUnknown() {
		t.Observatories = append(t.Observatories, r.ObservatoryID)
	}
	if !r.OrganizationID.IsUnknown() {
		t.Organizations = append(t.Organizations, r.OrganizationID)
	}

	statements, err := statementsOf(ctx, s.ports.Statements, graph.StatementFilter{Subject: id})
	if err != nil {
		return Template{}, err
	}
	for _, st := range statements {
		object := st.Object.ThingID()
		switch st.Predicate.ID {
		case graph.PredicateDescription:
			t.Description = st.Object.ThingLabel()
		case graph.PredicateTemplateLabelFormat:
			t.FormattedLabel = st.Object.ThingLabel()
		case graph.PredicateShTargetClass:
			t.TargetClass = object
		case graph.PredicateShClosed:
			t.IsClosed = st.Object.ThingLabel() == "true"
		case graph.PredicateTemplateOfResearchField:
			t.Relations.ResearchFields = append(t.Relations.ResearchFields, object)
		case graph.PredicateTemplateOfResearchProblem:
			t.Relations.ResearchProblems = append(t.Relations.ResearchProblems, object)
		case graph.PredicateTemplateOfPredicate:
			t.Relations.Predicate = object
		case graph.PredicateShProperty:
			p, err := s.readProperty(ctx, st.Object)
			if err != nil {
				return Template{}, err
			}
			t.Properties = append(t.Properties, p)
		}
	}
	slices.SortStableFunc(t.Properties, func(a, b TemplateProperty) int { return a.Order - b.Order })
	return t, nil
}

func (s *TemplateService) readProperty(ctx context.Context, node graph.Thing) (TemplateProperty, error) {
	p := TemplateProperty{ID: node.ThingID()}
	p.Label = node.ThingLabel()
	statements, err := statementsOf(ctx, s.ports.Statements, graph.StatementFilter{Subject: p.ID})
	if err != nil {
		return TemplateProperty{}, err
	}
	for _, st := range statements {
		value := st.Object.ThingLabel()
		switch st.Predicate.ID {
		case graph.PredicatePlaceholder:
			p.Placeholder = value
		case graph.PredicateDescription:
			p.Description = value
		case graph.PredicateShMinCount:
			p.MinCount = parseCount(value)
		case graph.PredicateShMaxCount:
			p.MaxCount = parseCount(value)
		case graph.PredicateShPattern:
			p.Pattern = value
		case graph.PredicateShPath:
			p.Path = st.Object.ThingID()
		case graph.PredicateShDatatype:
			p.Datatype = st.Object.ThingID()
		case graph.PredicateShClass:
			p.Class = st.Object.ThingID()
		case graph.PredicateShOrder:
			if n := parseCount(value); n != nil {
				p.Order = *n
			}
		case graph.PredicateShMinInclusive:
			p.MinInclusive = value
		case graph.PredicateShMaxInclusive:
			p.MaxInclusive = value
		}
	}
	return p, nil
}

func parseCount(value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}
