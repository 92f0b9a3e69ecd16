package contenttypes

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"orkg-backend/backend/internal/actions"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/metrics"
	"orkg-backend/backend/pkg/logger"
)

type CreateComparisonCommand struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description,omitempty"`
	ResearchFields   []ids.ThingID          `json:"research_fields"`
	Authors          []Author               `json:"authors"`
	Contributions    []ids.ThingID          `json:"contributions"`
	References       []string               `json:"references"`
	Observatories    []ids.ObservatoryID    `json:"observatories"`
	Organizations    []ids.OrganizationID   `json:"organizations"`
	IsAnonymized     bool                   `json:"is_anonymized"`
	ExtractionMethod graph.ExtractionMethod `json:"extraction_method,omitempty"`
	Contributor      ids.ContributorID      `json:"-"`
}

type comparisonState struct {
	comparisonID ids.ThingID
}

// ComparisonService creates comparisons over existing contributions
type ComparisonService struct {
	ports    Ports
	writer   writer
	pipeline *actions.Pipeline[CreateComparisonCommand, comparisonState]
	logger   *zap.Logger
}

func NewComparisonService(ports Ports, m *metrics.Metrics) *ComparisonService {
	s := &ComparisonService{ports: ports, writer: newWriter(ports), logger: logger.Named("comparisons")}
	s.pipeline = actions.New[CreateComparisonCommand, comparisonState]("comparison.create").
		WithMetrics(m).
		ValidateFunc("label", func(_ context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			return st, checkLabel(cmd.Title, "title")
		}).
		ValidateFunc("description", func(_ context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			return st, checkDescription(cmd.Description)
		}).
		ValidateFunc("contributions", s.contributionsValid).
		ValidateFunc("research_field", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			for _, field := range cmd.ResearchFields {
				if err := requireResearchField(ctx, s.ports.Resources, field); err != nil {
					return st, err
				}
			}
			return st, nil
		}).
		ValidateFunc("observatory", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			return st, requireObservatories(ctx, s.ports.Observatories, cmd.Observatories)
		}).
		ValidateFunc("organization", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			return st, requireOrganizations(ctx, s.ports.Organizations, cmd.Organizations)
		}).
		ValidateFunc("authors", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			return st, requireAuthors(ctx, s.ports.Resources, cmd.Authors)
		}).
		ValidateFunc("references", func(_ context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			for _, ref := range cmd.References {
				if err := checkLiteral(ref, graph.DatatypeString, "reference"); err != nil {
					return st, err
				}
			}
			return st, nil
		}).
		MutateFunc("create_resource", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			id, err := s.writer.resource(ctx, graph.CreateResourceCommand{
				Label:            cmd.Title,
				Classes:          []ids.ThingID{graph.ClassComparison},
				Contributor:      cmd.Contributor,
				Observatory:      first(cmd.Observatories),
				Organization:     first(cmd.Organizations),
				ExtractionMethod: cmd.ExtractionMethod,
			})
			st.comparisonID = id
			return st, err
		}).
		MutateFunc("create_description", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			if cmd.Description == "" {
				return st, nil
			}
			return st, s.writer.literalStatement(ctx, st.comparisonID, graph.PredicateDescription, cmd.Description, graph.DatatypeString, cmd.Contributor)
		}).
		MutateFunc("create_authors", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			return st, s.writer.linkAuthors(ctx, st.comparisonID, cmd.Authors, cmd.Contributor)
		}).
		MutateFunc("link_research_fields", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			for _, field := range cmd.ResearchFields {
				if err := s.writer.link(ctx, st.comparisonID, graph.PredicateHasResearchField, field, cmd.Contributor); err != nil {
					return st, err
				}
			}
			return st, nil
		}).
		MutateFunc("create_references", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			for _, ref := range cmd.References {
				if err := s.writer.literalStatement(ctx, st.comparisonID, graph.PredicateReference, ref, graph.DatatypeString, cmd.Contributor); err != nil {
					return st, err
				}
			}
			return st, nil
		}).
		MutateFunc("create_is_anonymized", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			return st, s.writer.literalStatement(ctx, st.comparisonID, graph.PredicateIsAnonymized, strconv.FormatBool(cmd.IsAnonymized), graph.DatatypeBoolean, cmd.Contributor)
		}).
		MutateFunc("link_contributions", func(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
			for _, c := range cmd.Contributions {
				if err := s.writer.link(ctx, st.comparisonID, graph.PredicateCompareContribution, c, cmd.Contributor); err != nil {
					return st, err
				}
			}
			return st, nil
		})
	return s
}

func (s *ComparisonService) contributionsValid(ctx context.Context, cmd CreateComparisonCommand, st comparisonState) (comparisonState, error) {
	if len(cmd.Contributions) < 2 {
		return st, NewRequiresAtLeastTwoContributions()
	}
	for _, id := range cmd.Contributions {
		r, ok, err := s.ports.Resources.FindByID(ctx, id)
		if err != nil {
			return st, err
		}
		if !ok || !r.HasClass(graph.ClassContribution) {
			return st, NewContributionNotFound(id)
		}
	}
	return st, nil
}

// Create runs the comparison pipeline and returns the id of the new comparison
func (s *ComparisonService) Create(ctx context.Context, cmd CreateComparisonCommand) (ids.ThingID, error) {
	st, err := s.pipeline.Execute(ctx, cmd, comparisonState{})
	if err != nil {
		return ids.ThingID{}, err
	}
	s.logger.Info("comparison created",
		zap.String("id", st.comparisonID.String()),
		zap.Int("contributions", len(cmd.Contributions)),
	)
	return st.comparisonID, nil
}
