package contenttypes

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"orkg-backend/backend/internal/actions"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/metrics"
	"orkg-backend/backend/internal/paging"
	"orkg-backend/backend/pkg/logger"
)

// PublicationInfo is optional bibliographic data of a paper
type PublicationInfo struct {
	Month *int   `json:"published_month,omitempty"`
	Year  *int   `json:"published_year,omitempty"`
	Venue string `json:"published_in,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ObjectDefinition is the object of a contribution statement: an existing thing,
// or a literal value when ID is zero
type ObjectDefinition struct {
	ID       ids.ThingID `json:"id,omitzero"`
	Value    string      `json:"value,omitempty"`
	Datatype string      `json:"datatype,omitempty"`
}

type StatementDefinition struct {
	Predicate ids.ThingID        `json:"predicate"`
	Objects   []ObjectDefinition `json:"objects"`
}

type ContributionDefinition struct {
	Label      string                `json:"label"`
	Statements []StatementDefinition `json:"statements"`
}

type CreatePaperCommand struct {
	Title            string                   `json:"title"`
	ResearchFields   []ids.ThingID            `json:"research_fields"`
	DOI              string                   `json:"doi,omitempty"`
	PublicationInfo  *PublicationInfo         `json:"publication_info,omitempty"`
	Authors          []Author                 `json:"authors"`
	Contributions    []ContributionDefinition `json:"contributions"`
	Observatories    []ids.ObservatoryID      `json:"observatories"`
	Organizations    []ids.OrganizationID     `json:"organizations"`
	ExtractionMethod graph.ExtractionMethod   `json:"extraction_method,omitempty"`
	Contributor      ids.ContributorID        `json:"-"`
}

type paperState struct {
	paperID       ids.ThingID
	contributions []ids.ThingID
}

// PaperService creates papers together with their contributions
type PaperService struct {
	ports    Ports
	writer   writer
	pipeline *actions.Pipeline[CreatePaperCommand, paperState]
	logger   *zap.Logger
}

func NewPaperService(ports Ports, m *metrics.Metrics) *PaperService {
	s := &PaperService{ports: ports, writer: newWriter(ports), logger: logger.Named("papers")}
	s.pipeline = actions.New[CreatePaperCommand, paperState]("paper.create").
		WithMetrics(m).
		ValidateFunc("title", func(_ context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			return st, checkLabel(cmd.Title, "title")
		}).
		ValidateFunc("identifiers", s.identifiersValid).
		ValidateFunc("research_field", func(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			if len(cmd.ResearchFields) != 1 {
				return st, NewOnlyOneResearchFieldAllowed()
			}
			return st, requireResearchField(ctx, s.ports.Resources, cmd.ResearchFields[0])
		}).
		ValidateFunc("observatory", func(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			return st, requireObservatories(ctx, s.ports.Observatories, cmd.Observatories)
		}).
		ValidateFunc("organization", func(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			return st, requireOrganizations(ctx, s.ports.Organizations, cmd.Organizations)
		}).
		ValidateFunc("publication_info", s.publicationInfoValid).
		ValidateFunc("authors", func(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			return st, requireAuthors(ctx, s.ports.Resources, cmd.Authors)
		}).
		ValidateFunc("contributions", s.contributionsValid).
		MutateFunc("create_resource", func(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			id, err := s.writer.resource(ctx, graph.CreateResourceCommand{
				Label:            cmd.Title,
				Classes:          []ids.ThingID{graph.ClassPaper},
				Contributor:      cmd.Contributor,
				Observatory:      first(cmd.Observatories),
				Organization:     first(cmd.Organizations),
				ExtractionMethod: cmd.ExtractionMethod,
			})
			st.paperID = id
			return st, err
		}).
		MutateFunc("create_identifiers", func(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			doi := strings.TrimSpace(cmd.DOI)
			if doi == "" {
				return st, nil
			}
			return st, s.writer.literalStatement(ctx, st.paperID, graph.PredicateHasDOI, doi, graph.DatatypeString, cmd.Contributor)
		}).
		MutateFunc("link_research_field", func(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			return st, s.writer.link(ctx, st.paperID, graph.PredicateHasResearchField, cmd.ResearchFields[0], cmd.Contributor)
		}).
		MutateFunc("create_authors", func(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
			return st, s.writer.linkAuthors(ctx, st.paperID, cmd.Authors, cmd.Contributor)
		}).
		MutateFunc("create_publication_info", s.publicationInfoCreator).
		MutateFunc("create_contributions", s.contributionsCreator)
	return s
}

func (s *PaperService) identifiersValid(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
	doi := strings.TrimSpace(cmd.DOI)
	if doi == "" {
		return st, nil
	}
	if err := checkLiteral(doi, graph.DatatypeString, "doi"); err != nil {
		return st, err
	}
	n, err := s.ports.Statements.Count(ctx, graph.StatementFilter{Predicate: graph.PredicateHasDOI, ObjectLabel: doi})
	if err != nil {
		return st, err
	}
	if n > 0 {
		return st, NewPaperAlreadyExists(doi)
	}
	return st, nil
}

func (s *PaperService) publicationInfoValid(_ context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
	info := cmd.PublicationInfo
	if info == nil {
		return st, nil
	}
	if info.Month != nil && (*info.Month < 1 || *info.Month > 12) {
		return st, NewInvalidMonth(*info.Month)
	}
	if !graph.ValidateLabel(info.Venue) {
		return st, graph.NewInvalidLabel("published_in")
	}
	if info.URL != "" {
		if err := checkLiteral(info.URL, graph.DatatypeAnyURI, "url"); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (s *PaperService) contributionsValid(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
	if len(cmd.Contributions) == 0 {
		return st, NewEmptyContribution(-1)
	}
	for i, c := range cmd.Contributions {
		if err := checkLabel(c.Label, "contribution label"); err != nil {
			return st, err
		}
		if len(c.Statements) == 0 {
			return st, NewEmptyContribution(i)
		}
		for _, statement := range c.Statements {
			if err := requirePredicate(ctx, s.ports.Predicates, statement.Predicate); err != nil {
				return st, err
			}
			for _, object := range statement.Objects {
				if err := s.objectValid(ctx, object); err != nil {
					return st, err
				}
			}
		}
	}
	return st, nil
}

func (s *PaperService) objectValid(ctx context.Context, object ObjectDefinition) error {
	if object.ID.IsZero() {
		datatype := object.Datatype
		if datatype == "" {
			datatype = graph.DatatypeString
		}
		return checkLiteral(object.Value, datatype, "literal value")
	}
	_, ok, err := s.ports.Things.FindByID(ctx, object.ID)
	if err != nil {
		return err
	}
	if !ok {
		return graph.NewThingNotFound(object.ID)
	}
	return nil
}

func (s *PaperService) publicationInfoCreator(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
	info := cmd.PublicationInfo
	if info == nil {
		return st, nil
	}
	if info.Month != nil {
		if err := s.writer.literalStatement(ctx, st.paperID, graph.PredicateMonthPublished, strconv.Itoa(*info.Month), graph.DatatypeInteger, cmd.Contributor); err != nil {
			return st, err
		}
	}
	if info.Year != nil {
		if err := s.writer.literalStatement(ctx, st.paperID, graph.PredicateYearPublished, strconv.Itoa(*info.Year), graph.DatatypeInteger, cmd.Contributor); err != nil {
			return st, err
		}
	}
	if venue := strings.TrimSpace(info.Venue); venue != "" {
		venueID, err := s.venue(ctx, venue, cmd.Contributor)
		if err != nil {
			return st, err
		}
		if err := s.writer.link(ctx, st.paperID, graph.PredicateHasVenue, venueID, cmd.Contributor); err != nil {
			return st, err
		}
	}
	if info.URL != "" {
		if err := s.writer.literalStatement(ctx, st.paperID, graph.PredicateHasURL, info.URL, graph.DatatypeAnyURI, cmd.Contributor); err != nil {
			return st, err
		}
	}
	return st, nil
}

// venue reuses the venue resource with the given label, creating it on first use
func (s *PaperService) venue(ctx context.Context, label string, contributor ids.ContributorID) (ids.ThingID, error) {
	page, err := s.ports.Resources.FindAll(ctx, graph.ResourceFilter{Label: label, Classes: []ids.ThingID{graph.ClassVenue}}, paging.Of(0, 1))
	if err != nil {
		return ids.ThingID{}, err
	}
	if len(page.Content) > 0 {
		return page.Content[0].ID, nil
	}
	return s.writer.resource(ctx, graph.CreateResourceCommand{
		Label:       label,
		Classes:     []ids.ThingID{graph.ClassVenue},
		Contributor: contributor,
	})
}

func (s *PaperService) contributionsCreator(ctx context.Context, cmd CreatePaperCommand, st paperState) (paperState, error) {
	for _, c := range cmd.Contributions {
		id, err := s.writer.resource(ctx, graph.CreateResourceCommand{
			Label:            c.Label,
			Classes:          []ids.ThingID{graph.ClassContribution},
			Contributor:      cmd.Contributor,
			Observatory:      first(cmd.Observatories),
			Organization:     first(cmd.Organizations),
			ExtractionMethod: cmd.ExtractionMethod,
		})
		if err != nil {
			return st, err
		}
		if err := s.writer.link(ctx, st.paperID, graph.PredicateHasContribution, id, cmd.Contributor); err != nil {
			return st, err
		}
		for _, statement := range c.Statements {
			for _, object := range statement.Objects {
				if object.ID.IsZero() {
					err = s.writer.literalStatement(ctx, id, statement.Predicate, object.Value, object.Datatype, cmd.Contributor)
				} else {
					err = s.writer.link(ctx, id, statement.Predicate, object.ID, cmd.Contributor)
				}
				if err != nil {
					return st, err
				}
			}
		}
		st.contributions = append(st.contributions, id)
	}
	return st, nil
}

// Create runs the paper pipeline and returns the id of the new paper
func (s *PaperService) Create(ctx context.Context, cmd CreatePaperCommand) (ids.ThingID, error) {
	st, err := s.pipeline.Execute(ctx, cmd, paperState{})
	if err != nil {
		return ids.ThingID{}, err
	}
	s.logger.Info("paper created",
		zap.String("id", st.paperID.String()),
		zap.Int("contributions", len(st.contributions)),
	)
	return st.paperID, nil
}
