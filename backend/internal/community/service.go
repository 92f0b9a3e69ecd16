package community

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	apperrors "orkg-backend/backend/pkg/errors"
	"orkg-backend/backend/pkg/logger"
	"orkg-backend/backend/pkg/validation"
)

var displayIDPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

func checkDisplayID(displayID string) error {
	if !displayIDPattern.MatchString(displayID) {
		return apperrors.NewValidation("display_id", "must only contain lowercase letters, digits and underscores")
	}
	return nil
}

// ============================================================================
// Observatories
// ============================================================================

type CreateObservatoryCommand struct {
	// ID is optional; a random id is assigned when unknown
	ID            ids.ObservatoryID
	Name          string `validate:"required,max=100"`
	Description   string `validate:"max=8164"`
	DisplayID     string `validate:"required,max=100"`
	ResearchField ids.ThingID
	Organizations []ids.OrganizationID
}

type ObservatoryService struct {
	observatories ObservatoryRepository
	organizations OrganizationRepository
	contributors  ContributorRepository
	resources     graph.ResourceRepository
	logger        *zap.Logger
}

func NewObservatoryService(
	observatories ObservatoryRepository,
	organizations OrganizationRepository,
	contributors ContributorRepository,
	resources graph.ResourceRepository,
) *ObservatoryService {
	return &ObservatoryService{
		observatories: observatories,
		organizations: organizations,
		contributors:  contributors,
		resources:     resources,
		logger:        logger.Named("observatories"),
	}
}

func (s *ObservatoryService) Create(ctx context.Context, cmd CreateObservatoryCommand) (ids.ObservatoryID, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if err := validation.ValidateStruct(cmd); err != nil {
		return ids.ObservatoryID{}, err
	}
	if err := checkDisplayID(cmd.DisplayID); err != nil {
		return ids.ObservatoryID{}, err
	}

	id := cmd.ID
	if id.IsUnknown() {
		id = ids.NewObservatoryID()
	} else if ok, err := s.observatories.Exists(ctx, id); err != nil {
		return ids.ObservatoryID{}, err
	} else if ok {
		return ids.ObservatoryID{}, NewObservatoryAlreadyExists("id", id.String())
	}
	if _, ok, err := s.observatories.FindByName(ctx, cmd.Name); err != nil {
		return ids.ObservatoryID{}, err
	} else if ok {
		return ids.ObservatoryID{}, NewObservatoryAlreadyExists("name", cmd.Name)
	}
	if _, ok, err := s.observatories.FindByDisplayID(ctx, cmd.DisplayID); err != nil {
		return ids.ObservatoryID{}, err
	} else if ok {
		return ids.ObservatoryID{}, NewObservatoryAlreadyExists("display id", cmd.DisplayID)
	}
	for _, org := range cmd.Organizations {
		ok, err := s.organizations.Exists(ctx, org)
		if err != nil {
			return ids.ObservatoryID{}, err
		}
		if !ok {
			return ids.ObservatoryID{}, NewOrganizationNotFound(org)
		}
	}
	field, ok, err := s.resources.FindByID(ctx, cmd.ResearchField)
	if err != nil {
		return ids.ObservatoryID{}, err
	}
	if !ok || !field.HasClass(graph.ClassResearchField) {
		return ids.ObservatoryID{}, graph.NewResearchFieldNotFound(cmd.ResearchField)
	}

	observatory := Observatory{
		ID:            id,
		Name:          cmd.Name,
		Description:   cmd.Description,
		ResearchField: cmd.ResearchField,
		DisplayID:     cmd.DisplayID,
		Organizations: cmd.Organizations,
	}
	if err := s.observatories.Save(ctx, observatory); err != nil {
		return ids.ObservatoryID{}, err
	}
	s.logger.Info("observatory created", zap.String("id", id.String()), zap.String("display_id", cmd.DisplayID))
	return id, nil
}

// FindByID returns the observatory with its current members
func (s *ObservatoryService) FindByID(ctx context.Context, id ids.ObservatoryID) (Observatory, error) {
	o, ok, err := s.observatories.FindByID(ctx, id)
	if err != nil {
		return Observatory{}, err
	}
	if !ok {
		return Observatory{}, NewObservatoryNotFound(id)
	}
	members, err := s.contributors.FindAllByObservatory(ctx, id)
	if err != nil {
		return Observatory{}, err
	}
	o.Members = make([]ids.ContributorID, len(members))
	for i, m := range members {
		o.Members[i] = m.ID
	}
	return o, nil
}

// AddMember moves a contributor into the observatory. A contributor belongs to one
// observatory at a time, so joining replaces any previous membership.
func (s *ObservatoryService) AddMember(ctx context.Context, id ids.ObservatoryID, contributorID ids.ContributorID) error {
	o, ok, err := s.observatories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NewObservatoryNotFound(id)
	}
	c, ok, err := s.contributors.FindByID(ctx, contributorID)
	if err != nil {
		return err
	}
	if !ok {
		return NewContributorNotFound(contributorID)
	}
	if c.IsMemberOf(id) {
		return NewUserAlreadyMember(contributorID, id)
	}
	c.ObservatoryID = id
	if len(o.Organizations) > 0 {
		c.OrganizationID = o.Organizations[0]
	}
	if err := s.contributors.Save(ctx, c); err != nil {
		return err
	}
	s.logger.Info("member added", zap.String("observatory", id.String()), zap.String("contributor", contributorID.String()))
	return nil
}

func (s *ObservatoryService) Exists(ctx context.Context, id ids.ObservatoryID) (bool, error) {
	return s.observatories.Exists(ctx, id)
}

// ============================================================================
// Organizations
// ============================================================================

type CreateOrganizationCommand struct {
	ID          ids.OrganizationID
	Name        string `validate:"required,max=100"`
	DisplayID   string `validate:"required,max=100"`
	URL         string `validate:"omitempty,url"`
	Type        OrganizationType
	Contributor ids.ContributorID
}

type OrganizationService struct {
	organizations OrganizationRepository
	logger        *zap.Logger
}

func NewOrganizationService(organizations OrganizationRepository) *OrganizationService {
	return &OrganizationService{organizations: organizations, logger: logger.Named("organizations")}
}

func (s *OrganizationService) Create(ctx context.Context, cmd CreateOrganizationCommand) (ids.OrganizationID, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if err := validation.ValidateStruct(cmd); err != nil {
		return ids.OrganizationID{}, err
	}
	if err := checkDisplayID(cmd.DisplayID); err != nil {
		return ids.OrganizationID{}, err
	}
	id := cmd.ID
	if id.IsUnknown() {
		id = ids.NewOrganizationID()
	} else if ok, err := s.organizations.Exists(ctx, id); err != nil {
		return ids.OrganizationID{}, err
	} else if ok {
		return ids.OrganizationID{}, NewOrganizationAlreadyExists("id", id.String())
	}
	if _, ok, err := s.organizations.FindByDisplayID(ctx, cmd.DisplayID); err != nil {
		return ids.OrganizationID{}, err
	} else if ok {
		return ids.OrganizationID{}, NewOrganizationAlreadyExists("display id", cmd.DisplayID)
	}

	org := Organization{
		ID:        id,
		Name:      cmd.Name,
		DisplayID: cmd.DisplayID,
		URL:       cmd.URL,
		Type:      ParseOrganizationType(string(cmd.Type)),
		CreatedBy: cmd.Contributor,
	}
	if err := s.organizations.Save(ctx, org); err != nil {
		return ids.OrganizationID{}, err
	}
	s.logger.Info("organization created", zap.String("id", id.String()))
	return id, nil
}

func (s *OrganizationService) FindByID(ctx context.Context, id ids.OrganizationID) (Organization, error) {
	o, ok, err := s.organizations.FindByID(ctx, id)
	if err != nil {
		return Organization{}, err
	}
	if !ok {
		return Organization{}, NewOrganizationNotFound(id)
	}
	return o, nil
}

func (s *OrganizationService) Exists(ctx context.Context, id ids.OrganizationID) (bool, error) {
	return s.organizations.Exists(ctx, id)
}

// ============================================================================
// Contributors
// ============================================================================

type CreateContributorCommand struct {
	// ID is optional; a random id is assigned when unknown
	ID    ids.ContributorID
	Name  string `validate:"required,max=100"`
	Email string `validate:"omitempty,email,max=254"`
}

type ContributorService struct {
	contributors ContributorRepository
	clock        func() time.Time
	logger       *zap.Logger
}

func NewContributorService(contributors ContributorRepository) *ContributorService {
	return &ContributorService{
		contributors: contributors,
		clock:        func() time.Time { return time.Now().UTC() },
		logger:       logger.Named("contributors"),
	}
}

// Create registers a contributor outside of any observatory
func (s *ContributorService) Create(ctx context.Context, cmd CreateContributorCommand) (ids.ContributorID, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.TrimSpace(cmd.Email)
	if err := validation.ValidateStruct(cmd); err != nil {
		return ids.ContributorID{}, err
	}
	id := cmd.ID
	if id.IsUnknown() {
		id = ids.NewContributorID()
	} else if _, ok, err := s.contributors.FindByID(ctx, id); err != nil {
		return ids.ContributorID{}, err
	} else if ok {
		return ids.ContributorID{}, NewContributorAlreadyExists(id)
	}

	c := Contributor{ID: id, Name: cmd.Name, Email: cmd.Email, JoinedAt: s.clock()}
	if err := s.contributors.Save(ctx, c); err != nil {
		return ids.ContributorID{}, err
	}
	s.logger.Info("contributor created", zap.String("id", id.String()))
	return id, nil
}

func (s *ContributorService) FindByID(ctx context.Context, id ids.ContributorID) (Contributor, error) {
	c, ok, err := s.contributors.FindByID(ctx, id)
	if err != nil {
		return Contributor{}, err
	}
	if !ok {
		return Contributor{}, NewContributorNotFound(id)
	}
	return c, nil
}
