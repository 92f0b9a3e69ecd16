package graph

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
	"orkg-backend/backend/pkg/logger"
)

// Clock returns the creation timestamp for new nodes
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// ValidateLabel enforces the label grammar shared by every node kind.
// Blank labels are allowed here; content types that need a title check that themselves.
func ValidateLabel(label string) bool {
	return len(label) <= MaxLabelLength && !strings.ContainsAny(label, "\n\r")
}

// ============================================================================
// Resources
// ============================================================================

// CreateResourceCommand creates a resource; a zero ID asks the store for one.
type CreateResourceCommand struct {
	ID               ids.ThingID
	Label            string
	Classes          []ids.ThingID
	Contributor      ids.ContributorID
	Observatory      ids.ObservatoryID
	Organization     ids.OrganizationID
	ExtractionMethod ExtractionMethod
	Visibility       Visibility
}

// ResourceService validates and creates resources
type ResourceService struct {
	resources ResourceRepository
	classes   ClassRepository
	clock     Clock
	logger    *zap.Logger
}

func NewResourceService(resources ResourceRepository, classes ClassRepository) *ResourceService {
	return &ResourceService{resources: resources, classes: classes, clock: utcNow, logger: logger.Named("resources")}
}

// WithClock replaces the creation clock, mostly for tests
func (s *ResourceService) WithClock(c Clock) *ResourceService {
	s.clock = c
	return s
}

func (s *ResourceService) Create(ctx context.Context, cmd CreateResourceCommand) (ids.ThingID, error) {
	if !ValidateLabel(cmd.Label) {
		return ids.ThingID{}, NewInvalidLabel("label")
	}
	classes := NormalizeClasses(cmd.Classes)
	for _, c := range classes {
		if slices.Contains(ReservedClasses, c) {
			return ids.ThingID{}, NewReservedClass(c)
		}
		ok, err := s.classes.Exists(ctx, c)
		if err != nil {
			return ids.ThingID{}, err
		}
		if !ok {
			return ids.ThingID{}, NewClassNotFound(c)
		}
	}

	id := cmd.ID
	if id.IsZero() {
		next, err := s.resources.NextIdentity(ctx)
		if err != nil {
			return ids.ThingID{}, err
		}
		id = next
	} else {
		taken, err := s.resources.Exists(ctx, id)
		if err != nil {
			return ids.ThingID{}, err
		}
		if taken {
			return ids.ThingID{}, NewAlreadyExists("Resource", id)
		}
	}

	visibility := cmd.Visibility
	if visibility == "" {
		visibility = VisibilityDefault
	}
	extraction := cmd.ExtractionMethod
	if extraction == "" {
		extraction = ExtractionUnknown
	}
	resource := Resource{
		ID:               id,
		Label:            cmd.Label,
		Classes:          classes,
		CreatedAt:        s.clock(),
		CreatedBy:        cmd.Contributor,
		ObservatoryID:    cmd.Observatory,
		OrganizationID:   cmd.Organization,
		Visibility:       visibility,
		ExtractionMethod: extraction,
		Modifiable:       true,
	}
	if err := s.resources.Save(ctx, resource); err != nil {
		return ids.ThingID{}, err
	}
	s.logger.Debug("resource created", zap.String("id", id.String()), zap.Int("classes", len(classes)))
	return id, nil
}

func (s *ResourceService) FindByID(ctx context.Context, id ids.ThingID) (Resource, error) {
	r, ok, err := s.resources.FindByID(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	if !ok {
		return Resource{}, NewResourceNotFound(id)
	}
	return r, nil
}

func (s *ResourceService) FindAll(ctx context.Context, filter ResourceFilter, req paging.Request) (paging.Page[Resource], error) {
	return s.resources.FindAll(ctx, filter, req)
}

// ============================================================================
// Predicates and classes
// ============================================================================

type CreatePredicateCommand struct {
	ID          ids.ThingID
	Label       string
	Contributor ids.ContributorID
}

type PredicateService struct {
	predicates PredicateRepository
	clock      Clock
}

func NewPredicateService(predicates PredicateRepository) *PredicateService {
	return &PredicateService{predicates: predicates, clock: utcNow}
}

func (s *PredicateService) Create(ctx context.Context, cmd CreatePredicateCommand) (ids.ThingID, error) {
	if !ValidateLabel(cmd.Label) {
		return ids.ThingID{}, NewInvalidLabel("label")
	}
	id, err := identityFor(ctx, cmd.ID, "Predicate", s.predicates)
	if err != nil {
		return ids.ThingID{}, err
	}
	p := Predicate{ID: id, Label: cmd.Label, CreatedAt: s.clock(), CreatedBy: cmd.Contributor, Modifiable: true}
	if err := s.predicates.Save(ctx, p); err != nil {
		return ids.ThingID{}, err
	}
	return id, nil
}

type CreateClassCommand struct {
	ID          ids.ThingID
	Label       string
	URI         string
	Contributor ids.ContributorID
}

type ClassService struct {
	classes ClassRepository
	clock   Clock
}

func NewClassService(classes ClassRepository) *ClassService {
	return &ClassService{classes: classes, clock: utcNow}
}

func (s *ClassService) Create(ctx context.Context, cmd CreateClassCommand) (ids.ThingID, error) {
	if !ValidateLabel(cmd.Label) {
		return ids.ThingID{}, NewInvalidLabel("label")
	}
	if !cmd.ID.IsZero() && slices.Contains(ReservedClasses, cmd.ID) {
		return ids.ThingID{}, NewReservedClass(cmd.ID)
	}
	id, err := identityFor(ctx, cmd.ID, "Class", s.classes)
	if err != nil {
		return ids.ThingID{}, err
	}
	c := Class{ID: id, Label: cmd.Label, URI: cmd.URI, CreatedAt: s.clock(), CreatedBy: cmd.Contributor, Modifiable: true}
	if err := s.classes.Save(ctx, c); err != nil {
		return ids.ThingID{}, err
	}
	return id, nil
}

func identityFor[T Thing](ctx context.Context, requested ids.ThingID, kind string, repo NodeRepository[T]) (ids.ThingID, error) {
	if requested.IsZero() {
		return repo.NextIdentity(ctx)
	}
	taken, err := repo.Exists(ctx, requested)
	if err != nil {
		return ids.ThingID{}, err
	}
	if taken {
		return ids.ThingID{}, NewAlreadyExists(kind, requested)
	}
	return requested, nil
}

// ============================================================================
// Literals
// ============================================================================

type CreateLiteralCommand struct {
	Label       string
	Datatype    string
	Contributor ids.ContributorID
}

type LiteralService struct {
	literals LiteralRepository
	clock    Clock
}

func NewLiteralService(literals LiteralRepository) *LiteralService {
	return &LiteralService{literals: literals, clock: utcNow}
}

func (s *LiteralService) Create(ctx context.Context, cmd CreateLiteralCommand) (ids.ThingID, error) {
	datatype := cmd.Datatype
	if datatype == "" {
		datatype = DatatypeString
	}
	if len(cmd.Label) > MaxLabelLength {
		return ids.ThingID{}, NewInvalidLabel("literal value")
	}
	if err := ValidateLiteralValue(cmd.Label, datatype); err != nil {
		return ids.ThingID{}, err
	}
	id, err := s.literals.NextIdentity(ctx)
	if err != nil {
		return ids.ThingID{}, err
	}
	l := Literal{ID: id, Label: cmd.Label, Datatype: datatype, CreatedAt: s.clock(), CreatedBy: cmd.Contributor, Modifiable: true}
	if err := s.literals.Save(ctx, l); err != nil {
		return ids.ThingID{}, err
	}
	return id, nil
}

// ValidateLiteralValue checks value against the xsd datatypes the core knows;
// other datatypes accept any value.
func ValidateLiteralValue(value, datatype string) error {
	var err error
	switch datatype {
	case DatatypeInt:
		_, err = strconv.ParseInt(value, 10, 32)
	case DatatypeInteger:
		_, err = strconv.ParseInt(value, 10, 64)
	case DatatypeDecimal:
		_, err = strconv.ParseFloat(value, 64)
	case DatatypeBoolean:
		if value != "true" && value != "false" {
			err = fmt.Errorf("not a boolean")
		}
	case DatatypeDate:
		_, err = time.Parse("2006-01-02", value)
	}
	if err != nil {
		return NewInvalidLiteral(value, datatype)
	}
	return nil
}

// ============================================================================
// Statements
// ============================================================================

type CreateStatementCommand struct {
	Subject     ids.ThingID
	Predicate   ids.ThingID
	Object      ids.ThingID
	Contributor ids.ContributorID
}

type StatementService struct {
	things     ThingRepository
	predicates PredicateRepository
	statements StatementRepository
	clock      Clock
	logger     *zap.Logger
}

func NewStatementService(things ThingRepository, predicates PredicateRepository, statements StatementRepository) *StatementService {
	return &StatementService{
		things:     things,
		predicates: predicates,
		statements: statements,
		clock:      utcNow,
		logger:     logger.Named("statements"),
	}
}

// Add creates a statement between existing nodes and returns its id
func (s *StatementService) Add(ctx context.Context, cmd CreateStatementCommand) (ids.StatementID, error) {
	subject, ok, err := s.things.FindByID(ctx, cmd.Subject)
	if err != nil {
		return ids.StatementID{}, err
	}
	if !ok {
		return ids.StatementID{}, NewStatementSubjectNotFound(cmd.Subject)
	}
	if KindOf(subject) == KindLiteral {
		return ids.StatementID{}, NewLiteralSubject(cmd.Subject)
	}
	predicate, ok, err := s.predicates.FindByID(ctx, cmd.Predicate)
	if err != nil {
		return ids.StatementID{}, err
	}
	if !ok {
		return ids.StatementID{}, NewStatementPredicateNotFound(cmd.Predicate)
	}
	object, ok, err := s.things.FindByID(ctx, cmd.Object)
	if err != nil {
		return ids.StatementID{}, err
	}
	if !ok {
		return ids.StatementID{}, NewStatementObjectNotFound(cmd.Object)
	}

	id, err := s.statements.NextIdentity(ctx)
	if err != nil {
		return ids.StatementID{}, err
	}
	statement := GeneralStatement{
		ID:         id,
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		CreatedAt:  s.clock(),
		CreatedBy:  cmd.Contributor,
		Modifiable: true,
	}
	if err := s.statements.Save(ctx, statement); err != nil {
		return ids.StatementID{}, err
	}
	s.logger.Debug("statement added",
		zap.String("id", id.String()),
		zap.String("subject", cmd.Subject.String()),
		zap.String("predicate", cmd.Predicate.String()),
		zap.String("object", cmd.Object.String()),
	)
	return id, nil
}

func (s *StatementService) FindByID(ctx context.Context, id ids.StatementID) (GeneralStatement, error) {
	st, ok, err := s.statements.FindByID(ctx, id)
	if err != nil {
		return GeneralStatement{}, err
	}
	if !ok {
		return GeneralStatement{}, NewStatementNotFound(id)
	}
	return st, nil
}

func (s *StatementService) FindAll(ctx context.Context, filter StatementFilter, req paging.Request) (paging.Page[GeneralStatement], error) {
	return s.statements.FindAll(ctx, filter, req)
}

func (s *StatementService) Count(ctx context.Context, filter StatementFilter) (int64, error) {
	return s.statements.Count(ctx, filter)
}

// Delete removes a modifiable statement
func (s *StatementService) Delete(ctx context.Context, id ids.StatementID) error {
	st, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !st.Modifiable {
		return NewStatementNotModifiable(id)
	}
	return s.statements.Delete(ctx, id)
}
