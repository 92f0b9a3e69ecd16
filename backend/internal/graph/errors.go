package graph

import (
	"fmt"
	"net/http"

	"orkg-backend/backend/internal/ids"
	apperrors "orkg-backend/backend/pkg/errors"
)

// MaxLabelLength bounds every label and literal value
const MaxLabelLength = 8164

func NewResourceNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Resource", id.String())
}

func NewPredicateNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Predicate", id.String())
}

func NewClassNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Class", id.String())
}

func NewLiteralNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Literal", id.String())
}

func NewThingNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Thing", id.String())
}

func NewStatementNotFound(id ids.StatementID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Statement", id.String())
}

func NewResearchFieldNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Research field", id.String())
}

func NewProblemNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Research problem", id.String())
}

func NewDatasetNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Dataset", id.String())
}

// statement endpoints that reference a missing node are bad requests, not missing statements
func statementPartNotFound(part string, id ids.ThingID) *apperrors.ErrNotFound {
	err := apperrors.NewNotFound(part, id.String())
	err.Status = http.StatusBadRequest
	return err
}

func NewStatementSubjectNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return statementPartNotFound("Subject", id)
}

func NewStatementPredicateNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return statementPartNotFound("Predicate", id)
}

func NewStatementObjectNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return statementPartNotFound("Object", id)
}

// ErrReservedClass is returned when a command tries to assign a reserved class
type ErrReservedClass struct {
	*apperrors.BaseError
	ClassID ids.ThingID
}

func NewReservedClass(id ids.ThingID) *ErrReservedClass {
	return &ErrReservedClass{
		BaseError: apperrors.NewBaseError(apperrors.ErrorTypeValidation,
			fmt.Sprintf("Class %q is reserved and therefore cannot be set.", id), nil),
		ClassID: id,
	}
}

// ErrAlreadyExists is returned when a node id is already taken
type ErrAlreadyExists struct {
	*apperrors.BaseError
	Kind string
	ID   ids.ThingID
}

func NewAlreadyExists(kind string, id ids.ThingID) *ErrAlreadyExists {
	return &ErrAlreadyExists{
		BaseError: apperrors.NewConflict(fmt.Sprintf("%s %q already exists.", kind, id)),
		Kind:      kind,
		ID:        id,
	}
}

// ErrInvalidLabel is returned for blank, multi-line or oversized labels
type ErrInvalidLabel struct {
	*apperrors.BaseError
	Property string
}

func NewInvalidLabel(property string) *ErrInvalidLabel {
	return &ErrInvalidLabel{
		BaseError: apperrors.NewBaseError(apperrors.ErrorTypeValidation,
			fmt.Sprintf("A %s must not be blank or contain newlines and must be at most %d characters long.", property, MaxLabelLength), nil),
		Property: property,
	}
}

// ErrInvalidLiteral is returned when a literal value does not fit its datatype
type ErrInvalidLiteral struct {
	*apperrors.BaseError
	Value    string
	Datatype string
}

func NewInvalidLiteral(value, datatype string) *ErrInvalidLiteral {
	return &ErrInvalidLiteral{
		BaseError: apperrors.NewBaseError(apperrors.ErrorTypeValidation,
			fmt.Sprintf("Literal value %q is not a valid %q.", value, datatype), nil),
		Value:    value,
		Datatype: datatype,
	}
}

func NewLiteralSubject(id ids.ThingID) *apperrors.ErrValidation {
	return apperrors.NewValidation("subject", fmt.Sprintf("Literal %q cannot be the subject of a statement.", id))
}

func NewStatementNotModifiable(id ids.StatementID) *apperrors.BaseError {
	return apperrors.NewForbidden(fmt.Sprintf("Statement %q is not modifiable.", id))
}

func NewInvalidVisibilityFilter(value string) *apperrors.ErrValidation {
	return apperrors.NewValidation("visibility", fmt.Sprintf("unknown visibility filter %q", value))
}
