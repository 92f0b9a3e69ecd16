package community

import (
	"fmt"

	"orkg-backend/backend/internal/ids"
	apperrors "orkg-backend/backend/pkg/errors"
)

func NewObservatoryNotFound(id ids.ObservatoryID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Observatory", id.String())
}

func NewOrganizationNotFound(id ids.OrganizationID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Organization", id.String())
}

func NewContributorNotFound(id ids.ContributorID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Contributor", id.String())
}

// ErrObservatoryAlreadyExists is returned when a name or display id is taken
type ErrObservatoryAlreadyExists struct {
	*apperrors.BaseError
	Attribute string
	Value     string
}

func NewObservatoryAlreadyExists(attribute, value string) *ErrObservatoryAlreadyExists {
	return &ErrObservatoryAlreadyExists{
		BaseError: apperrors.NewConflict(fmt.Sprintf("Observatory with %s %q already exists.", attribute, value)),
		Attribute: attribute,
		Value:     value,
	}
}

// ErrOrganizationAlreadyExists is returned when a name or display id is taken
type ErrOrganizationAlreadyExists struct {
	*apperrors.BaseError
	Attribute string
	Value     string
}

func NewOrganizationAlreadyExists(attribute, value string) *ErrOrganizationAlreadyExists {
	return &ErrOrganizationAlreadyExists{
		BaseError: apperrors.NewConflict(fmt.Sprintf("Organization with %s %q already exists.", attribute, value)),
		Attribute: attribute,
		Value:     value,
	}
}

func NewContributorAlreadyExists(id ids.ContributorID) *apperrors.BaseError {
	return apperrors.NewConflict(fmt.Sprintf("Contributor %q already exists.", id))
}

func NewUserAlreadyMember(contributor ids.ContributorID, observatory ids.ObservatoryID) *apperrors.BaseError {
	return apperrors.NewConflict(fmt.Sprintf("User %q is already a member of observatory %q.", contributor, observatory))
}
