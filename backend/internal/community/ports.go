package community

import (
	"context"

	"orkg-backend/backend/internal/ids"
)

// Repositories return (zero, false, nil) when nothing matches.

type ObservatoryRepository interface {
	Save(ctx context.Context, o Observatory) error
	FindByID(ctx context.Context, id ids.ObservatoryID) (Observatory, bool, error)
	FindByName(ctx context.Context, name string) (Observatory, bool, error)
	FindByDisplayID(ctx context.Context, displayID string) (Observatory, bool, error)
	Exists(ctx context.Context, id ids.ObservatoryID) (bool, error)
}

type OrganizationRepository interface {
	Save(ctx context.Context, o Organization) error
	FindByID(ctx context.Context, id ids.OrganizationID) (Organization, bool, error)
	FindByDisplayID(ctx context.Context, displayID string) (Organization, bool, error)
	Exists(ctx context.Context, id ids.OrganizationID) (bool, error)
}

type ContributorRepository interface {
	Save(ctx context.Context, c Contributor) error
	FindByID(ctx context.Context, id ids.ContributorID) (Contributor, bool, error)
	FindAllByObservatory(ctx context.Context, id ids.ObservatoryID) ([]Contributor, error)
}
