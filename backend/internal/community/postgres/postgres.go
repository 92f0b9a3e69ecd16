// Package postgres stores the community domain in PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	"orkg-backend/backend/internal/community"
	"orkg-backend/backend/internal/ids"
	apperrors "orkg-backend/backend/pkg/errors"
)

// Queryer is the subset of pgxpool.Pool, pgxpool.Conn and pgx.Tx the repositories use
type Queryer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// translate maps driver errors onto the application categories
func translate(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewContextCancelled(operation, err)
	}
	if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UniqueViolation {
		return apperrors.NewBaseError(apperrors.ErrorTypeConflict, operation+": "+pgerr.ConstraintName+" already taken", err)
	}
	return apperrors.NewStoreQueryFailed(operation, err)
}

// nullable binds unknown ids as NULL
func nullable(id interface {
	IsUnknown() bool
	String() string
}) *string {
	if id.IsUnknown() {
		return nil
	}
	s := id.String()
	return &s
}

// ============================================================================
// Observatories
// ============================================================================

type ObservatoryRepository struct {
	q Queryer
}

func NewObservatoryRepository(q Queryer) *ObservatoryRepository {
	return &ObservatoryRepository{q: q}
}

const observatoryColumns = `"id"::text, "name", "description", "research_field", "display_id", "organization_ids"::text[]`

func (r *ObservatoryRepository) Save(ctx context.Context, o community.Observatory) error {
	orgs := make([]string, len(o.Organizations))
	for i, id := range o.Organizations {
		orgs[i] = id.String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO "observatories" ("id", "name", "description", "research_field", "display_id", "organization_ids")
		VALUES ($1::uuid, $2, $3, $4, $5, $6::uuid[])
		ON CONFLICT ("id") DO UPDATE SET
			"name" = EXCLUDED."name",
			"description" = EXCLUDED."description",
			"research_field" = EXCLUDED."research_field",
			"display_id" = EXCLUDED."display_id",
			"organization_ids" = EXCLUDED."organization_ids"`,
		o.ID.String(), o.Name, o.Description, o.ResearchField.String(), o.DisplayID, orgs,
	)
	return translate("observatories.save", err)
}

func (r *ObservatoryRepository) FindByID(ctx context.Context, id ids.ObservatoryID) (community.Observatory, bool, error) {
	return r.findOne(ctx, "observatories.find_by_id",
		`SELECT `+observatoryColumns+` FROM "observatories" WHERE "id" = $1::uuid`, id.String())
}

func (r *ObservatoryRepository) FindByName(ctx context.Context, name string) (community.Observatory, bool, error) {
	return r.findOne(ctx, "observatories.find_by_name",
		`SELECT `+observatoryColumns+` FROM "observatories" WHERE lower("name") = lower($1)`, name)
}

func (r *ObservatoryRepository) FindByDisplayID(ctx context.Context, displayID string) (community.Observatory, bool, error) {
	return r.findOne(ctx, "observatories.find_by_display_id",
		`SELECT `+observatoryColumns+` FROM "observatories" WHERE "display_id" = $1`, displayID)
}

func (r *ObservatoryRepository) findOne(ctx context.Context, operation, sql string, arg string) (community.Observatory, bool, error) {
	var (
		id, name, description, field, displayID string
		orgs                                    []string
	)
	err := r.q.QueryRow(ctx, sql, arg).Scan(&id, &name, &description, &field, &displayID, &orgs)
	if errors.Is(err, pgx.ErrNoRows) {
		return community.Observatory{}, false, nil
	}
	if err != nil {
		return community.Observatory{}, false, translate(operation, err)
	}
	o := community.Observatory{Name: name, Description: description, DisplayID: displayID}
	if o.ID, err = ids.ParseObservatoryID(id); err != nil {
		return community.Observatory{}, false, err
	}
	if o.ResearchField, err = ids.ParseThingID(field); err != nil {
		return community.Observatory{}, false, err
	}
	o.Organizations = make([]ids.OrganizationID, len(orgs))
	for i, s := range orgs {
		if o.Organizations[i], err = ids.ParseOrganizationID(s); err != nil {
			return community.Observatory{}, false, err
		}
	}
	return o, true, nil
}

func (r *ObservatoryRepository) Exists(ctx context.Context, id ids.ObservatoryID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM "observatories" WHERE "id" = $1::uuid)`, id.String()).Scan(&exists)
	return exists, translate("observatories.exists", err)
}

// ============================================================================
// Organizations
// ============================================================================

type OrganizationRepository struct {
	q Queryer
}

func NewOrganizationRepository(q Queryer) *OrganizationRepository {
	return &OrganizationRepository{q: q}
}

const organizationColumns = `"id"::text, "name", "display_id", "url", "type", coalesce("created_by"::text, '')`

func (r *OrganizationRepository) Save(ctx context.Context, o community.Organization) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO "organizations" ("id", "name", "display_id", "url", "type", "created_by")
		VALUES ($1::uuid, $2, $3, $4, $5, $6::uuid)
		ON CONFLICT ("id") DO UPDATE SET
			"name" = EXCLUDED."name",
			"display_id" = EXCLUDED."display_id",
			"url" = EXCLUDED."url",
			"type" = EXCLUDED."type"`,
		o.ID.String(), o.Name, o.DisplayID, o.URL, string(o.Type), nullable(o.CreatedBy),
	)
	return translate("organizations.save", err)
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id ids.OrganizationID) (community.Organization, bool, error) {
	return r.findOne(ctx, "organizations.find_by_id",
		`SELECT `+organizationColumns+` FROM "organizations" WHERE "id" = $1::uuid`, id.String())
}

func (r *OrganizationRepository) FindByDisplayID(ctx context.Context, displayID string) (community.Organization, bool, error) {
	return r.findOne(ctx, "organizations.find_by_display_id",
		`SELECT `+organizationColumns+` FROM "organizations" WHERE "display_id" = $1`, displayID)
}

func (r *OrganizationRepository) findOne(ctx context.Context, operation, sql, arg string) (community.Organization, bool, error) {
	var id, name, displayID, url, kind, createdBy string
	err := r.q.QueryRow(ctx, sql, arg).Scan(&id, &name, &displayID, &url, &kind, &createdBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return community.Organization{}, false, nil
	}
	if err != nil {
		return community.Organization{}, false, translate(operation, err)
	}
	o := community.Organization{Name: name, DisplayID: displayID, URL: url, Type: community.ParseOrganizationType(kind)}
	if o.ID, err = ids.ParseOrganizationID(id); err != nil {
		return community.Organization{}, false, err
	}
	if createdBy != "" {
		if o.CreatedBy, err = ids.ParseContributorID(createdBy); err != nil {
			return community.Organization{}, false, err
		}
	}
	return o, true, nil
}

func (r *OrganizationRepository) Exists(ctx context.Context, id ids.OrganizationID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM "organizations" WHERE "id" = $1::uuid)`, id.String()).Scan(&exists)
	return exists, translate("organizations.exists", err)
}

// ============================================================================
// Contributors
// ============================================================================

type ContributorRepository struct {
	q Queryer
}

func NewContributorRepository(q Queryer) *ContributorRepository {
	return &ContributorRepository{q: q}
}

const contributorColumns = `"id"::text, "name", "email", "joined_at", coalesce("observatory_id"::text, ''), coalesce("organization_id"::text, '')`

func (r *ContributorRepository) Save(ctx context.Context, c community.Contributor) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO "contributors" ("id", "name", "email", "joined_at", "observatory_id", "organization_id")
		VALUES ($1::uuid, $2, $3, $4, $5::uuid, $6::uuid)
		ON CONFLICT ("id") DO UPDATE SET
			"name" = EXCLUDED."name",
			"email" = EXCLUDED."email",
			"observatory_id" = EXCLUDED."observatory_id",
			"organization_id" = EXCLUDED."organization_id"`,
		c.ID.String(), c.Name, c.Email, c.JoinedAt, nullable(c.ObservatoryID), nullable(c.OrganizationID),
	)
	return translate("contributors.save", err)
}

func (r *ContributorRepository) FindByID(ctx context.Context, id ids.ContributorID) (community.Contributor, bool, error) {
	c, err := scanContributor(r.q.QueryRow(ctx,
		`SELECT `+contributorColumns+` FROM "contributors" WHERE "id" = $1::uuid`, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return community.Contributor{}, false, nil
	}
	if err != nil {
		return community.Contributor{}, false, translate("contributors.find_by_id", err)
	}
	return c, true, nil
}

func (r *ContributorRepository) FindAllByObservatory(ctx context.Context, id ids.ObservatoryID) ([]community.Contributor, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+contributorColumns+` FROM "contributors" WHERE "observatory_id" = $1::uuid ORDER BY "joined_at", "id"`,
		id.String())
	if err != nil {
		return nil, translate("contributors.find_all_by_observatory", err)
	}
	defer rows.Close()

	var members []community.Contributor
	for rows.Next() {
		c, err := scanContributor(rows)
		if err != nil {
			return nil, translate("contributors.find_all_by_observatory", err)
		}
		members = append(members, c)
	}
	return members, translate("contributors.find_all_by_observatory", rows.Err())
}

func scanContributor(row pgx.Row) (community.Contributor, error) {
	var (
		c                                  community.Contributor
		id, observatoryID, organizationID string
	)
	if err := row.Scan(&id, &c.Name, &c.Email, &c.JoinedAt, &observatoryID, &organizationID); err != nil {
		return community.Contributor{}, err
	}
	var err error
	if c.ID, err = ids.ParseContributorID(id); err != nil {
		return community.Contributor{}, err
	}
	if observatoryID != "" {
		if c.ObservatoryID, err = ids.ParseObservatoryID(observatoryID); err != nil {
			return community.Contributor{}, err
		}
	}
	if organizationID != "" {
		if c.OrganizationID, err = ids.ParseOrganizationID(organizationID); err != nil {
			return community.Contributor{}, err
		}
	}
	return c, nil
}
