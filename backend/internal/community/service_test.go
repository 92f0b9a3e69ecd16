package community_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/community"
	"orkg-backend/backend/internal/community/inmemory"
	"orkg-backend/backend/internal/graph"
	graphmem "orkg-backend/backend/internal/graph/inmemory"
	"orkg-backend/backend/internal/ids"
	apperrors "orkg-backend/backend/pkg/errors"
)

type fixture struct {
	store         *inmemory.Store
	observatories *community.ObservatoryService
	organizations *community.OrganizationService
	contributors  *community.ContributorService
	field         ids.ThingID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	g := graphmem.NewGraph()
	store := inmemory.NewStore()
	field := ids.MustThingID("R11")
	require.NoError(t, g.Resources().Save(ctx, graph.Resource{ID: field, Label: "Science", Classes: []ids.ThingID{graph.ClassResearchField}}))
	require.NoError(t, g.Resources().Save(ctx, graph.Resource{ID: ids.MustThingID("R1"), Label: "Not a field"}))
	return fixture{
		store:         store,
		observatories: community.NewObservatoryService(store.Observatories(), store.Organizations(), store.Contributors(), g.Resources()),
		organizations: community.NewOrganizationService(store.Organizations()),
		contributors:  community.NewContributorService(store.Contributors()),
		field:         field,
	}
}

func (f fixture) organization(t *testing.T) ids.OrganizationID {
	t.Helper()
	id, err := f.organizations.Create(context.Background(), community.CreateOrganizationCommand{
		Name:      "TIB",
		DisplayID: "tib",
		URL:       "https://www.tib.eu",
	})
	require.NoError(t, err)
	return id
}

func TestObservatoryService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.organization(t)

	id, err := f.observatories.Create(ctx, community.CreateObservatoryCommand{
		Name:          "  Digital Libraries ",
		DisplayID:     "digital_libraries",
		ResearchField: f.field,
		Organizations: []ids.OrganizationID{org},
	})
	require.NoError(t, err)

	o, err := f.observatories.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Digital Libraries", o.Name)
	assert.Equal(t, []ids.OrganizationID{org}, o.Organizations)
	assert.Empty(t, o.Members)

	ok, err := f.observatories.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestObservatoryService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.observatories.Create(ctx, community.CreateObservatoryCommand{Name: "Taken", DisplayID: "taken", ResearchField: f.field})
	require.NoError(t, err)

	tests := []struct {
		name    string
		cmd     community.CreateObservatoryCommand
		errType apperrors.ErrorType
		message string
	}{
		{
			name:    "duplicate name ignoring case",
			cmd:     community.CreateObservatoryCommand{Name: "taken", DisplayID: "other", ResearchField: f.field},
			errType: apperrors.ErrorTypeConflict,
			message: `Observatory with name "taken" already exists.`,
		},
		{
			name:    "duplicate display id",
			cmd:     community.CreateObservatoryCommand{Name: "Other", DisplayID: "taken", ResearchField: f.field},
			errType: apperrors.ErrorTypeConflict,
		},
		{
			name:    "unknown organization",
			cmd:     community.CreateObservatoryCommand{Name: "Other", DisplayID: "other", ResearchField: f.field, Organizations: []ids.OrganizationID{ids.NewOrganizationID()}},
			errType: apperrors.ErrorTypeNotFound,
		},
		{
			name:    "resource that is not a research field",
			cmd:     community.CreateObservatoryCommand{Name: "Other", DisplayID: "other", ResearchField: ids.MustThingID("R1")},
			errType: apperrors.ErrorTypeNotFound,
			message: `Research field "R1" not found.`,
		},
		{
			name:    "missing name",
			cmd:     community.CreateObservatoryCommand{DisplayID: "other", ResearchField: f.field},
			errType: apperrors.ErrorTypeValidation,
		},
		{
			name:    "malformed display id",
			cmd:     community.CreateObservatoryCommand{Name: "Other", DisplayID: "Not Valid", ResearchField: f.field},
			errType: apperrors.ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.observatories.Create(ctx, tt.cmd)
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, tt.errType), "got %v", err)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestObservatoryService_AddMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.organization(t)
	id, err := f.observatories.Create(ctx, community.CreateObservatoryCommand{
		Name: "Robotics", DisplayID: "robotics", ResearchField: f.field, Organizations: []ids.OrganizationID{org},
	})
	require.NoError(t, err)

	janeID, err := f.contributors.Create(ctx, community.CreateContributorCommand{Name: "Jane", Email: "jane@example.org"})
	require.NoError(t, err)
	jane, err := f.contributors.FindByID(ctx, janeID)
	require.NoError(t, err)

	require.NoError(t, f.observatories.AddMember(ctx, id, jane.ID))

	o, err := f.observatories.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []ids.ContributorID{jane.ID}, o.Members)

	stored, ok, err := f.store.Contributors().FindByID(ctx, jane.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, org, stored.OrganizationID)

	err = f.observatories.AddMember(ctx, id, jane.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	err = f.observatories.AddMember(ctx, id, ids.NewContributorID())
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	err = f.observatories.AddMember(ctx, ids.NewObservatoryID(), jane.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestContributorService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := time.Now().UTC()

	id, err := f.contributors.Create(ctx, community.CreateContributorCommand{Name: "  Ada ", Email: " ada@example.org "})
	require.NoError(t, err)
	c, err := f.contributors.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "ada@example.org", c.Email)
	assert.False(t, c.JoinedAt.Before(before))
	assert.True(t, c.ObservatoryID.IsUnknown())

	fixed := ids.NewContributorID()
	got, err := f.contributors.Create(ctx, community.CreateContributorCommand{ID: fixed, Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, fixed, got)

	_, err = f.contributors.Create(ctx, community.CreateContributorCommand{ID: fixed, Name: "Grace again"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	_, err = f.contributors.Create(ctx, community.CreateContributorCommand{Name: " "})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	_, err = f.contributors.Create(ctx, community.CreateContributorCommand{Name: "Bad", Email: "not-an-email"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	_, err = f.contributors.FindByID(ctx, ids.NewContributorID())
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestOrganizationService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.organization(t)

	org, err := f.organizations.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, community.OrganizationGeneral, org.Type)

	_, err = f.organizations.Create(ctx, community.CreateOrganizationCommand{Name: "Copy", DisplayID: "tib"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	_, err = f.organizations.Create(ctx, community.CreateOrganizationCommand{Name: "Bad", DisplayID: "bad", URL: "not a url"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	_, err = f.organizations.FindByID(ctx, ids.NewOrganizationID())
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestContributorAvatar(t *testing.T) {
	c := community.Contributor{Email: " Jane@Example.org "}
	assert.Equal(t, ids.NewGravatarID("jane@example.org"), c.GravatarID())
	assert.Contains(t, c.AvatarURL(), c.GravatarID().String())
}
