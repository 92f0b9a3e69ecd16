package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/community"
	"orkg-backend/backend/internal/ids"
	apperrors "orkg-backend/backend/pkg/errors"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *bool:
			*p = r.values[i].(bool)
		case *[]string:
			*p = r.values[i].([]string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

type fakeQueryer struct {
	execs   []string
	args    [][]interface{}
	row     fakeRow
	execErr error
}

func (q *fakeQueryer) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	q.args = append(q.args, args)
	return pgconn.CommandTag("INSERT 0 1"), q.execErr
}

func (q *fakeQueryer) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (q *fakeQueryer) QueryRow(_ context.Context, _ string, args ...interface{}) pgx.Row {
	q.args = append(q.args, args)
	return q.row
}

func TestObservatoryRepository_FindByID(t *testing.T) {
	id := ids.NewObservatoryID()
	org := ids.NewOrganizationID()
	q := &fakeQueryer{row: fakeRow{values: []any{
		id.String(), "Digital Libraries", "about", "R11", "digital_libraries", []string{org.String()},
	}}}

	o, ok, err := NewObservatoryRepository(q).FindByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, o.ID)
	assert.Equal(t, ids.MustThingID("R11"), o.ResearchField)
	assert.Equal(t, []ids.OrganizationID{org}, o.Organizations)
	assert.Equal(t, []interface{}{id.String()}, q.args[0])
}

func TestObservatoryRepository_NoRowsIsAbsent(t *testing.T) {
	q := &fakeQueryer{row: fakeRow{err: pgx.ErrNoRows}}

	_, ok, err := NewObservatoryRepository(q).FindByDisplayID(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestObservatoryRepository_UniqueViolationIsConflict(t *testing.T) {
	q := &fakeQueryer{execErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "observatories_name_key"}}

	err := NewObservatoryRepository(q).Save(context.Background(), community.Observatory{ID: ids.NewObservatoryID(), Name: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))
	assert.Contains(t, err.Error(), "observatories_name_key")
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate("op", nil))
	assert.True(t, apperrors.IsErrorType(translate("op", errors.New("boom")), apperrors.ErrorTypeStore))
	assert.True(t, apperrors.IsErrorType(translate("op", context.DeadlineExceeded), apperrors.ErrorTypeContext))
}

func TestContributorRepository_SaveBindsUnknownIDsAsNull(t *testing.T) {
	q := &fakeQueryer{}
	c := community.Contributor{ID: ids.NewContributorID(), Name: "Jane", JoinedAt: time.Now()}

	require.NoError(t, NewContributorRepository(q).Save(context.Background(), c))
	require.Len(t, q.args, 1)
	assert.Nil(t, q.args[0][4])
	assert.Nil(t, q.args[0][5])
}

func TestContributorRepository_FindByID(t *testing.T) {
	id := ids.NewContributorID()
	observatory := ids.NewObservatoryID()
	joined := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	q := &fakeQueryer{row: fakeRow{values: []any{id.String(), "Jane", "jane@example.org", joined, observatory.String(), ""}}}

	c, ok, err := NewContributorRepository(q).FindByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, c.IsMemberOf(observatory))
	assert.True(t, c.OrganizationID.IsUnknown())
	assert.True(t, joined.Equal(c.JoinedAt))
}

func TestMigrateStopsOnFailure(t *testing.T) {
	q := &fakeQueryer{execErr: errors.New("syntax")}

	err := Migrate(context.Background(), q)
	require.Error(t, err)
	assert.Len(t, q.execs, 1)
}

// createTestPool connects to the database named by POSTGRES_TEST_URL
func createTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	for _, table := range []string{"contributors", "observatories", "organizations"} {
		_, err := pool.Exec(ctx, `DROP TABLE IF EXISTS "`+table+`"`)
		require.NoError(t, err)
	}
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestIntegrationObservatoryMembers(t *testing.T) {
	pool := createTestPool(t)
	ctx := context.Background()
	observatories := NewObservatoryRepository(pool)
	contributors := NewContributorRepository(pool)

	o := community.Observatory{ID: ids.NewObservatoryID(), Name: "Robotics", ResearchField: ids.MustThingID("R11"), DisplayID: "robotics"}
	require.NoError(t, observatories.Save(ctx, o))

	duplicate := o
	duplicate.ID = ids.NewObservatoryID()
	err := observatories.Save(ctx, duplicate)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	member := community.Contributor{ID: ids.NewContributorID(), Name: "Jane", JoinedAt: time.Now().UTC(), ObservatoryID: o.ID}
	require.NoError(t, contributors.Save(ctx, member))

	members, err := contributors.FindAllByObservatory(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, member.ID, members[0].ID)

	found, ok, err := observatories.FindByName(ctx, "robotics")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, o.ID, found.ID)
}
