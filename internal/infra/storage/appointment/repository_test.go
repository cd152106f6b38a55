package appointment

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/pkg/dbmetrics"
	"github.com/m04kA/atelier-scheduling/pkg/ptr"
)

var errStop = errors.New("stop")

// captureExecutor запоминает последний запрос и возвращает ошибку вместо похода в БД
type captureExecutor struct {
	query  string
	args   []interface{}
	result sql.Result
	err    error
}

func (c *captureExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.query, c.args = query, args
	return c.result, c.err
}

func (c *captureExecutor) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	c.query, c.args = query, args
	return nil, c.err
}

func (c *captureExecutor) QueryRowContext(_ context.Context, query string, args ...interface{}) *sql.Row {
	c.query, c.args = query, args
	return &sql.Row{}
}

func (c *captureExecutor) Commit() error   { return nil }
func (c *captureExecutor) Rollback() error { return nil }

func TestFind_BuildsTypedFilter(t *testing.T) {
	primary := &captureExecutor{err: errStop}
	replica := &captureExecutor{err: errStop}
	repo := NewRepository(primary, replica)

	from := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Millisecond)

	_, err := repo.Find(context.Background(), domain.AppointmentFilter{
		From:           &from,
		To:             &to,
		Statuses:       domain.ActiveStatuses,
		AssignedUserID: ptr.Ptr(int64(7)),
	})

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.Empty(t, primary.query, "display reads go to the replica")
	assert.Equal(t,
		"SELECT id, customer_name, customer_phone, customer_email, notes, datetime_start, datetime_end, status, assigned_user_id, created_at, updated_at "+
			"FROM appointments WHERE datetime_start >= $1 AND datetime_start <= $2 AND status IN ($3,$4) AND assigned_user_id = $5 "+
			"ORDER BY datetime_start ASC",
		replica.query)
	assert.Equal(t, []interface{}{from, to, "PENDING", "CONFIRMED", int64(7)}, replica.args)
}

func TestFindOverlapping_HalfOpenAndLockedInTx(t *testing.T) {
	primary := &captureExecutor{err: errStop}
	replica := &captureExecutor{err: errStop}
	repo := NewRepository(primary, replica)

	start := time.Date(2026, 3, 16, 10, 15, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	_, err := repo.FindOverlapping(context.Background(), start, end, domain.ActiveStatuses)
	require.Error(t, err)
	assert.Contains(t, primary.query, "WHERE datetime_start < $1 AND datetime_end > $2 AND status IN ($3,$4)")
	assert.NotContains(t, primary.query, "FOR UPDATE")
	assert.Equal(t, end, primary.args[0])
	assert.Equal(t, start, primary.args[1])

	tx := &captureExecutor{err: errStop}
	_, err = repo.FindOverlapping(dbmetrics.WithTx(context.Background(), tx), start, end, domain.ActiveStatuses)
	require.Error(t, err)
	assert.Contains(t, tx.query, "FOR UPDATE")
	assert.Empty(t, replica.query, "authoritative check never reads the replica")
}

func TestFindOverlapping_SerializationFailure(t *testing.T) {
	primary := &captureExecutor{err: &pq.Error{Code: "40001"}}
	repo := NewRepository(primary, nil)

	_, err := repo.FindOverlapping(context.Background(), time.Now(), time.Now().Add(time.Hour), nil)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestUpdateStatus_ConditionalOnCurrentStatus(t *testing.T) {
	primary := &captureExecutor{result: driver.RowsAffected(1)}
	repo := NewRepository(primary, nil)

	err := repo.UpdateStatus(context.Background(), 10, domain.StatusPending, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		primary.query)
	assert.Equal(t, []interface{}{domain.StatusCancelled, int64(10), domain.StatusPending}, primary.args)
}

func TestUpdateStatus_StatusChangedConcurrently(t *testing.T) {
	primary := &captureExecutor{result: driver.RowsAffected(0)}
	repo := NewRepository(primary, nil)

	err := repo.UpdateStatus(context.Background(), 10, domain.StatusPending, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestMapWriteError(t *testing.T) {
	repo := NewRepository(&captureExecutor{}, nil)

	assert.ErrorIs(t, repo.mapWriteError("Create", &pq.Error{Code: "23P01"}), ErrOverlap)
	assert.ErrorIs(t, repo.mapWriteError("Create", &pq.Error{Code: "40001"}), ErrSerialization)
	assert.ErrorIs(t, repo.mapWriteError("Create", errors.New("connection reset")), ErrExecQuery)
}

func TestPqErrorHelpers(t *testing.T) {
	wrapped := errors.Join(errors.New("commit"), &pq.Error{Code: "40001"})

	assert.True(t, IsSerializationFailure(wrapped))
	assert.False(t, IsOverlapViolation(wrapped))
	assert.False(t, IsSerializationFailure(errors.New("plain")))
}
