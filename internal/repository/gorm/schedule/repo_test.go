package schedulegorm

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/oggyb/portfolio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "name", "email", "phone", "preferred_date", "preferred_time",
	"timezone", "topic", "message", "status", "created_at", "updated_at",
}

func row(rows *sqlmock.Rows, id uuid.UUID, date time.Time, tod, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(id.String(), "Jo Lee", "jo@x.com", "+15551234567", date, tod,
		"UTC", "Backend consulting", "", status, now, now)
}

func TestRepository_Save(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`INSERT INTO "call_schedules"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &schedule.CallSchedule{
		ID:            uuid.New(),
		PreferredDate: time.Date(2030, 6, 16, 0, 0, 0, 0, time.UTC),
		PreferredTime: schedule.TimeOfDay{Hour: 10, Minute: 30},
		Status:        schedule.StatusPending,
	}
	require.NoError(t, repo.Save(context.Background(), c))
}

func TestRepository_GetByID_MapsDateAndTime(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	id := uuid.New()
	date := time.Date(2030, 6, 16, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "call_schedules" WHERE id = \$1`).
		WillReturnRows(row(sqlmock.NewRows(columns), id, date, "10:30:00", "confirmed"))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusConfirmed, got.Status)
	assert.Equal(t, time.Date(2030, 6, 16, 10, 30, 0, 0, time.UTC), got.ScheduledAt())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "call_schedules" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, schedule.ErrNotFound)
}

func TestRepository_List_FiltersAndOrders(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	from := time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "call_schedules" WHERE status IN \(\$1,\$2\) AND preferred_date >= \$3 ORDER BY preferred_date ASC, preferred_time ASC`).
		WithArgs("pending", "confirmed", "2030-06-15").
		WillReturnRows(row(sqlmock.NewRows(columns), uuid.New(), from, "09:00:00", "pending"))

	got, err := repo.List(context.Background(), schedule.ListFilter{
		Statuses: []schedule.Status{schedule.StatusPending, schedule.StatusConfirmed},
		FromDate: &from,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "09:00:00", got[0].PreferredTime.String())
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	fixed := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	id := uuid.New()

	mock.ExpectExec(`UPDATE "call_schedules" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "call_schedules" WHERE id = \$1`).
		WillReturnRows(row(sqlmock.NewRows(columns), id, fixed, "10:00:00", "cancelled"))

	got, err := repo.UpdateStatus(context.Background(), id, schedule.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCancelled, got.Status)
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE "call_schedules"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateStatus(context.Background(), uuid.New(), schedule.StatusCompleted)
	assert.ErrorIs(t, err, schedule.ErrNotFound)
}
