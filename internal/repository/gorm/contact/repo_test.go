package contactgorm

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var columns = []string{"id", "name", "email", "project", "message", "is_read", "created_at"}

func TestRepository_Save(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	msg := &contact.Message{
		ID:        uuid.New(),
		Name:      "Jo Lee",
		Email:     "jo@x.com",
		Message:   "Interested in your backend work",
		CreatedAt: time.Now(),
	}

	mock.ExpectExec(`INSERT INTO "contact_messages"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), msg))
}

func TestRepository_Save_Error(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`INSERT INTO "contact_messages"`).
		WillReturnError(gorm.ErrInvalidDB)

	err := repo.Save(context.Background(), &contact.Message{ID: uuid.New()})
	assert.ErrorIs(t, err, gorm.ErrInvalidDB)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "contact_messages" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "Jo Lee", "jo@x.com", "", "Interested in your backend work", false, now))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "jo@x.com", got.Email)
	assert.False(t, got.IsRead)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "contact_messages" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, contact.ErrNotFound)
}

func TestRepository_List_NewestFirstWithFilter(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	unread := false

	mock.ExpectQuery(`SELECT \* FROM "contact_messages" WHERE is_read = \$1 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), "B", "b@x.com", "", "second message body", false, now).
			AddRow(uuid.NewString(), "A", "a@x.com", "", "first message body", false, now.Add(-time.Hour)))

	got, err := repo.List(context.Background(), contact.ListFilter{IsRead: &unread, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
}

func TestRepository_SetRead(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	id := uuid.New()

	mock.ExpectExec(`UPDATE "contact_messages" SET "is_read"=\$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "contact_messages" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "Jo Lee", "jo@x.com", "", "Interested in your backend work", true, time.Now()))

	got, err := repo.SetRead(context.Background(), id, true)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
}

func TestRepository_SetRead_NotFound(t *testing.T) {
	db, mock := testutil.SetupTestDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE "contact_messages" SET "is_read"=\$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.SetRead(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, contact.ErrNotFound)
}
