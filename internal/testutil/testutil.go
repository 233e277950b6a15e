// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"io"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/oggyb/portfolio-backend/internal/db/gormdb"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens GORM's Postgres dialect on top of a sqlmock connection.
// Expectations are verified when the test ends.
func SetupTestDB(t *testing.T) (*gormdb.GormDB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock connection: %s", err)
	}

	silent := logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{LogLevel: logger.Silent},
	)

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open gorm over sqlmock: %s", err)
	}

	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %s", err)
		}
		_ = sqlDB.Close()
	})

	return gormdb.Wrap(conn), mock
}

// NullLogger returns a logger that records entries instead of printing them.
func NullLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}
