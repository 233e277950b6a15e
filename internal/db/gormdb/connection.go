package gormdb

import (
	"context"
	"fmt"

	"github.com/oggyb/portfolio-backend/internal/db"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	conn *gorm.DB
}

// New opens a Postgres connection. A nil logger keeps GORM's default.
func New(dsn string, log logger.Interface) (*GormDB, error) {
	cfg := &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	}
	if log != nil {
		cfg.Logger = log
	}

	conn, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	return &GormDB{conn: conn}, nil
}

// Wrap adapts an already opened *gorm.DB, e.g. one backed by sqlmock.
func Wrap(conn *gorm.DB) *GormDB {
	return &GormDB{conn: conn}
}

func (g *GormDB) Conn() any {
	return g.conn
}

// Ping checks the underlying sql.DB.
func (g *GormDB) Ping(ctx context.Context) error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return fmt.Errorf("gormdb: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the tables of the given models.
func (g *GormDB) Migrate(models ...any) error {
	return g.conn.AutoMigrate(models...)
}

// Close releases the connection pool.
func (g *GormDB) Close() error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// verify it satisfies db.DB
var _ db.DB = (*GormDB)(nil)
