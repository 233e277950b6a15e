package db

import "context"

// DB is a generic database port that lets repositories stay unaware of
// the concrete driver (GORM here, but sqlc, pgx or in-memory would fit).
type DB interface {
	Conn() any
	Ping(ctx context.Context) error
}
