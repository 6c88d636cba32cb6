package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrNoDates   = errors.New("no option dates found in datasource")
	ErrNoOptions = errors.New("no option rows found in datasource")
)

type optionsRepository interface {
	Dates(ctx context.Context) ([]time.Time, error)
	Underlyings(ctx context.Context) ([]string, error)
	OptionsByDate(ctx context.Context, date time.Time) ([]optionRow, error)
}

type tradesRepository interface {
	TradesByDate(ctx context.Context, date time.Time) ([]tradeRow, error)
}

// Database struct that holds the database connection and queries.
type Database struct {
	options optionsRepository
	trades  tradesRepository
	conn    *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(context.Background()); err != nil {
		return Database{}, err
	}

	q := &queries{pool: conn}
	return Database{
		options: q,
		trades:  q,
		conn:    conn,
	}, nil
}

func (db *Database) Close() {
	db.conn.Close()
}
