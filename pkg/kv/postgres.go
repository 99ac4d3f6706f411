package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps every document in a single table keyed by the document
// key, with a version column guarding conditional writes.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// ConnectPostgres opens a pgx pool with retries and ensures the
// documents table exists. The table is the only schema this service
// owns, so it is bootstrapped in place rather than through a migration
// toolchain.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MinIdleConns

	var pool *pgxpool.Pool
	for i := range cfg.RetryAttempts {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
			pool = nil
		}
		time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
	}
	if pool == nil {
		return nil, errors.Join(ErrNotReady, err)
	}

	p := &Postgres{pool: pool, table: cfg.Table}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			version    BIGINT NOT NULL,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, p.table))
	return err
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var (
		data    []byte
		version int64
	)
	query := fmt.Sprintf(`SELECT data, version FROM %s WHERE key = $1`, p.table)
	err := p.pool.QueryRow(ctx, query, key).Scan(&data, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return data, version, nil
}

func (p *Postgres) Put(ctx context.Context, key string, value []byte, version int64) error {
	if version == 0 {
		query := fmt.Sprintf(`
			INSERT INTO %s (key, version, data) VALUES ($1, 1, $2)
			ON CONFLICT (key) DO NOTHING`, p.table)
		tag, err := p.pool.Exec(ctx, query, key, value)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionMismatch
		}
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s SET data = $2, version = version + 1, updated_at = now()
		WHERE key = $1 AND version = $3`, p.table)
	tag, err := p.pool.Exec(ctx, query, key, value, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionMismatch
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
