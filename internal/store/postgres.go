package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
	"go.uber.org/zap"
)

// PostgresKV stores slots in the kv_slots table created by the embedded
// migrations. Writes run through database.WithRetry.
type PostgresKV struct {
	db  *sql.DB
	log *zap.Logger
}

func NewPostgresKV(db *sql.DB, log *zap.Logger) *PostgresKV {
	return &PostgresKV{db: db, log: log.Named("pgkv")}
}

func (p *PostgresKV) txOptions() database.TxOptions {
	opts := database.DefaultTxOptions()
	opts.Logger = p.log
	return opts
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("query slot %s: %w", key, err)
	}
	return value, nil
}

func (p *PostgresKV) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := database.WithRetry(ctx, p.db, p.txOptions(), func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv_slots (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, updated_at = NOW()
		`, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	err := database.WithRetry(ctx, p.db, p.txOptions(), func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM kv_slots WHERE key = $1`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Close() error {
	return p.db.Close()
}
