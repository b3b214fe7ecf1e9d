package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ LegacyStore = &LegacyPostgres{}

// LegacyPostgres reads the bulk legacy record from legacy_kv.
type LegacyPostgres struct {
	db *pgxpool.Pool
}

func NewLegacyPostgres(db *pgxpool.Pool) *LegacyPostgres {
	return &LegacyPostgres{db: db}
}

func (r *LegacyPostgres) Load(ctx context.Context) ([]byte, bool, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM legacy_kv WHERE key = $1`, LegacyProjectsKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load legacy projects: %w", err)
	}
	return raw, true, nil
}

func (r *LegacyPostgres) Remove(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM legacy_kv WHERE key = $1`, LegacyProjectsKey); err != nil {
		return fmt.Errorf("remove legacy projects: %w", err)
	}
	return nil
}
