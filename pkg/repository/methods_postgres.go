package repository

import (
	"context"
	"errors"
	"lunarwatch"

	"github.com/jmoiron/sqlx"
)

const (
	queryCreateTable = `CREATE TABLE IF NOT EXISTS upstream_calls (
					   id            BIGSERIAL PRIMARY KEY,
					   route         TEXT        NOT NULL,
					   upstream_path TEXT        NOT NULL,
					   status        INTEGER     NOT NULL,
					   duration_ms   BIGINT      NOT NULL,
					   failed        BOOLEAN     NOT NULL,
					   called_at     TIMESTAMPTZ NOT NULL)`

	queryInsert = `INSERT INTO upstream_calls
				   (route, upstream_path, status, duration_ms, failed, called_at)
				   VALUES(:route, :upstream_path, :status, :duration_ms, :failed, :called_at)`
)

type Actions struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Actions {
	return &Actions{db}
}

func (r *Actions) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, queryCreateTable)
	return err
}

func (r *Actions) InsertCall(ctx context.Context, c *lunarwatch.UpstreamCall) (int64, error) {

	if c == nil {
		return 0, errors.New("nil call")
	}

	result, err := r.db.NamedExecContext(ctx, queryInsert, c)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
