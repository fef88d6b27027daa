package sqlite

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/garnizeh/gigpay/internal/db"
	"github.com/garnizeh/gigpay/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	q      db.Querier
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.ProfileRepo = (*SQLiteRepo)(nil)
var _ repository.ContractRepo = (*SQLiteRepo)(nil)
var _ repository.JobRepo = (*SQLiteRepo)(nil)
var _ repository.Store = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, q: conn, logger: logger}
}

// InTx runs fn against a repo bound to a single transaction. Calling InTx on
// a repo that is already transaction-bound runs fn in the enclosing scope.
func (r *SQLiteRepo) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if r.conn == nil {
		return fn(r)
	}
	return r.conn.WithTx(ctx, func(q db.Querier) error {
		return fn(&SQLiteRepo{q: q, logger: r.logger})
	})
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
