package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// runInTx commits when fn succeeds and rolls back otherwise. Errors from fn
// are returned untouched; begin and commit failures become internal errors.
func runInTx(ctx context.Context, provider txProvider, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := provider.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return nil
}
