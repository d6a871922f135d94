package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgDiskFullError checks if error is an out-of-space condition
func IsPgDiskFullError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 53100 = disk_full, 54000 = program_limit_exceeded
		return pgErr.Code == "53100" || pgErr.Code == "54000"
	}
	return false
}
