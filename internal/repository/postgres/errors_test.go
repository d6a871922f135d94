package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		noRows   bool
		diskFull bool
	}{
		{name: "no rows", err: pgx.ErrNoRows, noRows: true},
		{name: "wrapped no rows", err: fmt.Errorf("get: %w", pgx.ErrNoRows), noRows: true},
		{name: "disk full", err: &pgconn.PgError{Code: "53100"}, diskFull: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.noRows, IsPgNoRowsError(tt.err))
			assert.Equal(t, tt.diskFull, IsPgDiskFullError(tt.err))
		})
	}
}
