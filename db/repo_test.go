package db

import (
	"errors"
	"fmt"
	"testing"

	"Gin_postgres_redis_asset_tool/lifecycle"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	plain := errors.New("connection reset")
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"serialization failure", &pgconn.PgError{Code: "40001", Message: "could not serialize access"}, true},
		{"deadlock", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505", Message: "duplicate key"}, false},
		{"other error", plain, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.retryable, errors.Is(got, lifecycle.ErrStaleVersion))
		})
	}
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"host=db user=app password=secret dbname=assets port=5432 sslmode=disable",
		DSN("db", "app", "secret", "assets", "5432"))
}
