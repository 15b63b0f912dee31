package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repo is the Postgres implementation of lifecycle.Store.
type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

var _ lifecycle.Store = (*Repo)(nil)

const (
	sqlStateSerialization = "40001"
	sqlStateDeadlock      = "40P01"
)

func (r *Repo) InTx(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repoTx{db: tx})
	})
	return classify(err)
}

func (r *Repo) View(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repoTx{db: tx})
	}, &sql.TxOptions{ReadOnly: true})
	return classify(err)
}

// classify turns Postgres concurrency aborts into the retryable stale error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerialization, sqlStateDeadlock:
			return fmt.Errorf("%s: %w", pgErr.Message, lifecycle.ErrStaleVersion)
		}
	}
	return err
}

// first loads one row by id, mapping a miss to lifecycle.ErrNoRecord.
func first[T any](q *gorm.DB, id string) (*T, error) {
	var v T
	if err := q.First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrNoRecord
		}
		return nil, err
	}
	return &v, nil
}

// Users

func (t *repoTx) FindUser(id string) (*models.User, error) {
	return first[models.User](t.db, id)
}
