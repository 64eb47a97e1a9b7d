// internal/store/postgres.go
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Migrate применяет встроенную схему. Повторный запуск безопасен.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	logger.InfoContext(ctx, "Applying database schema")
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		logger.ErrorContext(ctx, "Failed to apply database schema", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// NewPostgresStores создает все хранилища поверх одного подключения.
func NewPostgresStores(db *sqlx.DB, logger *slog.Logger) (*Stores, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &Stores{
		Films:       &PostgresFilmStore{db: db, logger: logger},
		Users:       &PostgresUserStore{db: db, logger: logger},
		Friendships: &PostgresFriendshipStore{db: db, logger: logger},
		Likes:       &PostgresLikeStore{db: db, logger: logger},
		Reviews:     &PostgresReviewStore{db: db, logger: logger},
		Reactions:   &PostgresReactionStore{db: db, logger: logger},
		Events:      &PostgresEventStore{db: db, logger: logger},
		Directors:   &PostgresDirectorStore{db: db, logger: logger},
		Genres:      &PostgresGenreStore{db: db, logger: logger},
		Mpa:         &PostgresMpaStore{db: db, logger: logger},
	}, nil
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// withTx выполняет fn в транзакции: commit при успехе, rollback при любой ошибке.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func exists(ctx context.Context, db *sqlx.DB, query string, id int64) (bool, error) {
	var ok bool
	if err := db.GetContext(ctx, &ok, query, id); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return ok, nil
}
