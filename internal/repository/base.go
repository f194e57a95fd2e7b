// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"epowrite/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes that indicate a transient concurrency failure.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateError maps store-level errors to the application error taxonomy.
// Record-not-found becomes NotFound for the given resource, serialization
// failures and deadlocks become retryable Conflicts, anything else Internal.
func translateError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return models.NewConflictError(err)
		}
	}

	return models.NewInternalError(err)
}
