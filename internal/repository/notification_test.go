package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"epowrite/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.Notification{UserID: 1, Message: "your post was removed"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications" WHERE user_id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message"}).
			AddRow(2, 1, "newer").
			AddRow(1, 1, "older"))

	list, err := repo.ListByUser(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Delete(t *testing.T) {
	t.Run("Owned", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "notifications" WHERE id = $1 AND user_id = $2`)).
			WithArgs(5, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(context.Background(), 5, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not owned reports not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "notifications"`)).
			WithArgs(5, 2).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), 5, 2)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}
