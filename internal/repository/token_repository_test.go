package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokenByUser = "SELECT token_key FROM auth_tokens WHERE user_id=? LIMIT 1"
	tokenInsert = "INSERT INTO auth_tokens (token_key, user_id) VALUES (?,?)"
)

func TestTokenGetOrCreateReturnsExisting(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(tokenByUser).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"token_key"}).AddRow("abc123"))

	repo := NewTokenRepo(db)
	key, err := repo.GetOrCreate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenGetOrCreateMintsWhenAbsent(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(tokenByUser).
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(tokenInsert).
		WithArgs(sqlmock.AnyArg(), uint64(7)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewTokenRepo(db)
	key, err := repo.GetOrCreate(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, key, 40)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenGetOrCreateLosesInsertRaceGracefully(t *testing.T) {
	db, mock := newMockDB(t)

	// Another login slipped in between our SELECT and INSERT; the unique
	// index on user_id rejects the insert and we read the winner's key.
	mock.ExpectQuery(tokenByUser).
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(tokenInsert).
		WithArgs(sqlmock.AnyArg(), uint64(7)).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7' for key 'auth_tokens.user_id'"))
	mock.ExpectQuery(tokenByUser).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"token_key"}).AddRow("winner-key"))

	repo := NewTokenRepo(db)
	key, err := repo.GetOrCreate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "winner-key", key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenUserIDByKey(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT user_id FROM auth_tokens WHERE token_key=? LIMIT 1").
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

	repo := NewTokenRepo(db)
	id, err := repo.UserIDByKey(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
