package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

const consumeSelect = "SELECT id, created_at FROM password_reset_otps WHERE user_id=? AND otp_code=? AND is_used=0 ORDER BY created_at DESC, id DESC LIMIT 1 FOR UPDATE"

func TestOTPInsert(t *testing.T) {
	db, mock := newMockDB(t)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO password_reset_otps (user_id, otp_code, created_at) VALUES (?,?,?)").
		WithArgs(uint64(7), "042137", issued).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewOTPRepo(db)
	require.NoError(t, repo.Insert(context.Background(), 7, "042137", issued))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPConsumeLatestSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(consumeSelect).
		WithArgs(uint64(7), "042137").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, now.Add(-30*time.Second)))
	mock.ExpectExec("UPDATE password_reset_otps SET is_used=1 WHERE id=?").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewOTPRepo(db)
	require.NoError(t, repo.ConsumeLatest(context.Background(), 7, "042137", now, 60*time.Second))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPConsumeLatestNoMatch(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(consumeSelect).
		WithArgs(uint64(7), "000000").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	repo := NewOTPRepo(db)
	err := repo.ConsumeLatest(context.Background(), 7, "000000", now, 60*time.Second)
	assert.ErrorIs(t, err, ErrOTPNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPConsumeLatestExpiredLeavesRowUnused(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(consumeSelect).
		WithArgs(uint64(7), "042137").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, now.Add(-61*time.Second)))
	// No UPDATE: the transaction rolls back and the row stays unused.
	mock.ExpectRollback()

	repo := NewOTPRepo(db)
	err := repo.ConsumeLatest(context.Background(), 7, "042137", now, 60*time.Second)
	assert.ErrorIs(t, err, ErrOTPExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPPruneBefore(t *testing.T) {
	db, mock := newMockDB(t)
	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM password_reset_otps WHERE created_at < ?").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 12))

	repo := NewOTPRepo(db)
	n, err := repo.PruneBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
