package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// TestAtomic_RollbackOnError tests that an error inside the unit of work rolls back and skips hooks.
func TestAtomic_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE words SET text").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	hookRan := false
	undone := false
	boom := &AmountLimitExceeded{Limit: 24, Detail: "too many translations"}
	err := Atomic(context.Background(), db, func(uow *UnitOfWork) error {
		uow.AfterCommit(func(context.Context) { hookRan = true })
		uow.OnRollback(func(context.Context) { undone = true })
		if err := uow.Tx.Exec("UPDATE words SET text = ?", "cat").Error; err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, hookRan)
	assert.True(t, undone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAtomic_CommitRunsHooks tests that queued hooks run after commit.
func TestAtomic_CommitRunsHooks(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM images").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var calls []string
	err := Atomic(context.Background(), db, func(uow *UnitOfWork) error {
		uow.AfterCommit(func(context.Context) { calls = append(calls, "first") })
		uow.AfterCommit(func(context.Context) { calls = append(calls, "second") })
		uow.OnRollback(func(context.Context) { calls = append(calls, "undo") })
		return uow.Tx.Exec("DELETE FROM images WHERE id = ?", 3).Error
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAtomic_DatabaseError tests that driver errors surface unchanged.
func TestAtomic_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	dbErr := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tags").WillReturnError(dbErr)
	mock.ExpectRollback()

	err := Atomic(context.Background(), db, func(uow *UnitOfWork) error {
		return uow.Tx.Exec("INSERT INTO tags (name) VALUES (?)", "a").Error
	})

	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, 500, Status(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAtomic_NilDB(t *testing.T) {
	err := Atomic(context.Background(), nil, func(*UnitOfWork) error { return nil })
	assert.ErrorIs(t, err, ErrNoUnitOfWork)
}

func TestUnitOfWork_Detach(t *testing.T) {
	db, _ := newMockDB(t)
	uow := NewUnitOfWork(context.Background(), db)

	uow.Detach("translation", 1, 2)
	uow.Detach("translation", 2)
	uow.Detach("tag")

	got := uow.Detached()
	assert.ElementsMatch(t, []uint{1, 2}, got["translation"])
	assert.NotContains(t, got, "tag")

	uow.ClearDetached()
	assert.Empty(t, uow.Detached())
	assert.NotNil(t, uow.Context())
}
