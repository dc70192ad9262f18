package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/feraszen/keytop-fresh/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGormBackend_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	b := store.NewGormBackend(db)

	rows := sqlmock.NewRows([]string{"key", "value", "updated_at"}).
		AddRow("keytop:cart", "[]", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "records"`)).
		WillReturnRows(rows)

	v, ok, err := b.Get(context.Background(), "keytop:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBackend_GetMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	b := store.NewGormBackend(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "records"`)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	_, ok, err := b.Get(context.Background(), "keytop:orders")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormBackend_GetError(t *testing.T) {
	db, mock := setupMockDB(t)
	b := store.NewGormBackend(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "records"`)).
		WillReturnError(errors.New("connection reset"))

	_, _, err := b.Get(context.Background(), "keytop:orders")
	assert.Error(t, err)
}

func TestGormBackend_SetUpserts(t *testing.T) {
	db, mock := setupMockDB(t)
	b := store.NewGormBackend(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "records"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, b.Set(context.Background(), "keytop:invoiceCounter", "101"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenGormBackend_ClosesOnMigrateFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectClose()

	b, err := store.OpenGormBackend(db)
	assert.Error(t, err)
	assert.Nil(t, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}
