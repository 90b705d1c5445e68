package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*DocumentStore, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return NewDocumentStore(&PostgresDB{DB: sqlxDB}), mock
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStoreGetAll(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"doc"}).
		AddRow([]byte(`{"id":"12345"}`)).
		AddRow([]byte(`{"id":"54321"}`))

	mock.ExpectQuery("SELECT doc FROM documents WHERE collection").
		WithArgs("visitors").
		WillReturnRows(rows)

	docs, err := store.GetAll("visitors")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `{"id":"12345"}`, string(docs[0]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStoreGetAllEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT doc FROM documents WHERE collection").
		WithArgs("visitors").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	docs, err := store.GetAll("visitors")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentStoreGetAllQueryError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT doc FROM documents WHERE collection").
		WithArgs("visitors").
		WillReturnError(fmt.Errorf("connection refused"))

	_, err := store.GetAll("visitors")
	assert.ErrorContains(t, err, "visitors")
}

func TestDocumentStoreSet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("visitors", "12345", []byte(`{"id":"12345"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set("visitors", "12345", []byte(`{"id":"12345"}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStoreUpdate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("vips", "vip-1", []byte(`{"status":"DEACTIVATED"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Update("vips", "vip-1", []byte(`{"status":"DEACTIVATED"}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStoreDeleteAll(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM documents WHERE collection").
		WithArgs("visitors").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.DeleteAll("visitors"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStoreSetError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO documents").
		WillReturnError(fmt.Errorf("connection refused"))

	err := store.Set("visitors", "12345", []byte(`{}`))
	assert.ErrorContains(t, err, "visitors/12345")
}
