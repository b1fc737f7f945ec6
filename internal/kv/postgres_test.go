package kv

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	store := NewPostgresStore(db)
	cleanup := func() {
		db.Close()
	}
	return store, mock, cleanup
}

func TestPostgresGet_Success(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("versions").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"versions":[]}`)))

	value, ok, err := store.Get("versions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to exist")
	}
	if string(value) != `{"versions":[]}` {
		t.Errorf("value = %q", value)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresGet_Missing(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("trash").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := store.Get("trash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected missing key")
	}
}

func TestPostgresGet_Error(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("versions").
		WillReturnError(errors.New("db down"))

	_, _, err := store.Get("versions")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestPostgresSet_Upsert(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv (key, value) VALUES ($1, $2)`)).
		WithArgs("versions", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Set("versions", []byte(`{}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv WHERE key = $1`)).
		WithArgs("trash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Delete("trash"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}
