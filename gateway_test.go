package benang

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock, *bytes.Buffer) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	gw := NewGateway(NewStoreFromDB(sqlx.NewDb(db, "sqlmock")), log.New(&buf, "", 0))
	return gw, mock, &buf
}

func TestListPublishedAbsorbsBackendFailure(t *testing.T) {
	gw, mock, logs := newMockGateway(t)

	mock.ExpectQuery("SELECT \\* FROM articles").
		WillReturnError(errors.New("connection refused"))

	got := gw.Articles.ListPublished(context.Background())

	assert.NotNil(t, got, "read path must hand back an empty slice, not nil")
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "list published")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllAbsorbsBackendFailure(t *testing.T) {
	gw, mock, logs := newMockGateway(t)

	mock.ExpectQuery("SELECT \\* FROM events").
		WillReturnError(errors.New("connection refused"))

	got := gw.Events.ListAll(context.Background())

	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "events")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSurfacesBackendFailure(t *testing.T) {
	gw, mock, logs := newMockGateway(t)

	mock.ExpectExec("INSERT INTO articles").
		WillReturnError(errors.New("permission denied"))

	_, err := gw.Articles.Create(context.Background(), Article{Title: "Gagal"})

	require.Error(t, err, "create failures must reach the caller")
	assert.Contains(t, err.Error(), "create articles")
	assert.Contains(t, logs.String(), "create")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAbsorbsBackendFailure(t *testing.T) {
	gw, mock, logs := newMockGateway(t)

	mock.ExpectExec("UPDATE articles").
		WillReturnError(errors.New("timeout"))

	got := gw.Articles.Update(context.Background(), "id-1", map[string]any{"title": "Baru"})

	assert.Nil(t, got)
	assert.Contains(t, logs.String(), "update")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectsUnknownColumnLocally(t *testing.T) {
	gw, _, logs := newMockGateway(t)

	// Nothing may reach the backend for a column outside the whitelist.
	got := gw.Articles.Update(context.Background(), "id-1", map[string]any{"password_hash": "x"})

	assert.Nil(t, got)
	assert.Contains(t, logs.String(), "not updatable")
}

func TestDeleteAbsorbsBackendFailure(t *testing.T) {
	gw, mock, logs := newMockGateway(t)

	mock.ExpectExec("DELETE FROM videos").
		WillReturnError(errors.New("timeout"))

	assert.False(t, gw.Videos.Delete(context.Background(), "id-1"))
	assert.Contains(t, logs.String(), "delete")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRowIsQuiet(t *testing.T) {
	gw, mock, logs := newMockGateway(t)

	mock.ExpectExec("DELETE FROM videos").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.False(t, gw.Videos.Delete(context.Background(), "id-1"))
	assert.Empty(t, logs.String(), "a missing row is not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFeaturedAbsorbsBackendFailure(t *testing.T) {
	gw, mock, logs := newMockGateway(t)

	mock.ExpectExec("UPDATE ebooks SET featured").
		WillReturnError(errors.New("timeout"))

	assert.Nil(t, gw.Ebooks.SetFeatured(context.Background(), "id-1", true))
	assert.Contains(t, logs.String(), "set featured")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadsNeverSelectPasswordHash(t *testing.T) {
	gw, mock, _ := newMockGateway(t)

	cols := []string{"id", "username", "first_name", "last_name", "full_name", "role", "is_active", "created_at"}
	mock.ExpectQuery("SELECT id, username, first_name, last_name, full_name, role, is_active, created_at FROM users").
		WillReturnRows(sqlmock.NewRows(cols))

	gw.Users.ListAll(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet(), "users query must name its columns and omit password_hash")
}
