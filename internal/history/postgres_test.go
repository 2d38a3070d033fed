package history

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

var rowColumns = []string{
	"id", "calculator_id", "calculator_name", "patient_id", "notes",
	"inputs", "score", "interpretation", "warnings", "created_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	store, err := NewPostgresStore(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		mock.ExpectClose()
		assert.NoError(t, store.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return store, mock
}

func entryRow(t *testing.T, e *Entry) []driver.Value {
	t.Helper()
	inputs, err := json.Marshal(e.Inputs)
	require.NoError(t, err)
	interp, err := json.Marshal(e.Interpretation)
	require.NoError(t, err)
	return []driver.Value{e.ID, e.CalculatorID, e.CalculatorName, e.PatientID, e.Notes,
		inputs, e.Score, interp, []byte("[]"), e.CreatedAt}
}

func TestNewPostgresStore_RequiresDB(t *testing.T) {
	_, err := NewPostgresStore(nil)

	assert.Error(t, err)
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock := newMockStore(t)
	entry := NewEntry(sampleResult("curb-65", 1, baseTime), "p1", "")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evaluations")).
		WithArgs(entry.ID, "curb-65", "Score curb-65", "p1", "",
			`{"a":1,"b":0}`, 1.0, "Low Risk", "low", sqlmock.AnyArg(), "[]", baseTime).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), entry)

	assert.NoError(t, err)
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)
	entry := NewEntry(sampleResult("curb-65", 1, baseTime), "p1", "note")

	mock.ExpectQuery(regexp.QuoteMeta("FROM evaluations WHERE id = $1")).
		WithArgs(entry.ID).
		WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(entryRow(t, entry)...))

	got, err := store.Get(context.Background(), entry.ID)

	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestPostgresStore_GetUnknown(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM evaluations WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(rowColumns))

	_, err := store.Get(context.Background(), "missing")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPostgresStore_ListBuildsFilter(t *testing.T) {
	store, mock := newMockStore(t)
	entry := NewEntry(sampleResult("gcs", 15, baseTime), "p2", "")

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM evaluations WHERE calculator_id = $1 AND patient_id = $2 ORDER BY created_at DESC, id LIMIT $3 OFFSET $4")).
		WithArgs("gcs", "p2", 10, 5).
		WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(entryRow(t, entry)...))

	entries, err := store.List(context.Background(), Filter{CalculatorID: "gcs", PatientID: "p2", Limit: 10, Offset: 5})

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestPostgresStore_CountUsesDefaultFilter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM evaluations")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := store.Count(context.Background(), Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM evaluations WHERE id = $1")).
		WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM evaluations WHERE id = $1")).
		WithArgs("b").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.Delete(context.Background(), "a"))
	assert.True(t, errors.Is(store.Delete(context.Background(), "b"), domain.ErrNotFound))
}

func TestPostgresStore_SaveFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evaluations")).
		WillReturnError(errors.New("connection reset"))

	err := store.Save(context.Background(), NewEntry(sampleResult("gcs", 15, baseTime), "", ""))

	assert.ErrorContains(t, err, "failed to save evaluation")
}
