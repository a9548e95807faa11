package resources

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resourceColumns = []string{"id", "creator_id", "created_ts", "updated_ts", "filename", "external_link",
	"type", "size", "storage_key", "linked_memo_amount"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestList_All(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	q := `(?s)^\s*SELECT\s+r\.id.*linked_memo_amount\s+FROM\s+resources\s+r\s+ORDER\s+BY\s+r\.created_ts\s+DESC,\s*r\.id\s+DESC$`
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(resourceColumns).
		AddRow(2, 1, 200, 201, "b.png", "", "image/png", 10, "k2", 3).
		AddRow(1, 1, 100, 101, "a.txt", "", "text/plain", 5, "k1", 0))

	got, err := repo.List(context.Background(), models.ResourceFind{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, &models.Resource{ID: 2, CreatorID: 1, CreatedTs: 200, UpdatedTs: 201, Filename: "b.png",
		Type: "image/png", Size: 10, StorageKey: "k2", LinkedMemoAmount: 3}, got[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Page(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)ORDER\s+BY.*LIMIT\s+\$1\s+OFFSET\s+\$2$`).
		WithArgs(20, 40).
		WillReturnRows(sqlmock.NewRows(resourceColumns))

	got, err := repo.List(context.Background(), models.ResourceFind{Limit: 20, Offset: 40})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background(), models.ResourceFind{})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`failed to select resources: .*db down`), err.Error())
}

func TestCreate_ReturnsID(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+resources\b.*RETURNING\s+id$`).
		WithArgs(int32(1), int64(10), int64(10), "a.txt", "", "text/plain", int64(5), "key").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	res := &models.Resource{CreatorID: 1, CreatedTs: 10, UpdatedTs: 10, Filename: "a.txt", Type: "text/plain",
		Size: 5, StorageKey: "key"}
	require.NoError(t, repo.Create(context.Background(), res))
	assert.Equal(t, int32(42), res.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT`).WillReturnError(errors.New("unique"))

	err := repo.Create(context.Background(), &models.Resource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestGetByID(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+resources\s+r\s+WHERE\s+r\.id\s*=\s*\$1$`).
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows(resourceColumns).AddRow(7, 1, 1, 2, "x", "https://x", "", 0, "", 1))

	got, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "https://x", got.ExternalLink)
	assert.Equal(t, 1, got.LinkedMemoAmount)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE\s+r\.id`).WithArgs(int32(7)).WillReturnRows(sqlmock.NewRows(resourceColumns))

	_, err := repo.GetByID(context.Background(), 7)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPatch_UpdatesAndReloads(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	name := "new.txt"
	mock.ExpectExec(`(?s)^\s*UPDATE\s+resources\s+SET.*COALESCE\(\$2,\s*filename\).*WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int32(3), "new.txt", nil, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE\s+r\.id`).WithArgs(int32(3)).
		WillReturnRows(sqlmock.NewRows(resourceColumns).AddRow(3, 1, 1, 99, "new.txt", "", "", 0, "k", 0))

	got, err := repo.Patch(context.Background(), models.ResourcePatch{ID: 3, Filename: &name, UpdatedTs: 99})
	require.NoError(t, err)
	assert.Equal(t, "new.txt", got.Filename)
	assert.Equal(t, int64(99), got.UpdatedTs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPatch_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE\s+resources`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Patch(context.Background(), models.ResourcePatch{ID: 3})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPatch_RowsAffectedErr(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE\s+resources`).WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))

	_, err := repo.Patch(context.Background(), models.ResourcePatch{ID: 3})
	require.Error(t, err)
	assert.Regexp(t, `rows affected error: .*rows-err`, err.Error())
}

func TestDeleteByID(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`^DELETE\s+FROM\s+resources\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`).
		WithArgs(int32(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "storage_key"}).AddRow(5, "a", "key-5"))

	got, err := repo.DeleteByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "key-5", got.StorageKey)
}

func TestDeleteByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`DELETE`).WithArgs(int32(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "storage_key"}))

	_, err := repo.DeleteByID(context.Background(), 5)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
