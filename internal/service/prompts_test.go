package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptstore/internal/models"
)

var promptCols = []string{"id", "name", "content", "version", "created_by", "created_at", "updated_at"}

const (
	selectPromptByName = `SELECT id, name, content, version, created_by, created_at, updated_at FROM prompts WHERE name=$1`
	selectPromptByID   = `SELECT id, name, content, version, created_by, created_at, updated_at FROM prompts WHERE id=$1`
)

var (
	alice = &models.User{ID: 1, Username: "alice", Role: models.RoleUser}
	bob   = &models.User{ID: 2, Username: "bob", Role: models.RoleUser}
	root  = &models.User{ID: 9, Username: "root", Role: models.RoleAdmin}
)

func newPromptService(t *testing.T) (*PromptService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPromptService(sqlx.NewDb(db, "sqlmock")), mock
}

func promptRow(id int64, name, content string, version int, createdBy int64, ts time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(promptCols).AddRow(id, name, content, version, createdBy, ts, ts)
}

func TestCreatePrompt(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByName)).
		WithArgs("greet").
		WillReturnRows(sqlmock.NewRows(promptCols))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO prompts (name, content, version, created_by, created_at, updated_at)`)).
		WithArgs("greet", "hi", 1, int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	p, err := svc.Create(context.Background(), alice, "greet", "hi")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, 1, p.Version)
	assert.Equal(t, int64(1), p.CreatedBy)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePromptNameTaken(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByName)).
		WithArgs("greet").
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, time.Now()))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), bob, "greet", "other")
	assert.ErrorIs(t, err, ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPromptNotFound(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(promptCols))

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePrompt(t *testing.T) {
	svc, mock := newPromptService(t)

	created := time.Now().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, created))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE prompts`)).
		WithArgs("hi there", 1, sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	content := "hi there"
	p, err := svc.Update(context.Background(), alice, 3, PromptUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "hi there", p.Content)
	// Content corrections do not bump the version counter.
	assert.Equal(t, 1, p.Version)
	assert.True(t, p.UpdatedAt.After(created))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePromptAbsentFieldsUntouched(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE prompts`)).
		WithArgs("hi", 1, sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := svc.Update(context.Background(), alice, 3, PromptUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Content)
}

func TestUpdatePromptNotOwner(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, time.Now()))
	mock.ExpectRollback()

	content := "hijacked"
	_, err := svc.Update(context.Background(), bob, 3, PromptUpdate{Content: &content})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdatePromptAdminDoesNotOverride(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, time.Now()))
	mock.ExpectRollback()

	content := "admin edit"
	_, err := svc.Update(context.Background(), root, 3, PromptUpdate{Content: &content})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdatePromptNotFound(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(promptCols))
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), alice, 99, PromptUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePromptOwner(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM prompts WHERE id=$1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.Delete(context.Background(), alice, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePromptAdminOverride(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM prompts WHERE id=$1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.Delete(context.Background(), root, 3))
}

func TestDeletePromptNotOwner(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, time.Now()))
	mock.ExpectRollback()

	assert.ErrorIs(t, svc.Delete(context.Background(), bob, 3), ErrForbidden)
}

func TestDeletePromptNotFound(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(promptCols))
	mock.ExpectRollback()

	assert.ErrorIs(t, svc.Delete(context.Background(), alice, 99), ErrNotFound)
}

func TestPublishPrompt(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi there", 2, 1, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO prompt_versions (prompt_id, name, content, version, created_by, created_at, updated_at)`)).
		WithArgs(int64(3), "greet", "hi there", 2, int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE prompts`)).
		WithArgs("hi there", 3, sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := svc.Publish(context.Background(), alice, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishPromptNotOwner(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(3)).
		WillReturnRows(promptRow(3, "greet", "hi", 1, 1, time.Now()))
	mock.ExpectRollback()

	// Publishing is owner-only; the admin role does not override it.
	_, err := svc.Publish(context.Background(), root, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVersionsNotFound(t *testing.T) {
	svc, mock := newPromptService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectPromptByID)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(promptCols))

	_, err := svc.Versions(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
