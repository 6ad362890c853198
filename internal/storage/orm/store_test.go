package orm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domainErrors "github.com/polkiloo/userstore/internal/domain/errors"
	"github.com/polkiloo/userstore/internal/domain/model"
)

var userColumns = []string{"id", "login", "password"}

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(gdb, logger), mock
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func TestCreate(t *testing.T) {
	store, mock := newStoreWithMock(t)
	repo := store.Users()

	mock.ExpectBegin()
	mock.ExpectQuery(q(`INSERT INTO "auto_user" ("login","password")`)).
		WithArgs("alice", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), model.User{Login: "alice", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: 1, Login: "alice", Password: "p1"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ErrorReturnsInput(t *testing.T) {
	store, mock := newStoreWithMock(t)
	repo := store.Users()

	mock.ExpectBegin()
	mock.ExpectQuery(q(`INSERT INTO "auto_user"`)).
		WithArgs("bob", "p2").
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	input := model.User{Login: "bob", Password: "p2"}
	got, err := repo.Create(context.Background(), input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create user")
	assert.Equal(t, input, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	store, mock := newStoreWithMock(t)
	repo := store.Users()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "auto_user" SET "login"=$1,"password"=$2 WHERE id = $3`)).
		WithArgs("alice2", "p9", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.Update(ctx, model.User{ID: 1, Login: "alice2", Password: "p9"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "auto_user" SET`)).
		WithArgs("ghost", "x", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err = repo.Update(ctx, model.User{ID: 42, Login: "ghost", Password: "x"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "auto_user" SET`)).
		WithArgs("a", "b", int64(1)).
		WillReturnError(errors.New("update failed"))
	mock.ExpectRollback()

	_, err = repo.Update(ctx, model.User{ID: 1, Login: "a", Password: "b"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	store, mock := newStoreWithMock(t)
	repo := store.Users()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(q(`DELETE FROM "auto_user" WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	mock.ExpectBegin()
	mock.ExpectExec(q(`DELETE FROM "auto_user"`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err = repo.Delete(ctx, 99)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	mock.ExpectBegin()
	mock.ExpectExec(q(`DELETE FROM "auto_user"`)).
		WithArgs(int64(2)).
		WillReturnError(errors.New("delete failed"))
	mock.ExpectRollback()

	_, err = repo.Delete(ctx, 2)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllOrderByID(t *testing.T) {
	store, mock := newStoreWithMock(t)
	repo := store.Users()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user" ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "alice", "p1").
			AddRow(int64(2), "bob", "p2"))
	mock.ExpectCommit()

	users, err := repo.FindAllOrderByID(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.User{
		{ID: 1, Login: "alice", Password: "p1"},
		{ID: 2, Login: "bob", Password: "p2"},
	}, users)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user" ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectCommit()

	users, err = repo.FindAllOrderByID(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user"`)).
		WillReturnError(errors.New("query failed"))
	mock.ExpectRollback()

	_, err = repo.FindAllOrderByID(ctx)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByLikeLogin(t *testing.T) {
	store, mock := newStoreWithMock(t)
	repo := store.Users()

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user" WHERE login LIKE $1 ORDER BY id`)).
		WithArgs("%al%").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "alice", "p1").
			AddRow(int64(3), "metal", "p3"))
	mock.ExpectCommit()

	users, err := repo.FindByLikeLogin(context.Background(), "al")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Login)
	assert.Equal(t, "metal", users[1].Login)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	store, mock := newStoreWithMock(t)
	repo := store.Users()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(1), "alice", "p1"))
	mock.ExpectCommit()

	user, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &model.User{ID: 1, Login: "alice", Password: "p1"}, user)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectCommit()

	_, err = repo.FindByID(ctx, 2)
	require.ErrorIs(t, err, domainErrors.ErrNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user" WHERE id = $1`)).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err = repo.FindByID(ctx, 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainErrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByLogin(t *testing.T) {
	store, mock := newStoreWithMock(t)
	repo := store.Users()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user" WHERE login = $1 ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(2), "bob", "p2"))
	mock.ExpectCommit()

	user, err := repo.FindByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 2, user.ID)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "auto_user" WHERE login = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectCommit()

	_, err = repo.FindByLogin(ctx, "ghost")
	require.ErrorIs(t, err, domainErrors.ErrNotFound)

	mock.ExpectBegin().WillReturnError(errors.New("begin failed"))

	_, err = repo.FindByLogin(ctx, "bob")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheckAndClose(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectPing().WillReturnError(errors.New("ping"))
	require.Error(t, store.HealthCheck(context.Background()))

	mock.ExpectPing()
	require.NoError(t, store.HealthCheck(context.Background()))

	mock.ExpectClose()
	store.Close()
	require.NoError(t, mock.ExpectationsWereMet())

	(&Store{}).Close()
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%al%", likePattern("al"))
	assert.Equal(t, `%a\_b\%%`, likePattern("a_b%"))
}
