package service_test

import (
	"context"
	"testing"

	"boardflow/internal/model"
	"boardflow/internal/repository"
	"boardflow/internal/service"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	svc   *service.Service
	store *repository.Store
}

// newTestEnv opens a private in-memory sqlite database. A single connection
// keeps every query on the same database, transactions included.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))

	store := repository.NewStore(db)
	return &testEnv{
		svc:   service.New(store, service.Options{MaxBoardsPerUser: -1}),
		store: store,
	}
}

func (e *testEnv) user(t *testing.T, email string, admin bool) *model.User {
	t.Helper()
	u := &model.User{Email: email, Name: email, HashedPassword: "x", IsAdmin: admin}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return u
}

func (e *testEnv) board(t *testing.T, owner *model.User) *model.Board {
	t.Helper()
	b, err := e.svc.CreateBoard(context.Background(), owner.ID, "Board", "")
	require.NoError(t, err)
	return b
}

func (e *testEnv) column(t *testing.T, owner *model.User, board *model.Board, title string) *model.Column {
	t.Helper()
	c, err := e.svc.CreateColumn(context.Background(), owner.ID, board.ID, title, "")
	require.NoError(t, err)
	return c
}

func (e *testEnv) card(t *testing.T, owner *model.User, column *model.Column, title string) *model.Card {
	t.Helper()
	c, err := e.svc.CreateCard(context.Background(), owner.ID, service.CreateCardInput{
		ColumnID: column.ID,
		Title:    title,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) reload(t *testing.T, card *model.Card) *model.Card {
	t.Helper()
	c, err := e.store.Cards.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	return c
}

func (e *testEnv) share(t *testing.T, owner *model.User, board *model.Board, member *model.User, role model.Role) {
	t.Helper()
	_, err := e.svc.AddMember(context.Background(), owner.ID, board.ID, member.Email, role)
	require.NoError(t, err)
}
