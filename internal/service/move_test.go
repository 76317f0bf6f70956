package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"boardflow/internal/access"
	"boardflow/internal/model"
	"boardflow/internal/ordering"
	"boardflow/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMoveCard_BetweenNeighbours(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	todo := env.column(t, owner, board, "To Do")
	done := env.column(t, owner, board, "Done")

	a := env.card(t, owner, todo, "A")
	b := env.card(t, owner, done, "B")
	c := env.card(t, owner, done, "C")

	version := a.Version
	res, err := env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
		CardID:          a.ID,
		TargetColumnID:  done.ID,
		Position:        ordering.Between(b.Position.Ptr(), c.Position.Ptr()),
		ExpectedVersion: &version,
	})
	require.NoError(t, err)

	assert.Equal(t, done.ID, res.ColumnID)
	assert.Equal(t, ordering.Position(1.5), res.Position)
	assert.Equal(t, version+1, res.Version)
	assert.False(t, res.Rebalanced)

	cards, err := env.store.Cards.GetByColumnID(ctx, done.ID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, []uuid.UUID{b.ID, a.ID, c.ID}, []uuid.UUID{cards[0].ID, cards[1].ID, cards[2].ID})

	left, err := env.store.Cards.CountByColumn(ctx, todo.ID)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestMoveCard_StaleVersionIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	todo := env.column(t, owner, board, "To Do")
	doing := env.column(t, owner, board, "Doing")
	card := env.card(t, owner, todo, "Task")

	seen := card.Version

	// Первый клиент успевает переместить карточку
	_, err := env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
		CardID: card.ID, TargetColumnID: doing.ID, Position: 1, ExpectedVersion: &seen,
	})
	require.NoError(t, err)

	// Второй клиент работает со старой версией
	_, err = env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
		CardID: card.ID, TargetColumnID: todo.ID, Position: 1, ExpectedVersion: &seen,
	})
	assert.ErrorIs(t, err, service.ErrConflict)

	current := env.reload(t, card)
	assert.Equal(t, doing.ID, current.ColumnID, "rejected move must not change the card")
	assert.Equal(t, seen+1, current.Version)
}

func TestMoveCard_WithoutVersionStillAdvancesIt(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	todo := env.column(t, owner, board, "To Do")
	card := env.card(t, owner, todo, "Task")

	res, err := env.svc.MoveCard(context.Background(), owner.ID, service.MoveCardInput{
		CardID: card.ID, TargetColumnID: todo.ID, Position: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, card.Version+1, res.Version)
	assert.False(t, res.UpdatedAt.IsZero())
}

func TestMoveCard_RoleHierarchy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	member := env.user(t, "member@example.com", false)
	root := env.user(t, "root@example.com", true)
	board := env.board(t, owner)
	todo := env.column(t, owner, board, "To Do")
	card := env.card(t, owner, todo, "Task")

	move := func(principal uuid.UUID) error {
		current := env.reload(t, card)
		_, err := env.svc.MoveCard(ctx, principal, service.MoveCardInput{
			CardID: card.ID, TargetColumnID: todo.ID, Position: current.Position + 1, ExpectedVersion: &current.Version,
		})
		return err
	}

	// Не участник доски
	err := move(member.ID)
	assert.ErrorIs(t, err, access.ErrNotMember)

	env.share(t, owner, board, member, model.RoleViewer)
	err = move(member.ID)
	assert.ErrorIs(t, err, access.ErrAccessDenied)
	assert.ErrorIs(t, err, access.ErrInsufficientRole)

	env.share(t, owner, board, member, model.RoleEditor)
	assert.NoError(t, move(member.ID))

	// Глобальный администратор не нуждается в членстве
	assert.NoError(t, move(root.ID))
}

func TestMoveCard_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	todo := env.column(t, owner, board, "To Do")
	card := env.card(t, owner, todo, "Task")

	_, err := env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
		CardID: uuid.New(), TargetColumnID: todo.ID, Position: 1,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
		CardID: card.ID, TargetColumnID: uuid.New(), Position: 1,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMoveCard_RejectsOtherBoardAndBadPosition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	first := env.board(t, owner)
	second := env.board(t, owner)
	here := env.column(t, owner, first, "Here")
	there := env.column(t, owner, second, "There")
	card := env.card(t, owner, here, "Task")

	_, err := env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
		CardID: card.ID, TargetColumnID: there.ID, Position: 1,
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
		CardID: card.ID, TargetColumnID: here.ID, Position: ordering.Position(math.NaN()),
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestMoveCard_RepeatedInsertionTriggersRebalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	column := env.column(t, owner, board, "To Do")
	first := env.card(t, owner, column, "A")
	env.card(t, owner, column, "B")
	env.card(t, owner, column, "C")

	rebalancedAt := 0
	for i := 1; i <= 20; i++ {
		cards, err := env.store.Cards.GetByColumnID(ctx, column.ID)
		require.NoError(t, err)
		require.Len(t, cards, 3)
		require.Equal(t, first.ID, cards[0].ID)

		// Последняя карточка снова и снова встаёт между первыми двумя
		moving := cards[2]
		res, err := env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
			CardID:          moving.ID,
			TargetColumnID:  column.ID,
			Position:        ordering.Between(&cards[0].Position, &cards[1].Position),
			ExpectedVersion: &moving.Version,
		})
		require.NoError(t, err)

		if res.Rebalanced && rebalancedAt == 0 {
			rebalancedAt = i

			after, err := env.store.Cards.GetByColumnID(ctx, column.ID)
			require.NoError(t, err)
			assert.Equal(t, []ordering.Position{1, 2, 3}, []ordering.Position{after[0].Position, after[1].Position, after[2].Position})
			assert.Equal(t, []uuid.UUID{first.ID, moving.ID, cards[1].ID}, []uuid.UUID{after[0].ID, after[1].ID, after[2].ID})
			assert.Equal(t, ordering.Position(2), res.Position, "response reports the rebalanced position")
		}
	}

	// Зазор 2^-17 впервые меньше 1e-5
	assert.Equal(t, 17, rebalancedAt)

	final, err := env.store.Cards.GetByColumnID(ctx, column.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, final[0].ID)
	for i := 1; i < len(final); i++ {
		assert.Less(t, float64(final[i-1].Position), float64(final[i].Position))
	}
}

func TestMoveCard_StrangerAcrossBoardsIsDenied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	stranger := env.user(t, "stranger@example.com", false)
	here := env.column(t, owner, env.board(t, owner), "Here")
	there := env.column(t, owner, env.board(t, owner), "There")
	card := env.card(t, owner, here, "Task")

	// Чужой не должен узнать, что карточка и колонка существуют
	_, err := env.svc.MoveCard(ctx, stranger.ID, service.MoveCardInput{
		CardID: card.ID, TargetColumnID: there.ID, Position: 1,
	})
	assert.ErrorIs(t, err, access.ErrAccessDenied)
	assert.NotErrorIs(t, err, service.ErrValidation)
}

func TestMoveCard_FailedRebalanceRollsBackMove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	todo := env.column(t, owner, board, "To Do")
	done := env.column(t, owner, board, "Done")

	a := env.card(t, owner, todo, "A")
	b := env.card(t, owner, todo, "B")
	moving := env.card(t, owner, done, "Moving")
	require.NoError(t, env.store.Cards.SetPositions(ctx, map[uuid.UUID]ordering.Position{b.ID: 1.000001}))

	// Ломаем только пересчёт позиций: он пишет position без version
	errRespread := errors.New("respread failed")
	require.NoError(t, env.store.DB().Callback().Update().Before("gorm:update").Register("test:fail_respread", func(tx *gorm.DB) {
		fields, ok := tx.Statement.Dest.(map[string]interface{})
		if !ok || tx.Statement.Table != "cards" {
			return
		}
		_, versioned := fields["version"]
		if _, positional := fields["position"]; positional && !versioned {
			_ = tx.AddError(errRespread)
		}
	}))

	version := moving.Version
	_, err := env.svc.MoveCard(ctx, owner.ID, service.MoveCardInput{
		CardID: moving.ID, TargetColumnID: todo.ID, Position: 5, ExpectedVersion: &version,
	})
	require.ErrorIs(t, err, errRespread)

	after := env.reload(t, moving)
	assert.Equal(t, done.ID, after.ColumnID)
	assert.Equal(t, moving.Position, after.Position)
	assert.Equal(t, moving.Version, after.Version)

	assert.Equal(t, ordering.Position(1), env.reload(t, a).Position)
	assert.Equal(t, ordering.Position(1.000001), env.reload(t, b).Position)
}
