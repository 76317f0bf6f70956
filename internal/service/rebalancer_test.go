package service_test

import (
	"context"
	"testing"

	"boardflow/internal/ordering"
	"boardflow/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRebalanceIfNeeded_PreservesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	column := env.column(t, owner, board, "To Do")

	ids := make([]uuid.UUID, 4)
	for i := range ids {
		ids[i] = env.card(t, owner, column, "card").ID
	}

	// Произвольные, но упорядоченные значения со слишком маленьким зазором
	require.NoError(t, env.store.Cards.SetPositions(ctx, map[uuid.UUID]ordering.Position{
		ids[0]: -3.5,
		ids[1]: 0.25,
		ids[2]: 0.250001,
		ids[3]: 900,
	}))

	rebalanced, err := service.NewRebalancer(0, zap.NewNop()).RebalanceIfNeeded(ctx, env.store, column.ID)
	require.NoError(t, err)
	assert.True(t, rebalanced)

	cards, err := env.store.Cards.GetByColumnID(ctx, column.ID)
	require.NoError(t, err)
	require.Len(t, cards, 4)
	for i, card := range cards {
		assert.Equal(t, ids[i], card.ID)
		assert.Equal(t, ordering.Position(i+1), card.Position)
		assert.Equal(t, int64(1), card.Version, "rebalancing is not an edit of the card")
	}
}

func TestRebalanceIfNeeded_ResolvesTies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	column := env.column(t, owner, board, "To Do")

	a := env.card(t, owner, column, "A")
	b := env.card(t, owner, column, "B")
	c := env.card(t, owner, column, "C")
	require.NoError(t, env.store.Cards.SetPositions(ctx, map[uuid.UUID]ordering.Position{
		a.ID: 1, b.ID: 2, c.ID: 2,
	}))

	rebalanced, err := service.NewRebalancer(0, nil).RebalanceIfNeeded(ctx, env.store, column.ID)
	require.NoError(t, err)
	assert.True(t, rebalanced)

	cards, err := env.store.Cards.GetByColumnID(ctx, column.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, cards[0].ID)
	assert.Equal(t, []ordering.Position{1, 2, 3}, []ordering.Position{cards[0].Position, cards[1].Position, cards[2].Position})
}

func TestRebalanceIfNeeded_Noop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	column := env.column(t, owner, board, "To Do")
	rebalancer := service.NewRebalancer(ordering.DefaultEpsilon, nil)

	// Пустая колонка и колонка с одной карточкой
	rebalanced, err := rebalancer.RebalanceIfNeeded(ctx, env.store, column.ID)
	require.NoError(t, err)
	assert.False(t, rebalanced)

	single := env.card(t, owner, column, "only")
	require.NoError(t, env.store.Cards.SetPositions(ctx, map[uuid.UUID]ordering.Position{single.ID: 0.000001}))
	rebalanced, err = rebalancer.RebalanceIfNeeded(ctx, env.store, column.ID)
	require.NoError(t, err)
	assert.False(t, rebalanced)

	// Равномерно распределённая колонка не трогается
	env.card(t, owner, column, "second")
	env.card(t, owner, column, "third")
	rebalanced, err = rebalancer.RebalanceIfNeeded(ctx, env.store, column.ID)
	require.NoError(t, err)
	assert.False(t, rebalanced)
}

func TestRebalanceColumns(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", false)
	board := env.board(t, owner)
	first := env.column(t, owner, board, "One")
	second := env.column(t, owner, board, "Two")
	third := env.column(t, owner, board, "Three")

	// Двигаем третью колонку между первыми двумя, пока зазор не схлопнется
	moving, anchor := third, second
	for i := 0; i < 20; i++ {
		columns, err := env.svc.ListColumns(ctx, owner.ID, board.ID)
		require.NoError(t, err)
		require.Equal(t, first.ID, columns[0].ID)

		_, err = env.svc.MoveColumn(ctx, owner.ID, moving.ID, ordering.Between(&columns[0].Position, &columns[1].Position))
		require.NoError(t, err)
		moving, anchor = anchor, moving
	}

	columns, err := env.svc.ListColumns(ctx, owner.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, first.ID, columns[0].ID)
	for i := 1; i < len(columns); i++ {
		gap := float64(columns[i].Position - columns[i-1].Position)
		assert.GreaterOrEqual(t, gap, ordering.DefaultEpsilon)
	}
}
