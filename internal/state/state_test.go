package state_test

import (
	"context"
	"testing"
	"time"

	"poe2scout/pricer/internal/state"
	"poe2scout/pricer/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusStore(t *testing.T) (state.StatusStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return state.NewRedisStatusStore(rdb), mr
}

func TestStatusRoundTrip(t *testing.T) {
	s, mr := newStatusStore(t)
	ctx := context.Background()

	at := time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)
	err := s.SetStatus(ctx, state.LoadStatus{
		League:     "Dawn of the Hunt",
		LastUpdate: at,
		Stats: store.Stats{
			CurrencyCategories: 12,
			UniqueCategories:   9,
			CurrencyPages:      11,
			UniquePages:        9,
			Leagues:            4,
		},
		Skipped:     1,
		DivinePrice: 412.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "412.5", mr.HGet("pricer:status:Dawn of the Hunt", "divine_price"))

	got, err := s.GetStatus(ctx, "Dawn of the Hunt")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(got.LastUpdate))
	assert.Equal(t, 12, got.Stats.CurrencyCategories)
	assert.Equal(t, 11, got.Stats.CurrencyPages)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, 412.5, got.DivinePrice)
}

func TestStatusUnknownLeague(t *testing.T) {
	s, _ := newStatusStore(t)

	got, err := s.GetStatus(context.Background(), "Hardcore")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStatusCorruptField(t *testing.T) {
	s, mr := newStatusStore(t)
	mr.HSet("pricer:status:Standard", "skipped", "many")

	_, err := s.GetStatus(context.Background(), "Standard")
	assert.Error(t, err)
}
