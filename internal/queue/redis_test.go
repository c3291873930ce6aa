package queue_test

import (
	"context"
	"testing"
	"time"

	"poe2scout/pricer/internal/config"
	"poe2scout/pricer/internal/domain/task"
	"poe2scout/pricer/internal/queue"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const group = "pricer_consumer"

func newQueue(t *testing.T) (*queue.RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q, err := queue.NewRedisQueue(context.Background(), rdb, config.RedisConfig{ConsumerGroup: group})
	require.NoError(t, err)
	return q, mr
}

func TestEnsureStreamsExist(t *testing.T) {
	q, mr := newQueue(t)

	for _, taskType := range task.Types {
		assert.True(t, mr.Exists(queue.StreamName(taskType)), taskType)
	}

	// A second pass must tolerate existing groups
	assert.NoError(t, q.EnsureStreamsExist(context.Background()))
}

func TestAddGetAck(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()
	stream := queue.StreamName(task.TypeRefresh)

	requested := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	id, err := q.AddTask(ctx, &task.RefreshTask{League: "Standard", RequestedAt: requested})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	msg, err := q.GetTask(ctx, group, "worker-1", stream)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, task.TypeRefresh, msg.Values["task_type"])

	refresh, err := task.UnmarshalTask[*task.RefreshTask]([]byte(msg.Values["task_data"].(string)))
	require.NoError(t, err)
	assert.Equal(t, "Standard", refresh.League)
	assert.True(t, requested.Equal(refresh.RequestedAt))

	require.NoError(t, q.AckTask(ctx, stream, group, msg.ID))
}
