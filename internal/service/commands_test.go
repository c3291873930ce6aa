package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"poe2scout/pricer/internal/cache"
	"poe2scout/pricer/internal/client"
	"poe2scout/pricer/internal/client/mocks"
	"poe2scout/pricer/internal/config"
	"poe2scout/pricer/internal/domain"
	"poe2scout/pricer/internal/domain/task"
	"poe2scout/pricer/internal/matcher"
	"poe2scout/pricer/internal/queue"
	"poe2scout/pricer/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testGroup = "pricer_consumer"

type commandFixture struct {
	runner *CommandRunner
	queue  *queue.RedisQueue
	rdb    *redis.Client
	client *mocks.CatalogClient
	cache  *cache.Cache
}

func newCommandFixture(t *testing.T) *commandFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q, err := queue.NewRedisQueue(context.Background(), rdb, config.RedisConfig{ConsumerGroup: testGroup})
	require.NoError(t, err)

	c := cache.New(time.Hour, time.Minute)
	t.Cleanup(c.Close)

	catalogClient := new(mocks.CatalogClient)
	t.Cleanup(func() { catalogClient.AssertExpectations(t) })

	svc := NewService(catalogClient, matcher.Default(), store.NewCatalog(), c, nil, Options{})

	return &commandFixture{
		runner: NewCommandRunner(svc, q, testGroup, 0, domain.StandardLeague),
		queue:  q,
		rdb:    rdb,
		client: catalogClient,
		cache:  c,
	}
}

// next enqueues t and reads it back the way a worker would
func (f *commandFixture) next(t *testing.T, tsk task.Task) *redis.XMessage {
	t.Helper()
	ctx := context.Background()

	_, err := f.queue.AddTask(ctx, tsk)
	require.NoError(t, err)

	msg, err := f.queue.GetTask(ctx, testGroup, "test-consumer", queue.StreamName(tsk.TaskType()))
	require.NoError(t, err)
	require.NotNil(t, msg)
	return msg
}

func (f *commandFixture) pending(t *testing.T, taskType string) int64 {
	t.Helper()
	p, err := f.rdb.XPending(context.Background(), queue.StreamName(taskType), testGroup).Result()
	require.NoError(t, err)
	return p.Count
}

func TestProcessClearCache(t *testing.T) {
	f := newCommandFixture(t)
	require.NoError(t, f.cache.Set("currencyById:Standard:divine", "cached"))

	msg := f.next(t, &task.ClearCacheTask{RequestedAt: time.Now()})
	require.NoError(t, f.runner.processMessage(context.Background(), msg))

	assert.Zero(t, f.cache.Len())
	assert.Zero(t, f.pending(t, task.TypeClearCache))
}

func TestProcessRefreshDefaultsLeague(t *testing.T) {
	f := newCommandFixture(t)

	f.client.On("GetCategories", mock.Anything).Return(&domain.CategoryResponse{
		CurrencyCategories: []domain.Category{{APIID: "currency"}},
	}, nil).Once()
	f.client.On("GetLeagues", mock.Anything).Return([]domain.League{}, nil).Once()
	f.client.On("GetCurrencyItems", mock.Anything, "currency", client.PageQuery{Page: 1, PerPage: 1000, League: domain.StandardLeague}).
		Return(&domain.CurrencyPage{}, nil).Once()

	msg := f.next(t, &task.RefreshTask{})
	require.NoError(t, f.runner.processMessage(context.Background(), msg))

	assert.True(t, f.runner.service.IsDataLoaded())
	assert.Zero(t, f.pending(t, task.TypeRefresh))
}

func TestProcessRefreshFailureStaysPending(t *testing.T) {
	f := newCommandFixture(t)

	f.client.On("GetCategories", mock.Anything).Return(nil, &client.APIError{Message: "request timeout"}).Once()

	msg := f.next(t, &task.RefreshTask{League: "Dawn of the Hunt"})
	err := f.runner.processMessage(context.Background(), msg)

	assert.ErrorContains(t, err, "Dawn of the Hunt")
	assert.EqualValues(t, 1, f.pending(t, task.TypeRefresh))
}

func TestProcessRejectsMalformedMessages(t *testing.T) {
	f := newCommandFixture(t)
	ctx := context.Background()

	err := f.runner.processMessage(ctx, &redis.XMessage{ID: "1-0", Values: map[string]interface{}{"task_data": "{}"}})
	assert.ErrorContains(t, err, "invalid task type")

	err = f.runner.processMessage(ctx, &redis.XMessage{ID: "1-1", Values: map[string]interface{}{"task_type": "PurgeTask", "task_data": "{}"}})
	assert.ErrorContains(t, err, "unknown task type")

	err = f.runner.processMessage(ctx, &redis.XMessage{ID: "1-2", Values: map[string]interface{}{"task_type": task.TypeRefresh, "task_data": "{"}})
	assert.ErrorContains(t, err, "unmarshal")
}

type failingQueue struct {
	queue.Queue
	calls atomic.Int32
}

func (q *failingQueue) GetTask(context.Context, string, string, string) (*redis.XMessage, error) {
	q.calls.Add(1)
	return nil, errors.New("connection refused")
}

func TestRunBacksOffWhenGetTaskFails(t *testing.T) {
	q := &failingQueue{}
	runner := NewCommandRunner(nil, q, testGroup, 0, domain.StandardLeague)
	runner.retryDelay = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 175*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, runner.Run(ctx))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	// roughly one call per delay per stream, not a hot loop
	calls := int(q.calls.Load())
	assert.GreaterOrEqual(t, calls, len(task.Types))
	assert.LessOrEqual(t, calls, 5*len(task.Types))
}
