package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"poe2scout/pricer/internal/domain/task"
	"poe2scout/pricer/internal/queue"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// CommandRunner consumes reload and cache-clear commands from the task streams
type CommandRunner struct {
	service       *Service
	queue         queue.Queue
	groupName     string
	minIdleTime   time.Duration
	defaultLeague string
	retryDelay    time.Duration
}

const getTaskRetryDelay = time.Second

func NewCommandRunner(
	service *Service,
	queue queue.Queue,
	groupName string,
	minIdleTime int,
	defaultLeague string,
) *CommandRunner {
	return &CommandRunner{
		service:       service,
		queue:         queue,
		groupName:     groupName,
		minIdleTime:   time.Duration(minIdleTime) * time.Second,
		defaultLeague: defaultLeague,
		retryDelay:    getTaskRetryDelay,
	}
}

// Run starts one worker and one auto-claimer per task stream and blocks until ctx ends
func (r *CommandRunner) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	for _, taskType := range task.Types {
		r.runWorkerForStream(ctx, &wg, queue.StreamName(taskType), taskType)
	}

	wg.Wait()
	return nil
}

func (r *CommandRunner) runWorkerForStream(ctx context.Context, wg *sync.WaitGroup, streamName, taskType string) {
	if r.minIdleTime > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(r.minIdleTime)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					consumer := "autoclaimer-" + uuid.NewString()
					claimed, err := r.queue.AutoClaim(ctx, r.groupName, consumer, streamName, r.minIdleTime)
					if err != nil {
						log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
						continue
					}
					for _, msg := range claimed {
						if err := r.processMessage(ctx, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer := fmt.Sprintf("%s-%s", taskType, uuid.NewString())
		log.Infof("🚀 Starting %s worker as consumer %s", taskType, consumer)
		for {
			select {
			case <-ctx.Done():
				log.Infof("🛑 %s worker stopping", taskType)
				return
			default:
				msg, err := r.queue.GetTask(ctx, r.groupName, consumer, streamName)
				if err != nil {
					if ctx.Err() == nil {
						log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
					}
					select {
					case <-ctx.Done():
						log.Infof("🛑 %s worker stopping", taskType)
						return
					case <-time.After(r.retryDelay):
					}
					continue
				}

				if msg != nil {
					if err := r.processMessage(ctx, msg); err != nil {
						log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
					}
				}
			}
		}
	}()
}

func (r *CommandRunner) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	switch taskType {
	case task.TypeRefresh:
		refreshTask, err := task.UnmarshalTask[*task.RefreshTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal refresh task data: %w", err)
		}

		league := refreshTask.League
		if league == "" {
			league = r.defaultLeague
		}
		if !r.service.RefreshAll(ctx, league) {
			// Left pending so the auto-claimer retries it
			return fmt.Errorf("refresh of league %s failed", league)
		}

	case task.TypeClearCache:
		if _, err := task.UnmarshalTask[*task.ClearCacheTask]([]byte(taskData)); err != nil {
			return fmt.Errorf("failed to unmarshal clear cache task data: %w", err)
		}
		r.service.ClearCache()

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := r.queue.AckTask(ctx, queue.StreamName(taskType), r.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}
