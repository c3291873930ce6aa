package state

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"poe2scout/pricer/internal/store"

	"github.com/redis/go-redis/v9"
)

// LoadStatus summarises the most recent catalog load of a league
type LoadStatus struct {
	League      string      `json:"league"`
	LastUpdate  time.Time   `json:"last_update"`
	Stats       store.Stats `json:"stats"`
	Skipped     int         `json:"skipped"`
	DivinePrice float64     `json:"divine_price"`
}

type StatusStore interface {
	SetStatus(ctx context.Context, status LoadStatus) error
	// GetStatus returns nil, nil when the league was never loaded
	GetStatus(ctx context.Context, league string) (*LoadStatus, error)
}

type redisStatusStore struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStatusStore(redisClient *redis.Client) StatusStore {
	return &redisStatusStore{
		redisClient: redisClient,
		keyPrefix:   "pricer:status:",
	}
}

func (s *redisStatusStore) SetStatus(ctx context.Context, status LoadStatus) error {
	key := s.keyPrefix + status.League
	err := s.redisClient.HSet(ctx, key, map[string]interface{}{
		"last_update":         status.LastUpdate.UTC().Format(time.RFC3339Nano),
		"currency_categories": status.Stats.CurrencyCategories,
		"unique_categories":   status.Stats.UniqueCategories,
		"currency_pages":      status.Stats.CurrencyPages,
		"unique_pages":        status.Stats.UniquePages,
		"leagues":             status.Stats.Leagues,
		"skipped":             status.Skipped,
		"divine_price":        strconv.FormatFloat(status.DivinePrice, 'f', -1, 64),
	}).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set load status for league %s: %w", status.League, err)
	}
	return nil
}

func (s *redisStatusStore) GetStatus(ctx context.Context, league string) (*LoadStatus, error) {
	key := s.keyPrefix + league
	fields, err := s.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get load status for league %s: %w", league, err)
	}
	if len(fields) == 0 {
		return nil, nil // Never loaded
	}

	status := &LoadStatus{League: league}

	if raw := fields["last_update"]; raw != "" {
		status.LastUpdate, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last update for league %s: %w", league, err)
		}
	}
	if raw := fields["divine_price"]; raw != "" {
		status.DivinePrice, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse divine price for league %s: %w", league, err)
		}
	}

	counters := map[string]*int{
		"currency_categories": &status.Stats.CurrencyCategories,
		"unique_categories":   &status.Stats.UniqueCategories,
		"currency_pages":      &status.Stats.CurrencyPages,
		"unique_pages":        &status.Stats.UniquePages,
		"leagues":             &status.Stats.Leagues,
		"skipped":             &status.Skipped,
	}
	for field, dst := range counters {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s for league %s: %w", field, league, err)
		}
		*dst = n
	}

	return status, nil
}
