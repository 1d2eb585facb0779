package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Client exposes the underlying connection so the event publisher can share it
func (s *Storage) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Arrangement operations

func (s *Storage) SaveArrangement(ctx context.Context, arrangement *model.Arrangement) error {
	data, err := json.Marshal(arrangement)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, arrangementKey(arrangement.EventID), data, s.cfg.ArrangementTTL).Err()
}

func (s *Storage) GetArrangement(ctx context.Context, eventID model.EventID) (*model.Arrangement, error) {
	data, err := s.client.Get(ctx, arrangementKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrArrangementNotFound
		}
		return nil, err
	}

	var arrangement model.Arrangement
	if err := json.Unmarshal(data, &arrangement); err != nil {
		return nil, err
	}
	return &arrangement, nil
}

func (s *Storage) DeleteArrangement(ctx context.Context, eventID model.EventID) error {
	return s.client.Del(ctx, arrangementKey(eventID)).Err()
}

// Attendee directory operations

func (s *Storage) SaveAttendees(ctx context.Context, eventID model.EventID, attendees []model.Attendee) error {
	key := attendeesKey(eventID)

	members := make([]interface{}, len(attendees))
	for i, a := range attendees {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encoding attendee %s: %w", a.ID, err)
		}
		members[i] = data
	}

	// Replace the whole list atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.RPush(ctx, key, members...)
		if s.cfg.AttendeesTTL > 0 {
			pipe.Expire(ctx, key, s.cfg.AttendeesTTL)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAttendees(ctx context.Context, eventID model.EventID) ([]model.Attendee, error) {
	values, err := s.client.LRange(ctx, attendeesKey(eventID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	attendees := make([]model.Attendee, 0, len(values))
	for _, val := range values {
		var a model.Attendee
		if err := json.Unmarshal([]byte(val), &a); err != nil {
			continue // Skip invalid data
		}
		attendees = append(attendees, a)
	}
	return attendees, nil
}

// View state operations

func (s *Storage) SaveViewState(ctx context.Context, eventID model.EventID, state model.ViewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, viewStateKey(eventID), data, s.cfg.ViewStateTTL).Err()
}

func (s *Storage) GetViewState(ctx context.Context, eventID model.EventID) (*model.ViewState, error) {
	data, err := s.client.Get(ctx, viewStateKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrViewStateNotFound
		}
		return nil, err
	}

	var state model.ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
