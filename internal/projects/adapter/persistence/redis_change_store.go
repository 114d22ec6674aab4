package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"projects-api/internal/projects/domain/model"
	"projects-api/internal/shared/eventbus"
	"projects-api/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const (
	defaultQueueSize = 256
	appendTimeout    = 3 * time.Second
)

// RedisChangeStore records project change events in a Redis stream. It is an
// audit trail only; the project collection itself is never read back from it.
//
// Events received through HandleEvent are queued and written by a single
// worker so that stream order matches publish order and request handling
// never waits on Redis.
type RedisChangeStore struct {
	client    *redis.Client
	streamKey string
	maxLen    int64
	logger    logger.Logger

	mu      sync.Mutex
	queue   chan model.ChangeEvent
	done    chan struct{}
	started bool
	stopped bool
}

// NewRedisChangeStore creates a store writing to streamKey, trimmed to roughly
// maxLen entries (0 disables trimming).
func NewRedisChangeStore(client *redis.Client, streamKey string, maxLen int64, log logger.Logger) *RedisChangeStore {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedisChangeStore{
		client:    client,
		streamKey: streamKey,
		maxLen:    maxLen,
		logger:    log.WithComponent("projects.redis"),
		queue:     make(chan model.ChangeEvent, defaultQueueSize),
		done:      make(chan struct{}),
	}
}

// Append writes one change event to the stream.
func (r *RedisChangeStore) Append(ctx context.Context, change model.ChangeEvent) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	values := map[string]interface{}{
		"type":      change.Type,
		"payload":   payload,
		"timestamp": change.Timestamp.UnixNano(),
	}
	if change.Project != nil {
		values["projectId"] = change.Project.ID
	}

	args := &redis.XAddArgs{
		Stream: r.streamKey,
		Values: values,
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}

	id, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", r.streamKey, err)
	}

	r.logger.WithFields(map[string]interface{}{
		"stream":     r.streamKey,
		"event_type": change.Type,
		"entry_id":   id,
	}).Debug("Change event stored in Redis")
	return nil
}

// Recent returns up to count change events, newest first.
func (r *RedisChangeStore) Recent(ctx context.Context, count int64) ([]model.ChangeEvent, error) {
	msgs, err := r.client.XRevRangeN(ctx, r.streamKey, "+", "-", count).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.ChangeEvent{}, nil
		}
		return nil, fmt.Errorf("xrevrange %s: %w", r.streamKey, err)
	}

	events := make([]model.ChangeEvent, 0, len(msgs))
	for _, msg := range msgs {
		change, err := parseChangeMessage(msg)
		if err != nil {
			r.logger.WithFields(map[string]interface{}{
				"stream":   r.streamKey,
				"entry_id": msg.ID,
			}).Warnf("Skipping unreadable change entry: %v", err)
			continue
		}
		events = append(events, change)
	}
	return events, nil
}

func parseChangeMessage(msg redis.XMessage) (model.ChangeEvent, error) {
	raw, ok := msg.Values["payload"].(string)
	if !ok {
		return model.ChangeEvent{}, fmt.Errorf("missing payload field")
	}
	var change model.ChangeEvent
	if err := json.Unmarshal([]byte(raw), &change); err != nil {
		return model.ChangeEvent{}, err
	}
	return change, nil
}

// Ping checks the Redis connection.
func (r *RedisChangeStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// HandleEvent is an eventbus.Handler that queues the event's ChangeEvent for
// the writer. A full queue drops the event with a warning.
func (r *RedisChangeStore) HandleEvent(_ context.Context, event eventbus.Event) error {
	change, ok := event.Data().(model.ChangeEvent)
	if !ok {
		return fmt.Errorf("redis change store: unexpected payload %T for event %s", event.Data(), event.Type())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return nil
	}
	select {
	case r.queue <- change:
	default:
		r.logger.Warnf("Change queue full, dropping %s event", change.Type)
	}
	return nil
}

// Start launches the writer. Calling it more than once has no effect.
func (r *RedisChangeStore) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true
	go r.run()
}

func (r *RedisChangeStore) run() {
	defer close(r.done)
	for change := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		if err := r.Append(ctx, change); err != nil {
			r.logger.Errorf("Failed to store change event: %v", err)
		}
		cancel()
	}
}

// Stop drains queued events and waits for the writer to finish.
func (r *RedisChangeStore) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	started := r.started
	close(r.queue)
	r.mu.Unlock()

	if started {
		<-r.done
	}
}
