package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobEmail = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes the payload of one job type. The error is only logged;
// handlers decide themselves whether a failed job goes to the DLQ.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes a document e-mail job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, job EmailJob) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing. The returned
// WaitGroup completes once every worker has seen ctx cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]JobHandler) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, id, handlers)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return &wg
}

// Delay between BRPOP attempts while Redis is failing, doubled per failure.
var (
	popBackoffMin = 500 * time.Millisecond
	popBackoffMax = 30 * time.Second
)

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]JobHandler) {
	queues := []string{QueueEmail}
	consume(ctx, id, handlers, func(ctx context.Context) ([]string, error) {
		// Blocking pop: waits up to 5s then loops to check ctx
		return rdb.BRPop(ctx, 5*time.Second, queues...).Result()
	})
}

// consume runs the worker loop over pop. A BRPOP timeout (redis.Nil) loops at
// once; any other error waits with exponential backoff.
func consume(ctx context.Context, id int, handlers map[string]JobHandler, pop func(context.Context) ([]string, error)) {
	backoff := popBackoffMin
	for {
		if ctx.Err() != nil {
			log.Info().Msgf("worker %d shutting down", id)
			return
		}
		result, err := pop(ctx)
		switch {
		case err == nil:
			backoff = popBackoffMin
			if len(result) >= 2 {
				processJob(ctx, handlers, result[0], result[1])
			}
		case errors.Is(err, redis.Nil), ctx.Err() != nil:
		default:
			log.Warn().Err(err).Int("worker", id).Dur("retry_in", backoff).Msg("job queue unavailable")
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, popBackoffMax)
		}
	}
}

func processJob(ctx context.Context, handlers map[string]JobHandler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		return
	}

	log.Info().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	if err := h.Process(ctx, job.Payload); err != nil {
		log.Error().Err(err).Str("type", job.Type).Str("queue", queue).Msg("job failed")
	}
}
