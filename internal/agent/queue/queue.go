package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/elixxir/ekv"

	"github.com/Lakshan2000610/hr-notification/config"
)

const queueKey = "view_queue"

// ViewRecord is one pending view report
type ViewRecord struct {
	ContentID      string    `json:"content_id"`
	EmployeeID     string    `json:"employee_id"`
	ViewedDuration float64   `json:"viewed_duration"`
	Timestamp      time.Time `json:"timestamp"`
}

// Sender delivers one view record to the server
type Sender interface {
	RecordView(ctx context.Context, contentID, employeeID string, duration float64) error
}

// Queue is the agent's durable at-least-once view queue. Records are flushed
// to the backing store on every mutation; a crash between enqueue and send
// replays the record on the next start. The server max-merges durations, so
// replays are harmless.
type Queue struct {
	mu      sync.Mutex
	kv      ekv.KeyValue
	records []ViewRecord

	sender   Sender
	interval time.Duration
	attempts int
	cap      int
	backoff  time.Duration
	logger   zerolog.Logger
}

// New loads the queue from the backing store
func New(kv ekv.KeyValue, sender Sender, cfg *config.AgentConfig, logger zerolog.Logger) (*Queue, error) {
	q := &Queue{
		kv:       kv,
		sender:   sender,
		interval: cfg.QueueInterval,
		attempts: cfg.SendAttempts,
		cap:      cfg.QueueCap,
		backoff:  time.Second,
		logger:   logger.With().Str("component", "view_queue").Logger(),
	}

	if err := kv.GetInterface(queueKey, &q.records); err != nil && ekv.Exists(err) {
		return nil, fmt.Errorf("failed to load view queue: %w", err)
	}

	if len(q.records) > 0 {
		q.logger.Info().Int("pending", len(q.records)).Msg("Recovered pending view records")
	}

	return q, nil
}

// flush persists the queue; callers hold the mutex
func (q *Queue) flush() error {
	if err := q.kv.SetInterface(queueKey, q.records); err != nil {
		return fmt.Errorf("failed to persist view queue: %w", err)
	}
	return nil
}

// Enqueue adds a record, replacing any queued record for the same content
// and evicting the oldest entries beyond the cap. The record is durable when
// Enqueue returns.
func (q *Queue) Enqueue(rec ViewRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.records[:0]
	for _, r := range q.records {
		if r.ContentID != rec.ContentID {
			kept = append(kept, r)
		}
	}
	q.records = append(kept, rec)

	if len(q.records) > q.cap {
		q.records = q.records[len(q.records)-q.cap:]
	}

	return q.flush()
}

// Pending returns the number of queued records
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}

// snapshot copies the queue for a send pass
func (q *Queue) snapshot() []ViewRecord {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]ViewRecord, len(q.records))
	copy(out, q.records)
	return out
}

// ack durably removes a delivered record unless a larger duration replaced
// it while the send was in flight
func (q *Queue) ack(rec ViewRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.records[:0]
	for _, r := range q.records {
		if r.ContentID == rec.ContentID && r.ViewedDuration <= rec.ViewedDuration {
			continue
		}
		kept = append(kept, r)
	}

	if len(kept) == len(q.records) {
		return nil
	}

	q.records = kept
	return q.flush()
}

// Run drains the queue on an interval until the context is canceled. The
// first pass runs immediately so records recovered at startup go out without
// waiting a full interval.
func (q *Queue) Run(ctx context.Context) {
	q.logger.Info().Dur("interval", q.interval).Msg("View queue worker started")

	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	q.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			q.logger.Info().Msg("View queue worker stopped")
			return
		case <-ticker.C:
			q.drain(ctx)
		}
	}
}

// drain attempts each queued record with exponential backoff between
// attempts. Records that exhaust their attempts stay queued for the next
// pass.
func (q *Queue) drain(ctx context.Context) {
	for _, rec := range q.snapshot() {
		if q.send(ctx, rec) {
			if err := q.ack(rec); err != nil {
				q.logger.Error().Err(err).
					Str("content_id", rec.ContentID).
					Msg("Failed to remove delivered record")
			}
		}
	}
}

func (q *Queue) send(ctx context.Context, rec ViewRecord) bool {
	for attempt := 1; attempt <= q.attempts; attempt++ {
		err := q.sender.RecordView(ctx, rec.ContentID, rec.EmployeeID, rec.ViewedDuration)
		if err == nil {
			q.logger.Debug().
				Str("content_id", rec.ContentID).
				Float64("viewed_duration", rec.ViewedDuration).
				Msg("View record delivered")
			return true
		}

		q.logger.Warn().Err(err).
			Str("content_id", rec.ContentID).
			Int("attempt", attempt).
			Msg("Failed to deliver view record")

		if attempt == q.attempts {
			break
		}

		wait := time.Duration(1<<uint(attempt)) * q.backoff
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}

	return false
}
