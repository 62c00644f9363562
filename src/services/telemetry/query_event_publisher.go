package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"orghierarchy/src/infra/kafka"
	"time"

	"github.com/google/uuid"
)

// QueryEvent é o payload publicado no tópico de telemetria.
type QueryEvent struct {
	EventID    string    `json:"event_id"`
	Backend    string    `json:"backend"`
	Kind       string    `json:"kind"`
	SnapshotID string    `json:"snapshot_id"`
	DurationMs float64   `json:"duration_ms"`
	Rows       int       `json:"rows"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type MessageProducer interface {
	Producer(messages []kafka.Message, topic string) error
}

// QueryEventPublisher enfileira observações e publica em lotes num
// goroutine próprio (Run). Com a fila cheia, o evento é descartado.
type QueryEventPublisher struct {
	logger        *slog.Logger
	producer      MessageProducer
	topic         string
	events        chan QueryEvent
	batchSize     int
	flushInterval time.Duration
}

func NewQueryEventPublisher(
	logger *slog.Logger,
	producer MessageProducer,
	topic string,
	batchSize int,
	flushInterval time.Duration,
) *QueryEventPublisher {
	if batchSize <= 0 {
		batchSize = 1
	}

	return &QueryEventPublisher{
		logger:        logger,
		producer:      producer,
		topic:         topic,
		events:        make(chan QueryEvent, batchSize*4),
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

func (p *QueryEventPublisher) Observe(_ context.Context, observation QueryObservation) {
	event := QueryEvent{
		EventID:    uuid.NewString(),
		Backend:    string(observation.Backend),
		Kind:       string(observation.Kind),
		SnapshotID: observation.SnapshotID,
		DurationMs: float64(observation.Duration.Microseconds()) / 1000,
		Rows:       observation.Rows,
		Outcome:    observation.Outcome(),
		OccurredAt: time.Now().UTC(),
	}
	if observation.Err != nil {
		event.Error = observation.Err.Error()
	}

	select {
	case p.events <- event:
	default:
		p.logger.Warn("Telemetry queue full, dropping query event", "event_id", event.EventID, "backend", event.Backend)
	}
}

// Run publica até ctx ser cancelado; o que ainda estiver na fila é enviado
// antes de retornar.
func (p *QueryEventPublisher) Run(ctx context.Context) error {
	batch := make([]QueryEvent, 0, p.batchSize)
	timer := time.NewTimer(p.flushInterval)
	defer timer.Stop()

	for {
		select {
		case event := <-p.events:
			batch = append(batch, event)
			if len(batch) >= p.batchSize {
				p.publish(batch)
				batch = batch[:0]
				timer.Reset(p.flushInterval)
			}

		case <-timer.C:
			if len(batch) > 0 {
				p.publish(batch)
				batch = batch[:0]
			}
			timer.Reset(p.flushInterval)

		case <-ctx.Done():
			for {
				select {
				case event := <-p.events:
					batch = append(batch, event)
				default:
					p.publish(batch)
					return nil
				}
			}
		}
	}
}

func (p *QueryEventPublisher) publish(batch []QueryEvent) {
	if len(batch) == 0 {
		return
	}

	messages := make([]kafka.Message, 0, len(batch))
	for _, event := range batch {
		value, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to marshal query event", "error", err, "event_id", event.EventID)
			continue
		}

		messages = append(messages, kafka.Message{
			Key:   event.Backend,
			Value: value,
			Headers: map[string]string{
				"event_type":     "query_executed",
				"event_id":       event.EventID,
				"source_service": "org-hierarchy",
				"schema_version": "v1",
			},
		})
	}

	if err := p.producer.Producer(messages, p.topic); err != nil {
		p.logger.Error("Failed to publish query events", "error", err, "topic", p.topic, "events_count", len(messages))
		return
	}

	p.logger.Debug("Published query events", "topic", p.topic, "events_count", len(messages))
}
