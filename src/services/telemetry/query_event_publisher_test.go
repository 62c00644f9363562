package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orghierarchy/src/domain"
	"orghierarchy/src/infra/kafka"
	"orghierarchy/src/services/telemetry"
	"orghierarchy/src/test_artefacts/comparer"
)

type capturingProducer struct {
	mu      sync.Mutex
	batches [][]kafka.Message
	topics  []string
}

func (c *capturingProducer) Producer(messages []kafka.Message, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, append([]kafka.Message(nil), messages...))
	c.topics = append(c.topics, topic)
	return nil
}

func (c *capturingProducer) snapshot() [][]kafka.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]kafka.Message(nil), c.batches...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

var _ = Describe("QueryEventPublisher", func() {
	observation := telemetry.QueryObservation{
		Backend:    domain.BackendRelational,
		Kind:       domain.QueryDescendants,
		SnapshotID: "snap-1",
		Duration:   1500 * time.Microsecond,
		Rows:       8,
	}

	It("publishes queued events with headers when the context ends", func() {
		// ARRANGE
		producer := &capturingProducer{}
		publisher := telemetry.NewQueryEventPublisher(quietLogger(), producer, "query-events", 10, time.Hour)

		failed := observation
		failed.Err = domain.ErrEmployeeNotFound

		publisher.Observe(context.Background(), observation)
		publisher.Observe(context.Background(), failed)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// ACT
		Expect(publisher.Run(ctx)).To(Succeed())

		// ASSERT
		batches := producer.snapshot()
		Expect(batches).To(HaveLen(1))
		Expect(batches[0]).To(HaveLen(2))
		Expect(producer.topics).To(Equal([]string{"query-events"}))

		message := batches[0][0]
		Expect(message.Key).To(Equal("relational"))
		Expect(message.Headers).To(HaveKeyWithValue("event_type", "query_executed"))
		Expect(message.Headers).To(HaveKeyWithValue("source_service", "org-hierarchy"))
		Expect(message.Headers).To(HaveKeyWithValue("schema_version", "v1"))

		var event telemetry.QueryEvent
		Expect(json.Unmarshal(message.Value, &event)).To(Succeed())
		Expect(message.Headers).To(HaveKeyWithValue("event_id", event.EventID))

		expected := telemetry.QueryEvent{
			EventID:    event.EventID,
			Backend:    "relational",
			Kind:       "descendants",
			SnapshotID: "snap-1",
			DurationMs: 1.5,
			Rows:       8,
			Outcome:    telemetry.OutcomeOK,
			OccurredAt: time.Now().UTC(),
		}
		Expect(cmp.Diff(expected, event, comparer.TimeWithin(5*time.Second))).To(BeEmpty())

		var failedEvent telemetry.QueryEvent
		Expect(json.Unmarshal(batches[0][1].Value, &failedEvent)).To(Succeed())
		Expect(failedEvent.Outcome).To(Equal(telemetry.OutcomeNotFound))
		Expect(failedEvent.Error).To(ContainSubstring("not found"))
	})

	It("drops events once the queue is full instead of blocking", func() {
		producer := &capturingProducer{}
		// batchSize 1 deixa espaço para 4 eventos na fila
		publisher := telemetry.NewQueryEventPublisher(quietLogger(), producer, "query-events", 1, time.Hour)

		for range 6 {
			publisher.Observe(context.Background(), observation)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(publisher.Run(ctx)).To(Succeed())

		total := 0
		for _, batch := range producer.snapshot() {
			total += len(batch)
		}
		Expect(total).To(Equal(4))
	})

	It("flushes a full batch while running", func() {
		producer := &capturingProducer{}
		publisher := telemetry.NewQueryEventPublisher(quietLogger(), producer, "query-events", 2, time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = publisher.Run(ctx)
		}()
		DeferCleanup(func() {
			cancel()
			<-done
		})

		publisher.Observe(ctx, observation)
		publisher.Observe(ctx, observation)

		Eventually(producer.snapshot).Should(HaveLen(1))
		Expect(producer.snapshot()[0]).To(HaveLen(2))
	})

	Context("through the sarama producer", func() {
		It("sends every event to the configured topic", func() {
			// ARRANGE
			mockProducer := mocks.NewSyncProducer(GinkgoT(), nil)
			checkEvent := func(value []byte) error {
				var event telemetry.QueryEvent
				if err := json.Unmarshal(value, &event); err != nil {
					return err
				}
				if event.Backend != "relational" {
					return errors.New("unexpected backend " + event.Backend)
				}
				return nil
			}
			mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(checkEvent)
			mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(checkEvent)

			client := kafka.NewKafkaClientWithProducer(mockProducer, quietLogger())
			publisher := telemetry.NewQueryEventPublisher(quietLogger(), client, "query-events", 10, time.Hour)

			publisher.Observe(context.Background(), observation)
			publisher.Observe(context.Background(), observation)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			// ACT
			Expect(publisher.Run(ctx)).To(Succeed())

			// ASSERT
			Expect(client.Close()).To(Succeed())
		})

		It("reports failed sends", func() {
			mockProducer := mocks.NewSyncProducer(GinkgoT(), nil)
			mockProducer.ExpectSendMessageAndSucceed()
			mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

			client := kafka.NewKafkaClientWithProducer(mockProducer, quietLogger())

			err := client.Producer([]kafka.Message{
				{Key: "graph", Value: []byte(`{}`)},
				{Key: "graph", Value: []byte(`{}`)},
			}, "query-events")

			Expect(errors.Is(err, sarama.ErrOutOfBrokers)).To(BeTrue())
			Expect(client.Close()).To(Succeed())
		})
	})
})
