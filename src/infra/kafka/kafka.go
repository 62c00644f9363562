package kafka

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

type KafkaClient struct {
	producer sarama.SyncProducer
	logger   *slog.Logger
}

type Message struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0

	// Producer config - telemetria tolera perda, então prioriza latência
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 50 * time.Millisecond
	config.Producer.Flush.Messages = 50
	config.Producer.Flush.Bytes = 512 * 1024
	config.Producer.MaxMessageBytes = 1024 * 1024

	return config
}

func NewKafkaClient(brokerList []string, logger *slog.Logger) (*KafkaClient, error) {
	producer, err := sarama.NewSyncProducer(brokerList, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	logger.Info("Kafka producer initialized", "brokers", brokerList)

	return NewKafkaClientWithProducer(producer, logger), nil
}

// NewKafkaClientWithProducer aceita qualquer SyncProducer (ex.: sarama/mocks).
func NewKafkaClientWithProducer(producer sarama.SyncProducer, logger *slog.Logger) *KafkaClient {
	return &KafkaClient{producer: producer, logger: logger}
}

func (k *KafkaClient) Producer(messages []Message, topic string) error {
	if len(messages) == 0 {
		return nil
	}

	batchSize := len(messages)
	k.logger.Debug("Sending batch", "count", batchSize, "topic", topic)

	kafkaMessages := make([]*sarama.ProducerMessage, batchSize)
	for i, msg := range messages {
		kafkaMessages[i] = &sarama.ProducerMessage{
			Topic:   topic,
			Key:     sarama.StringEncoder(msg.Key),
			Value:   sarama.ByteEncoder(msg.Value),
			Headers: toRecordHeaders(msg.Headers),
		}
	}

	type result struct {
		err   error
		index int
	}

	resultChan := make(chan result, batchSize)

	// Send all messages concurrently
	for i, kafkaMsg := range kafkaMessages {
		go func(idx int, msg *sarama.ProducerMessage) {
			_, _, err := k.producer.SendMessage(msg)
			resultChan <- result{err: err, index: idx}
		}(i, kafkaMsg)
	}

	var errs []error
	for i := 0; i < batchSize; i++ {
		res := <-resultChan
		if res.err != nil {
			errs = append(errs, fmt.Errorf("message %d: %w", res.index, res.err))
		}
	}

	if len(errs) > 0 {
		k.logger.Warn("Batch completed with errors", "failed", len(errs), "total", batchSize, "topic", topic)
		return fmt.Errorf("batch send failed: %d/%d messages failed: %w", len(errs), batchSize, errors.Join(errs...))
	}

	k.logger.Debug("Batch sent", "count", batchSize, "topic", topic)
	return nil
}

func toRecordHeaders(headers map[string]string) []sarama.RecordHeader {
	if len(headers) == 0 {
		return nil
	}

	records := make([]sarama.RecordHeader, 0, len(headers))
	for key, value := range headers {
		records = append(records, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}
	return records
}

func (k *KafkaClient) Close() error {
	if err := k.producer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}
