package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
)

// KafkaPublisher implements Publisher using Apache Kafka. Every room events
// channel maps onto one topic; the room id is the message key so a room's
// events stay ordered within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	config   KafkaConfig
	doneCh   chan struct{}
}

// NewKafkaPublisher creates a new Kafka-based publisher.
func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"acks":              "1",
		"linger.ms":         5,
		"compression.type":  "snappy",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	kp := &KafkaPublisher{
		producer: p,
		config:   cfg,
		doneCh:   make(chan struct{}),
	}

	go kp.deliveryReportHandler()

	if err := kp.ensureTopic(); err != nil {
		l := pkglog.L()
		l.Warn().Err(err).Str("topic", cfg.Topic).Msg("failed to ensure kafka topic, may already exist")
	}

	return kp, nil
}

func (k *KafkaPublisher) ensureTopic() error {
	admin, err := kafka.NewAdminClientFromProducer(k.producer)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	partitions := k.config.Partitions
	if partitions <= 0 {
		partitions = 4
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{
		{
			Topic:             k.config.Topic,
			NumPartitions:     partitions,
			ReplicationFactor: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}

	for _, r := range results {
		if r.Error.Code() != kafka.ErrNoError && r.Error.Code() != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("failed to create topic %s: %v", r.Topic, r.Error)
		}
	}

	return nil
}

func (k *KafkaPublisher) deliveryReportHandler() {
	l := pkglog.L()
	for e := range k.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				l.Error().Err(ev.TopicPartition.Error).Msg("kafka delivery failed")
			}
		}
	}
	close(k.doneCh)
}

// Publish produces the event to the configured topic keyed by room id.
func (k *KafkaPublisher) Publish(ctx context.Context, channel string, event *Event) error {
	key, err := RoomIDFromChannel(channel)
	if err != nil {
		return fmt.Errorf("failed to parse channel: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.config.Topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(key),
		Value: data,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	return nil
}

// Close flushes pending messages and closes the producer.
func (k *KafkaPublisher) Close() error {
	k.producer.Flush(5000)
	k.producer.Close()
	<-k.doneCh
	return nil
}
