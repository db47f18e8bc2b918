package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/emrgen/reader/internal/store"
	"github.com/sirupsen/logrus"
)

var (
	_ ChangeQueue          = (*KafkaChangeQueue)(nil)
	_ store.ChangeListener = (*KafkaChangeQueue)(nil)
)

// KafkaChangeQueue produces change events to a kafka topic. As a store listener
// it exports every committed change without blocking the writer.
type KafkaChangeQueue struct {
	producer *kafka.Producer
	topic    string
	done     chan struct{}
}

func NewKafkaChangeQueue(brokers, topic string) (*KafkaChangeQueue, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"client.id":         "reader",
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}
	if topic == "" {
		topic = ChangeTopic
	}

	q := &KafkaChangeQueue{producer: producer, topic: topic, done: make(chan struct{})}
	go q.report()

	return q, nil
}

// report logs failed deliveries.
func (q *KafkaChangeQueue) report() {
	for {
		select {
		case <-q.done:
			return
		case e, ok := <-q.producer.Events():
			if !ok {
				return
			}
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logrus.Errorf("change delivery failed: %v", ev.TopicPartition.Error)
				}
			case kafka.Error:
				logrus.Errorf("kafka: %v", ev)
			}
		}
	}
}

func (q *KafkaChangeQueue) PublishChange(_ context.Context, change store.Change) error {
	value, err := NewChangeEvent(change, time.Now()).Marshal()
	if err != nil {
		return err
	}

	return q.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &q.topic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.FormatUint(change.Revision, 10)),
		Value:          value,
	}, nil)
}

// OnChange enqueues the change; Produce only buffers locally.
func (q *KafkaChangeQueue) OnChange(change store.Change) {
	if err := q.PublishChange(context.Background(), change); err != nil {
		logrus.Errorf("failed to export change %d: %v", change.Revision, err)
	}
}

func (q *KafkaChangeQueue) Close() error {
	q.producer.Flush(5000)
	close(q.done)
	q.producer.Close()
	return nil
}
