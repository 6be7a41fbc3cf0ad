package publish

import (
	"context"
	"fmt"

	"esologs_check/config"
	"esologs_check/parse"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher forwards finished reports to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, code string, r *parse.Report) error
	Close() error
}

// New returns a Kafka publisher, or a no-op one when no brokers are configured.
func New(cfg config.KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		return Noop{}
	}
	return NewKafkaPublisher(cfg)
}

type Noop struct{}

func (Noop) Publish(context.Context, string, *parse.Report) error { return nil }
func (Noop) Close() error                                         { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes r keyed by report/fight/source so reports of one fight share a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, code string, r *parse.Report) error {
	msg, err := buildMessage(code, r)
	if err != nil {
		return err
	}

	err = p.w.WriteMessages(ctx, msg)
	if err != nil {
		return errors.Wrapf(err, "publish %s", msg.Key)
	}

	zap.L().Debug("report published", zap.ByteString("key", msg.Key), zap.Int("bytes", len(msg.Value)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return errors.WithStack(p.w.Close())
}

func messageKey(code string, r *parse.Report) string {
	return fmt.Sprintf("%s/%d/%d", code, r.Fight.ID, r.SourceID)
}

func buildMessage(code string, r *parse.Report) (kafka.Message, error) {
	value, err := jsoniter.Marshal(r)
	if err != nil {
		return kafka.Message{}, errors.WithStack(err)
	}

	partial := "false"
	if r.Partial() {
		partial = "true"
	}

	return kafka.Message{
		Key:   []byte(messageKey(code, r)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "partial", Value: []byte(partial)},
		},
	}, nil
}
