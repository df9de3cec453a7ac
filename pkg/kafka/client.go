// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"roomie-match-go/internal/config"
	"roomie-match-go/pkg/events"
	"roomie-match-go/pkg/log"
)

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。brokers 为空时跳过，事件发布退化为空操作。
func InitProducer(cfg config.KafkaConfig) {
	if cfg.Brokers == "" {
		log.Info("Kafka 未配置，跳过事件发布")
		return
	}
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// Enabled 报告生产者是否可用。
func Enabled() bool {
	return producer != nil
}

// ProduceMessageSent 把消息发送事件写入 Kafka。
func ProduceMessageSent(ctx context.Context, event events.MessageSent) error {
	if producer == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ChatID),
		Value: payload,
	})
}

// Close 关闭生产者连接。
func Close() {
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Errorf("关闭 Kafka 生产者失败: %v", err)
		}
	}
}
