package notifyfeed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"github.com/polkiloo/vinylstore/internal/config"
)

// Module wires the push notification feed.
var Module = fx.Options(
	fx.Provide(newFeed),
	fx.Invoke(registerLifecycle),
)

type feedParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// newKafkaReader is replaced in tests.
var newKafkaReader = func(cfg *config.Config, logger *slog.Logger) Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.NotificationBrokers,
		Topic:   cfg.NotificationTopic,
		// a group per process so every instance sees every event
		GroupID:     fmt.Sprintf("storefront-%s", uuid.NewString()),
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
		MaxWait:     time.Second,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...), slog.String("component", "notifyfeed"))
		}),
	})
}

func newFeed(p feedParams) *Feed {
	logger := p.Logger.With(slog.String("component", "notifyfeed"))
	if len(p.Config.NotificationBrokers) == 0 {
		logger.Info("push notifications disabled, polling only")
		return New(nil, logger)
	}
	return New(newKafkaReader(p.Config, p.Logger), logger)
}

func registerLifecycle(lc fx.Lifecycle, feed *Feed) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// The loop outlives the start context.
			feed.Start(context.Background())
			return nil
		},
		OnStop: feed.Stop,
	})
}
