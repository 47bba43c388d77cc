// Package pgnotify feeds order changes received over PostgreSQL LISTEN/NOTIFY
// into the fulfillment core.
package pgnotify

import (
	"context"
	"log/slog"
	"time"

	"cafe/internal/adapters/feed"
	"cafe/internal/core/ports"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// notificationSource is the part of *pq.Listener the loop needs.
type notificationSource interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Listener forwards notifications to sink. pq delivers a nil notification
// after a reconnect; notifications may have been lost then, so the listener
// forwards a resync event instead.
type Listener struct {
	source  notificationSource
	channel string
	sink    ports.OrderEventPublisher
	logger  *slog.Logger
	ping    time.Duration
}

func NewListener(dsn, channel string, sink ports.OrderEventPublisher, logger *slog.Logger) *Listener {
	l := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("pg listener event", "event", int(ev), "err", err)
		}
	})
	return NewListenerWith(l, channel, sink, logger)
}

// NewListenerWith wraps an existing notification source.
func NewListenerWith(source notificationSource, channel string, sink ports.OrderEventPublisher, logger *slog.Logger) *Listener {
	return &Listener{
		source:  source,
		channel: channel,
		sink:    sink,
		logger:  logger,
		ping:    pingInterval,
	}
}

// Run listens until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	defer l.source.Close()

	if err := l.source.Listen(l.channel); err != nil {
		return err
	}
	l.logger.Info("listening for order changes", "channel", l.channel)

	ticker := time.NewTicker(l.ping)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-l.source.NotificationChannel():
			if !ok {
				return nil
			}
			l.forward(ctx, n)
		case <-ticker.C:
			if err := l.source.Ping(); err != nil {
				l.logger.Warn("pg listener ping", "err", err)
			}
		}
	}
}

func (l *Listener) forward(ctx context.Context, n *pq.Notification) {
	event := feed.Resync(time.Now())
	if n != nil {
		decoded, err := feed.Decode([]byte(n.Extra))
		if err != nil {
			l.logger.Error("skip undecodable notification", "err", err)
			return
		}
		event = decoded
	}

	if err := l.sink.Publish(ctx, event); err != nil {
		l.logger.Error("order change handler failed", "kind", string(event.Kind), "err", err)
	}
}
