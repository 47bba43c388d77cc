package postgres

import (
	"context"
	"fmt"

	"cafe/internal/adapters/feed"
	"cafe/internal/core/ports"

	"gorm.io/gorm"
)

// DefaultNotifyChannel is the LISTEN/NOTIFY channel of order changes.
const DefaultNotifyChannel = "order_changed"

// NotifyPublisher sends each change as a NOTIFY payload so that every process
// attached to the same database sees it.
type NotifyPublisher struct {
	db      *gorm.DB
	channel string
}

func NewNotifyPublisher(db *gorm.DB, channel string) *NotifyPublisher {
	if channel == "" {
		channel = DefaultNotifyChannel
	}
	return &NotifyPublisher{db: db, channel: channel}
}

func (p *NotifyPublisher) Publish(ctx context.Context, events ...ports.OrderChanged) error {
	for _, event := range events {
		payload, err := feed.Encode(event)
		if err != nil {
			return err
		}
		if err = p.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", p.channel, string(payload)).Error; err != nil {
			return fmt.Errorf("pg_notify: %w", err)
		}
	}
	return nil
}
