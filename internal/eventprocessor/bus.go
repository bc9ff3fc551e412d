// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/zaidejaz/todaytix-scraper/internal/metrics"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// Metadata keys set on every run event message.
const (
	MetadataRunID   = "run_id"
	MetadataStatus  = "status"
	MetadataEventID = "event_id"
)

// ErrBusClosed is returned when publishing after Close.
var ErrBusClosed = errors.New("event bus is closed")

// BusConfig tunes the in-process pub/sub.
type BusConfig struct {
	// OutputBuffer is the per-subscriber channel buffer.
	OutputBuffer int64

	// BlockUntilAck makes Publish wait for every subscriber to ack.
	// Leave false for run events so a slow consumer cannot stall a run.
	BlockUntilAck bool
}

// DefaultBusConfig returns the settings used by the server.
func DefaultBusConfig() BusConfig {
	return BusConfig{OutputBuffer: 256}
}

// Bus is a Watermill gochannel pub/sub that accepts run events.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus. A nil logger discards Watermill's own logs.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.OutputBuffer,
			BlockPublishUntilSubscriberAck: cfg.BlockUntilAck,
		}, logger),
		logger: logger,
	}
}

// Publish sends msg to topic.
func (b *Bus) Publish(topic string, msg *message.Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.RecordBusPublish(topic)
	return nil
}

// PublishRunEvent serializes ev and publishes it on the topic named by
// its type.
func (b *Bus) PublishRunEvent(ctx context.Context, ev *models.RunEvent) error {
	data, err := MarshalRunEvent(ev)
	if err != nil {
		return err
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set(MetadataRunID, ev.RunID)
	if ev.Status != "" {
		msg.Metadata.Set(MetadataStatus, string(ev.Status))
	}
	if ev.EventKey != "" {
		msg.Metadata.Set(MetadataEventID, ev.EventKey)
	}
	if ctx != nil {
		msg.SetContext(ctx)
	}

	return b.Publish(ev.Type, msg)
}

// Subscriber exposes the bus to a Router.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close stops delivery and closes every subscription. Safe to call twice.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}
