// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/metrics"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// Broadcaster fans decoded events out to live clients.
type Broadcaster interface {
	BroadcastRunEvent(ev *models.RunEvent)
	BroadcastJobStatus(job *models.ScrapeJob)
}

// StatusFunc returns the current job record.
type StatusFunc func() models.ScrapeJob

// Forwarder relays run events from the bus to a Broadcaster. When a
// StatusFunc is set, a finished run is followed by the full job record.
type Forwarder struct {
	out    Broadcaster
	status StatusFunc
}

func NewForwarder(out Broadcaster, status StatusFunc) *Forwarder {
	return &Forwarder{out: out, status: status}
}

// Handle decodes one message. A payload that cannot be decoded is logged
// and acked since retrying it cannot succeed.
func (f *Forwarder) Handle(msg *message.Message) error {
	ev, err := UnmarshalRunEvent(msg.Payload)
	if err != nil {
		metrics.RecordBusHandled("unknown", err)
		logging.Warn().
			Err(err).
			Str("message_uuid", msg.UUID).
			Str(MetadataRunID, msg.Metadata.Get(MetadataRunID)).
			Msg("Dropping undecodable run event")
		return nil
	}

	f.out.BroadcastRunEvent(ev)
	if ev.Type == models.RunEventFinished && f.status != nil {
		job := f.status()
		f.out.BroadcastJobStatus(&job)
	}
	metrics.RecordBusHandled(ev.Type, nil)
	return nil
}

// Register adds one consumer handler per run topic.
func (f *Forwarder) Register(r *Router, sub message.Subscriber) {
	for _, topic := range RunTopics {
		r.AddConsumerHandler("websocket-forwarder-"+topic, topic, sub, f.Handle)
	}
}
