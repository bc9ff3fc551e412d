// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package eventprocessor

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// RunTopics lists the topics run events are published on. The topic of a
// message is its event type.
var RunTopics = []string{
	models.RunEventStarted,
	models.RunEventProcessed,
	models.RunEventFinished,
}

// ErrUnknownTopic is returned for an event whose type is not in RunTopics.
var ErrUnknownTopic = errors.New("unknown run event type")

// IsRunTopic reports whether topic is one of RunTopics.
func IsRunTopic(topic string) bool {
	for _, t := range RunTopics {
		if t == topic {
			return true
		}
	}
	return false
}

// MarshalRunEvent encodes ev after checking its type and run ID.
func MarshalRunEvent(ev *models.RunEvent) ([]byte, error) {
	if ev == nil {
		return nil, errors.New("marshal run event: nil event")
	}
	if !IsRunTopic(ev.Type) {
		return nil, fmt.Errorf("marshal run event %q: %w", ev.Type, ErrUnknownTopic)
	}
	if ev.RunID == "" {
		return nil, fmt.Errorf("marshal run event %q: run_id is required", ev.Type)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal run event: %w", err)
	}
	return data, nil
}

// UnmarshalRunEvent decodes a payload produced by MarshalRunEvent.
func UnmarshalRunEvent(data []byte) (*models.RunEvent, error) {
	var ev models.RunEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal run event: %w", err)
	}
	if !IsRunTopic(ev.Type) {
		return nil, fmt.Errorf("unmarshal run event %q: %w", ev.Type, ErrUnknownTopic)
	}
	return &ev, nil
}
