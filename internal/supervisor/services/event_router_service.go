// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
)

// MessageRouter is satisfied by *eventprocessor.Router.
type MessageRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// EventRouterService runs the run-event router and closes the bus behind
// it on shutdown. A Watermill router cannot be run twice, so a router
// that stops on its own is not restarted.
type EventRouterService struct {
	router MessageRouter
	bus    interface{ Close() error }
	name   string
}

// NewEventRouterService wraps router. bus may be nil.
func NewEventRouterService(router MessageRouter, bus interface{ Close() error }) *EventRouterService {
	return &EventRouterService{router: router, bus: bus, name: "event-router"}
}

func (s *EventRouterService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.router.Run(ctx) }()

	select {
	case err := <-errCh:
		if ctx.Err() != nil {
			s.closeBus()
			return ctx.Err()
		}
		if err == nil {
			err = errors.New("router stopped")
		}
		return fmt.Errorf("event router: %w: %w", err, suture.ErrDoNotRestart)

	case <-ctx.Done():
		if err := s.router.Close(); err != nil {
			logging.Warn().Err(err).Msg("Event router close failed")
		}
		<-errCh
		s.closeBus()
		return ctx.Err()
	}
}

func (s *EventRouterService) closeBus() {
	if s.bus == nil {
		return
	}
	if err := s.bus.Close(); err != nil {
		logging.Warn().Err(err).Msg("Event bus close failed")
	}
}

func (s *EventRouterService) String() string {
	return s.name
}
