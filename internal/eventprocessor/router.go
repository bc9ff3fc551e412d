// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package eventprocessor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 50 * time.Millisecond,
		RetryMaxInterval:     time.Second,
	}
}

// Router wraps the Watermill Router with panic recovery and retry.
type Router struct {
	router   *message.Router
	handlers map[string]*message.Handler
	running  atomic.Bool
}

// NewRouter creates a Router. Middleware order, outer to inner, is
// Recoverer then Retry.
func NewRouter(cfg RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)
	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      2.0,
			Logger:          logger,
		}
		wmRouter.AddMiddleware(retry.Middleware)
	}

	return &Router{
		router:   wmRouter,
		handlers: make(map[string]*message.Handler),
	}, nil
}

// AddConsumerHandler registers a handler that produces no output messages.
// Handlers must be added before Run.
func (r *Router) AddConsumerHandler(
	name string,
	topic string,
	subscriber message.Subscriber,
	handler message.NoPublishHandlerFunc,
) *message.Handler {
	h := r.router.AddNoPublisherHandler(name, topic, subscriber, handler)
	r.handlers[name] = h
	return h
}

// HandlerCount returns the number of registered handlers.
func (r *Router) HandlerCount() int {
	return len(r.handlers)
}

// Run blocks until ctx is cancelled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running returns a channel that closes once every handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// IsRunning reports whether Run is in progress.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Close stops the router, waiting up to CloseTimeout for in-flight messages.
func (r *Router) Close() error {
	return r.router.Close()
}
