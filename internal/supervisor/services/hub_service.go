// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package services

import (
	"context"
)

// ContextHub is satisfied by *websocket.Hub.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// HubService runs the websocket hub. The hub already follows the Serve
// contract, so this only names it.
type HubService struct {
	hub  ContextHub
	name string
}

func NewHubService(hub ContextHub) *HubService {
	return &HubService{hub: hub, name: "websocket-hub"}
}

func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

func (s *HubService) String() string {
	return s.name
}
