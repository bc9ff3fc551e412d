// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package websocket

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

//nolint:gochecknoinits // quiet logging for tests
func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func testClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	hub := startHub(t)
	a, b := testClient(hub, 4), testClient(hub, 4)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.BroadcastJSON(MessageTypeJobStatus, map[string]string{"status": "running"})
	for _, c := range []*Client{a, b} {
		if msg := receive(t, c); msg.Type != MessageTypeJobStatus {
			t.Errorf("type = %q", msg.Type)
		}
	}

	hub.Unregister <- a
	waitForClients(t, hub, 1)
	if _, ok := <-a.send; ok {
		t.Error("unregistered client channel still open")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := testClient(hub, 0)
	fast := testClient(hub, 4)
	hub.Register <- slow
	hub.Register <- fast
	waitForClients(t, hub, 2)

	hub.BroadcastJSON(MessageTypeJobStatus, nil)
	receive(t, fast)
	waitForClients(t, hub, 1)
}

func TestHub_BroadcastRunEvent(t *testing.T) {
	tests := []struct {
		eventType string
		want      string
	}{
		{models.RunEventStarted, MessageTypeRunStarted},
		{models.RunEventProcessed, MessageTypeRunProgress},
		{models.RunEventFinished, MessageTypeRunFinished},
	}

	hub := startHub(t)
	c := testClient(hub, 8)
	hub.Register <- c
	waitForClients(t, hub, 1)

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			hub.BroadcastRunEvent(&models.RunEvent{Type: tt.eventType, RunID: "r1"})
			msg := receive(t, c)
			if msg.Type != tt.want || msg.Source != defaultRunMessageSource {
				t.Errorf("message = %+v, want type %s", msg, tt.want)
			}
			ev, ok := msg.Data.(*models.RunEvent)
			if !ok || ev.RunID != "r1" {
				t.Errorf("data = %#v", msg.Data)
			}
		})
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	c := testClient(hub, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithContext = %v, want context.Canceled", err)
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel not closed on shutdown")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("clients = %d after shutdown", hub.GetClientCount())
	}
}

func TestHub_FullQueueDoesNotBlock(t *testing.T) {
	hub := NewHub() // not running, nothing drains the queue
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBufferSize+10; i++ {
			hub.BroadcastJSON(MessageTypeJobStatus, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastJSON blocked on a full queue")
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypeRunFinished, Data: map[string]int{"offers": 3}})
	if err != nil {
		t.Fatalf("MarshalMessage: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != MessageTypeRunFinished {
		t.Errorf("type = %v", decoded["type"])
	}
	if _, ok := decoded["source"]; ok {
		t.Error("empty source should be omitted")
	}
}

func dial(t *testing.T, url, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), header)
	if resp != nil && resp.Body != nil {
		t.Cleanup(func() { _ = resp.Body.Close() })
	}
	return conn, resp, err
}

func TestServeWS_EndToEnd(t *testing.T) {
	hub := startHub(t)
	upgrader := NewUpgrader([]string{"http://allowed.example"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, &upgrader, w, r)
	}))
	t.Cleanup(server.Close)

	conn, _, err := dial(t, server.URL, "http://allowed.example")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	waitForClients(t, hub, 1)

	hub.BroadcastRunEvent(&models.RunEvent{Type: models.RunEventFinished, Status: models.JobCompleted})
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string          `json:"type"`
		Data models.RunEvent `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != MessageTypeRunFinished || msg.Data.Status != models.JobCompleted {
		t.Errorf("message = %+v", msg)
	}

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	var pong Message
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if pong.Type != MessageTypePong {
		t.Errorf("reply type = %q, want pong", pong.Type)
	}
}

func TestServeWS_RejectsOrigin(t *testing.T) {
	hub := startHub(t)
	upgrader := NewUpgrader([]string{"http://allowed.example"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, &upgrader, w, r)
	}))
	t.Cleanup(server.Close)

	for _, origin := range []string{"", "http://evil.example"} {
		_, resp, err := dial(t, server.URL, origin)
		if err == nil {
			t.Errorf("origin %q: dial succeeded", origin)
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("origin %q: response = %v", origin, resp)
		}
	}
}
