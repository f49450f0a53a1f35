package notify

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
	}

	hub.register <- client

	hub.NotifyOrder("created", "o1", "0551234567", 2000)

	select {
	case got := <-client.Send:
		var event Event
		if err := json.Unmarshal(got, &event); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		if event.Kind != "created" || event.OrderID != "o1" || event.Total != 2000 {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	hub.unregister <- client
}
