package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHubDeliversOnlyToTargetUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := &Client{hub: hub, send: make(chan []byte, 4), userID: 1}
	bob := &Client{hub: hub, send: make(chan []byte, 4), userID: 2}
	hub.Register(alice)
	hub.Register(bob)
	waitFor(t, func() bool { return hub.ClientCount(1) == 1 && hub.ClientCount(2) == 1 })

	hub.Notify(1, EventLevelUp, map[string]int{"level": 3})

	select {
	case raw := <-alice.send:
		var n Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if n.Type != EventLevelUp || n.UserID != 1 {
			t.Errorf("unexpected notification %+v", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("alice did not receive the notification")
	}

	select {
	case <-bob.send:
		t.Error("bob must not receive alice's notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := &Client{hub: hub, send: make(chan []byte), userID: 7}
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ClientCount(7) == 1 })

	hub.Notify(7, EventCourseCompleted, nil)
	waitFor(t, func() bool { return hub.ClientCount(7) == 0 })

	if _, ok := <-slow.send; ok {
		t.Error("send channel of a dropped client must be closed")
	}
}

func TestStoppedHubDoesNotBlockClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	early := &Client{hub: hub, send: make(chan []byte, 1), userID: 3}
	if !hub.Register(early) {
		t.Fatal("Register on a running hub must succeed")
	}
	waitFor(t, func() bool { return hub.ClientCount(3) == 1 })

	cancel()
	<-stopped

	done := make(chan bool)
	go func() {
		hub.Unregister(early)
		done <- hub.Register(&Client{hub: hub, send: make(chan []byte, 1), userID: 4})
	}()

	select {
	case registered := <-done:
		if registered {
			t.Error("Register after shutdown must report false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Register or Unregister blocked after the hub stopped")
	}
}

func TestNotifyWithoutConnectionsDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	done := make(chan struct{})
	go func() {
		// no Run loop: the queue fills and further events are discarded
		for i := 0; i < 1000; i++ {
			hub.Notify(42, EventAchievementUnlocked, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked")
	}
}

func TestHandleConnectionStreamsNotifications(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	h := NewHandler(hub, nil, zerolog.Nop())
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Set("userID", int64(5))
		h.HandleConnection(c)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount(5) == 1 })
	hub.Notify(5, EventAchievementUnlocked, map[string]string{"title": "First Steps"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Type != EventAchievementUnlocked {
		t.Errorf("type = %q", n.Type)
	}
}

func TestHandleConnectionRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewHub(zerolog.Nop()), nil, zerolog.Nop())
	router := gin.New()
	router.GET("/ws", h.HandleConnection)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ws", nil)
	router.ServeHTTP(w, req)

	if w.Code != 401 {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
