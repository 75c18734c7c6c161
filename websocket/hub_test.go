package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decor-marketplace-server/events"
	"decor-marketplace-server/models"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func register(t *testing.T, hub *Hub, email string) *Client {
	t.Helper()
	c := &Client{Hub: hub, Email: email, Send: make(chan []byte, 4)}
	hub.Register <- c
	require.Eventually(t, func() bool { return hub.IsUserConnected(email) }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.Send:
		var m Message
		require.NoError(t, json.Unmarshal(raw, &m))
		return m
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return Message{}
	}
}

func TestHubDeliversToEveryConnectionOfUser(t *testing.T) {
	hub := startHub(t)
	tab1 := register(t, hub, "client@decor.test")
	tab2 := register(t, hub, "client@decor.test")
	stranger := register(t, hub, "other@decor.test")

	n := hub.SendToUser("Client@Decor.test", &Message{Type: MessageBookingEvent, BookingID: 3})
	assert.Equal(t, 2, n)
	assert.Equal(t, uint(3), receive(t, tab1).BookingID)
	assert.Equal(t, uint(3), receive(t, tab2).BookingID)
	assert.Empty(t, stranger.Send)

	assert.ElementsMatch(t, []string{"client@decor.test", "other@decor.test"}, hub.ConnectedUsers())
}

func TestHubUnregister(t *testing.T) {
	hub := startHub(t)
	c := register(t, hub, "client@decor.test")

	hub.Unregister <- c
	require.Eventually(t, func() bool { return !hub.IsUserConnected("client@decor.test") }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.SendToUser("client@decor.test", &Message{Type: MessageBookingEvent}))
}

func TestNotifierPushesToClientAndDecorator(t *testing.T) {
	hub := startHub(t)
	clientConn := register(t, hub, "client@decor.test")
	decoConn := register(t, hub, "deco@decor.test")

	err := NewNotifier(hub).Publish(context.Background(), events.Event{
		Type:           models.EventAccepted,
		BookingID:      11,
		UserEmail:      "client@decor.test",
		DecoratorEmail: "deco@decor.test",
		OccurredAt:     time.Now(),
	})
	require.NoError(t, err)

	for _, c := range []*Client{clientConn, decoConn} {
		m := receive(t, c)
		assert.Equal(t, MessageBookingEvent, m.Type)
		assert.Equal(t, "booking.accepted", m.Event)
		assert.Equal(t, uint(11), m.BookingID)
	}
}

func TestServeWebSocketEndToEnd(t *testing.T) {
	hub := startHub(t)
	upgrader := NewUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWebSocket(hub, upgrader, w, r, "client@decor.test", "user")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsUserConnected("client@decor.test") }, time.Second, 5*time.Millisecond)
	hub.SendToUser("client@decor.test", &Message{Type: MessageBookingEvent, BookingID: 5})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, uint(5), m.BookingID)
}

func TestUpgraderRejectsUnknownOrigin(t *testing.T) {
	u := NewUpgrader([]string{"http://localhost:5173"})
	ok := httptest.NewRequest(http.MethodGet, "/ws", nil)
	ok.Header.Set("Origin", "http://localhost:5173")
	bad := httptest.NewRequest(http.MethodGet, "/ws", nil)
	bad.Header.Set("Origin", "http://evil.example")

	assert.True(t, u.CheckOrigin(ok))
	assert.False(t, u.CheckOrigin(bad))
}

func TestServeWebSocketAfterStopClosesConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	served := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(served)
		ServeWebSocket(hub, NewUpgrader(nil), w, r, "client@decor.test", "user")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("handler blocked on a stopped hub")
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.False(t, hub.IsUserConnected("client@decor.test"))
}
