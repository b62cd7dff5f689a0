package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/lockdeal/app"
)

func TestChannelsFor(t *testing.T) {
	e := app.Event{
		Type: "pool_transferred",
		Attributes: map[string]string{
			"pool_id": "7",
			"from":    "alice",
			"to":      "bob",
			"owner":   "bob",
		},
	}
	require.Equal(t, []string{
		"events",
		"events:pool_transferred",
		"pool:7",
		"owner:bob",
		"owner:alice",
	}, ChannelsFor(e))

	rebuilt := app.Event{Type: "pools_rebuilt", Attributes: map[string]string{"collateral_pool_id": "3"}}
	require.Equal(t, []string{"events", "events:pools_rebuilt", "pool:3"}, ChannelsFor(rebuilt))
}

func TestValidChannel(t *testing.T) {
	require.True(t, validChannel("events"))
	require.True(t, validChannel("events:pool_created"))
	require.True(t, validChannel("pool:0"))
	require.True(t, validChannel("owner:cosmos1abc"))
	require.False(t, validChannel("pool:"))
	require.False(t, validChannel("orders"))
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_DeliversSubscribedEvents(t *testing.T) {
	hub := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	conn := dial(t, srv, "?channel=pool:7")
	msg := readMessage(t, conn)
	require.Equal(t, "subscribed", msg.Type)
	require.Equal(t, "pool:7", msg.Channel)

	require.NoError(t, conn.WriteJSON(ClientMessage{Action: "subscribe", Channel: "events:pools_rebuilt"}))
	require.Equal(t, "subscribed", readMessage(t, conn).Type)

	hub.Publish(5, []app.Event{
		{Height: 5, Type: "pool_created", Attributes: map[string]string{"pool_id": "8"}},
		{Height: 5, Type: "pool_updated", Attributes: map[string]string{"pool_id": "7"}},
		{Height: 5, Type: "pools_rebuilt", Attributes: map[string]string{"collateral_pool_id": "9"}},
	})

	msg = readMessage(t, conn)
	require.Equal(t, "pool_updated", msg.Type)
	require.Equal(t, "pool:7", msg.Channel)

	msg = readMessage(t, conn)
	require.Equal(t, "pools_rebuilt", msg.Type)
	require.Equal(t, "events:pools_rebuilt", msg.Channel)

	require.NoError(t, conn.WriteJSON(ClientMessage{Action: "subscribe", Channel: "orders"}))
	msg = readMessage(t, conn)
	require.Equal(t, "error", msg.Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Action: "ping"}))
	require.Equal(t, "pong", readMessage(t, conn).Type)

	require.Equal(t, 1, hub.GetClientCount())
	require.Equal(t, 1, hub.GetChannelClientCount("pool:7"))
}

func TestHub_LimitsClientsPerIP(t *testing.T) {
	hub := NewHub(&HubConfig{MaxClientsPerIP: 1, MaxSubscriptions: 1, MessageRateLimit: 10}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, 5*time.Second, 10*time.Millisecond)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, 429, resp.StatusCode)
}

func httpHandler(hub *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	return mux
}
