package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tokenStub struct {
	token string
}

func (s tokenStub) AccessToken() (string, bool) {
	return s.token, s.token != ""
}

// socketServer upgrades, records the handshake and subscribe frame, then
// plays the given frames before waiting for the client to go away.
func socketServer(t *testing.T, frames []frame, gotAuth *string, gotSub *frame) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotAuth = r.Header.Get("Authorization")

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.ReadJSON(gotSub))
		for _, fr := range frames {
			require.NoError(t, conn.WriteJSON(fr))
		}
		// Drain until the client closes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestFeed_SubscribesAndDeliversNotifications(t *testing.T) {
	payload, _ := json.Marshal(Notification{ID: "n1", Title: "new comment"})
	var gotAuth string
	var gotSub frame
	srv := socketServer(t, []frame{
		{Type: "pong"},
		{Type: "notification", Payload: payload},
	}, &gotAuth, &gotSub)
	defer srv.Close()

	feed := NewFeed(wsURL(srv), "u1", tokenStub{token: "tok"}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	select {
	case n := <-feed.Updates():
		require.Equal(t, "n1", n.ID)
		require.Equal(t, "new comment", n.Title)
	case <-time.After(3 * time.Second):
		t.Fatal("no notification delivered")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("run did not stop on cancel")
	}

	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "notifications:subscribe", gotSub.Type)
	var sub subscribePayload
	require.NoError(t, json.Unmarshal(gotSub.Payload, &sub))
	require.Equal(t, "u1", sub.UserID)

	items := feed.Items()
	require.Len(t, items, 1)
	require.Equal(t, "n1", items[0].ID)
}

func TestFeed_ItemsNewestFirst(t *testing.T) {
	feed := NewFeed("ws://unused", "u1", tokenStub{}, zap.NewNop())
	feed.push(Notification{ID: "old"})
	feed.push(Notification{ID: "new"})

	items := feed.Items()
	require.Equal(t, []string{"new", "old"}, []string{items[0].ID, items[1].ID})
}

func TestFeed_MarkRead(t *testing.T) {
	feed := NewFeed("ws://unused", "u1", tokenStub{}, zap.NewNop())
	feed.push(Notification{ID: "n1"})
	feed.push(Notification{ID: "n2"})

	feed.MarkRead("n1")

	items := feed.Items()
	require.False(t, items[0].Read)
	require.True(t, items[1].Read)

	// Unknown id is a no-op.
	feed.MarkRead("missing")
}

func TestFeed_MalformedPayloadSkipped(t *testing.T) {
	good, _ := json.Marshal(Notification{ID: "ok"})
	var gotAuth string
	var gotSub frame
	srv := socketServer(t, []frame{
		{Type: "notification", Payload: json.RawMessage(`"not an object"`)},
		{Type: "notification", Payload: good},
	}, &gotAuth, &gotSub)
	defer srv.Close()

	feed := NewFeed(wsURL(srv), "u1", tokenStub{token: "tok"}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = feed.Run(ctx) }()

	select {
	case n := <-feed.Updates():
		require.Equal(t, "ok", n.ID)
	case <-time.After(3 * time.Second):
		t.Fatal("good notification not delivered")
	}
}

func TestFeed_DialFailure(t *testing.T) {
	feed := NewFeed("ws://127.0.0.1:1", "u1", tokenStub{}, zap.NewNop())
	err := feed.Run(context.Background())
	require.Error(t, err)
}
