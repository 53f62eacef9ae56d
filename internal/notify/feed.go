package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	customErrors "github.com/collabblog/blogclient/internal/auth/errors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Notification struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"createdAt"`
	Read      bool            `json:"read"`
	Meta      json.RawMessage `json:"meta,omitempty"`
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type subscribePayload struct {
	UserID string `json:"userId"`
}

// TokenSource mirrors the transport's read-only token view; the socket
// handshake carries the same bearer credential as HTTP calls.
type TokenSource interface {
	AccessToken() (string, bool)
}

// Feed is the client side of the notification socket. Incoming
// notifications are kept newest-first and also pushed to Updates
// subscribers. Mark-read is local state only.
type Feed struct {
	url    string
	userID string
	tokens TokenSource
	log    *zap.Logger

	mu      sync.Mutex
	items   []Notification
	updates chan Notification

	pingEvery time.Duration
}

func NewFeed(socketURL, userID string, tokens TokenSource, log *zap.Logger) *Feed {
	return &Feed{
		url:       socketURL,
		userID:    userID,
		tokens:    tokens,
		log:       log,
		updates:   make(chan Notification, 16),
		pingEvery: 15 * time.Second,
	}
}

// Run dials the socket, subscribes for the user and pumps notifications
// until ctx is done or the connection drops. Reconnecting is the caller's
// call.
func (f *Feed) Run(ctx context.Context) error {
	header := http.Header{}
	if tok, ok := f.tokens.AccessToken(); ok {
		header.Set("Authorization", "Bearer "+tok)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, header)
	if err != nil {
		return customErrors.WrapServer(err, "dial notification socket")
	}
	defer conn.Close()

	payload, _ := json.Marshal(subscribePayload{UserID: f.userID})
	if err := conn.WriteJSON(frame{Type: "notifications:subscribe", Payload: payload}); err != nil {
		return customErrors.WrapServer(err, "subscribe notifications")
	}
	f.log.Info("notification feed connected", zap.String("user", f.userID))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(f.pingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				// Nudges the blocked read loop to return.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return ctx.Err()
			case <-ticker.C:
				deadline := time.Now().Add(5 * time.Second)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return customErrors.WrapServer(err, "ping notification socket")
				}
			}
		}
	})

	g.Go(func() error {
		for {
			var fr frame
			if err := conn.ReadJSON(&fr); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return customErrors.WrapServer(err, "read notification socket")
			}
			if fr.Type != "notification" {
				continue
			}

			var n Notification
			if err := json.Unmarshal(fr.Payload, &n); err != nil {
				f.log.Warn("malformed notification, skipping", zap.Error(err))
				continue
			}
			f.push(n)
		}
	})

	return g.Wait()
}

func (f *Feed) push(n Notification) {
	f.mu.Lock()
	f.items = append([]Notification{n}, f.items...)
	f.mu.Unlock()

	select {
	case f.updates <- n:
	default:
		f.log.Debug("notification subscriber lagging, dropping update")
	}
}

// Updates streams notifications as they arrive.
func (f *Feed) Updates() <-chan Notification { return f.updates }

// Items returns the feed newest-first.
func (f *Feed) Items() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) MarkRead(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return
		}
	}
}
