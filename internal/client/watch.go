package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-arena/internal/spectator"
)

// Watch streams snapshots of a live game to fn until ctx is done or the
// server closes the stream.
func (c *Client) Watch(ctx context.Context, id string, fn func(spectator.LiveGame)) error {
	wsURL, err := c.streamURL(id)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return &APIError{Status: resp.StatusCode, Detail: "Game not found"}
		}
		return fmt.Errorf("client: cannot open stream: %w", err)
	}
	defer conn.Close()

	// Unblock ReadJSON when the caller gives up.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var g spectator.LiveGame
		if err := conn.ReadJSON(&g); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}
			return fmt.Errorf("client: stream: %w", err)
		}
		fn(g)
	}
}

func (c *Client) streamURL(id string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("client: bad base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/live-games/" + url.PathEscape(id) + "/stream"
	return u.String(), nil
}
