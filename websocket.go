package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
)

func createWebsocketHandler(panel *Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("websocket upgrade failed: %s", err), http.StatusInternalServerError)
			return
		}
		defer c.Close(websocket.StatusInternalError, "the sky is falling")

		unsub, ch := panel.ctrl.Subscribe()
		defer unsub()

		for {
			select {
			case <-r.Context().Done():
				c.Close(websocket.StatusNormalClosure, "")
				return
			case msg, ok := <-ch:
				if !ok {
					c.Close(websocket.StatusNormalClosure, "")
					return
				}

				js, err := json.Marshal(msg)
				if err != nil {
					log.Err(err).Msg("Failed to marshal event payload for websocket")
					continue
				}

				if err := writeTimeout(r.Context(), 5*time.Second, c, js); err != nil {
					return
				}
			}
		}
	}
}

func writeTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Write(ctx, websocket.MessageText, msg)
}
