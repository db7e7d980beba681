package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/helpdesk-service/internal/notify"
)

const keepAliveInterval = 25 * time.Second

// NotificationsHandler streams notifications to clients over SSE.
type NotificationsHandler struct {
	hub *notify.Hub
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(hub *notify.Hub) *NotificationsHandler {
	return &NotificationsHandler{hub: hub}
}

// Stream GET /notifications/stream.
func (h *NotificationsHandler) Stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	events, cancel := h.hub.Subscribe()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
				if err := w.Flush(); err != nil {
					// Client is gone; the deferred cancel drops the
					// subscription.
					return
				}
			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
