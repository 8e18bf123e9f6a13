package server

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/tabmate/tabmate/internal/notify"
)

// handleEvents streams group activity as server-sent events. The client
// reconnects on its own; there is no replay, only events from subscribe
// time forward.
func (s *Server) handleEvents(c *fiber.Ctx) error {
	if err := s.requireMembership(c); err != nil {
		return err
	}
	groupID := c.Params("groupId")

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	events, cancel := s.hub.Subscribe(groupID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					return
				}
			case <-keepalive.C:
				// Comment line keeps proxies from timing out the stream.
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, ev notify.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: " + ev.Name + "\n"); err != nil {
		return err
	}
	if _, err := w.WriteString("data: " + string(data) + "\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
