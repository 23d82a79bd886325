package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bihua-university/countries/internal/task"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// watchResult streams a task over a websocket: the current snapshot, then
// the terminal one if it was still running, then a close frame.
func (s *Server) watchResult(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	// watch before reading so a transition in between is not lost
	done, cancel := s.registry.Watch(id)
	defer cancel()

	t, err := s.registry.Get(ctx, id)
	if errors.Is(err, task.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"task_id": id, "status": "Not Found", "result": nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"task_id": id, "message": err.Error()})
		return
	}

	wc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WarnContext(ctx, "upgrade", "error", err)
		return
	}
	defer wc.Close()

	// the reader notices a client that went away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := wc.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := wc.WriteJSON(t); err != nil {
		return
	}
	if !t.Status.Terminal() {
		select {
		case final, ok := <-done:
			if !ok {
				return
			}
			if err := wc.WriteJSON(final); err != nil {
				return
			}
			t = final
		case <-gone:
			return
		case <-ctx.Done():
			return
		}
	}
	_ = wc.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(t.Status)))
}
