package logic

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"innerbloom-backend/internal/timer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BreathingLiveHandler streams the phase cycle of one technique over a
// websocket. Each frame is a JSON tick; the cycle runs until the client
// disconnects.
func (app *App) BreathingLiveHandler(c *gin.Context) {
	technique, ok := TechniqueByID(c.Query("technique"))
	if !ok {
		c.JSON(400, gin.H{"error": "unknown technique"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		app.Log.Error("upgrade breathing feed", "err", err)
		return
	}
	defer conn.Close()

	// gorilla allows one concurrent writer; the tick callback runs on the
	// sequencer goroutine while error frames come from this one.
	var writeMu sync.Mutex
	writeJSON := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	seq := timer.NewSequencer(technique.Sequence(), app.tick, func(tick timer.Tick) {
		if err := writeJSON(gin.H{
			"type":      "phase",
			"phase":     tick.Phase,
			"remaining": tick.Remaining,
		}); err != nil {
			app.Log.Debug("breathing feed write", "err", err)
		}
	})
	seq.Start()
	defer seq.Stop()

	// The read loop exists to notice the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// SessionLiveHandler is the streaming chat feed: the client sends text
// frames, each reply arrives as delta frames followed by a done frame.
func (app *App) SessionLiveHandler(c *gin.Context) {
	s, ok := app.activeSession(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		app.Log.Error("upgrade session feed", "err", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		full, err := s.Send(c.Request.Context(), string(data), func(delta string) {
			if werr := conn.WriteJSON(gin.H{"type": "delta", "content": delta}); werr != nil {
				app.Log.Debug("session feed write", "err", werr)
			}
		})
		if err != nil {
			app.Log.Error("session feed turn", "err", err)
			if werr := conn.WriteJSON(gin.H{"type": "error", "message": "AI error"}); werr != nil {
				return
			}
			continue
		}
		if werr := conn.WriteJSON(gin.H{"type": "done", "content": full}); werr != nil {
			return
		}
	}
}
