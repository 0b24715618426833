package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hotel-booking/services"
	"hotel-booking/utils"
)

const (
	sessionWriteWait  = 10 * time.Second
	sessionPongWait   = 60 * time.Second
	sessionPingPeriod = (sessionPongWait * 9) / 10
)

// SessionController streams a user's session changes over a websocket.
type SessionController struct {
	AuthSvc  *services.AuthService
	Upgrader websocket.Upgrader
}

func NewSessionController(svc *services.AuthService) *SessionController {
	return &SessionController{
		AuthSvc: svc,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// GET /api/auth/events?token=...
//
// The first frame reports the current session. A signed_out frame is the
// last one before the server closes the socket.
func (sc *SessionController) Events(c *gin.Context) {
	token := c.Query("token")
	user, err := sc.AuthSvc.Authenticate(c.Request.Context(), token)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	conn, err := sc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := sc.AuthSvc.Hub.Subscribe(user.ID)
	defer cancel()

	// reader: handles pongs and notices the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(sessionPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(sessionPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(v any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
		return conn.WriteJSON(v)
	}

	u := user
	if err := write(services.SessionEvent{Type: services.SessionSignedIn, User: &u}); err != nil {
		return
	}

	ticker := time.NewTicker(sessionPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := write(ev); err != nil {
				return
			}
			if ev.Type == services.SessionSignedOut {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"),
					time.Now().Add(sessionWriteWait))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
