package api

import (
	"net/http"

	"fileflow/internal/auth"
	"fileflow/internal/websocket"
)

// @Summary      Subscribe to tree changes
// @Description  Upgrades to a websocket that receives node_created, node_updated and node_deleted events.
// @Tags         events
// @Param        token  query  string  false  "Access token, used when no session cookie is sent"
// @Success      101
// @Failure      401  {object}  ErrorResponse
// @Router       /ws [get]
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	var tokenString string
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		writeError(w, http.StatusUnauthorized, "token required")
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		s.log.Warn(r.Context(), "websocket connection attempt with invalid token", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, claims.UserID)
	if !s.wsHub.Register(client) {
		conn.Close()
		return
	}

	go client.ReadPump()
	go client.WritePump()
}
