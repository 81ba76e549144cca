package api

import (
	"net/http"

	"blog-serwer/internal/auth"
	"blog-serwer/internal/websocket"
)

// ServeWsHandler upgrades to a websocket that receives the caller's journal
// events as they happen. Browsers cannot set headers on the handshake, so
// the access token travels in the query string.
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "token query parameter required", http.StatusUnauthorized)
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		logger.Debugf("websocket connection with invalid token: %v", err)
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warningf("websocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, claims.UserID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}
