package api

import (
	"katalog-miejsc/internal/auth"
	"katalog-miejsc/internal/websocket"
	"log"
	"net/http"
)

func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		log.Println("WS connection attempt without token")
		return
	}

	claims, err := s.tokens.Verify(tokenString, auth.TokenKindAccess)
	if err != nil {
		log.Printf("WS connection attempt with invalid token: %v", err)
		return
	}

	session, err := s.store.GetSessionByID(r.Context(), claims.SessionID)
	if err != nil || session == nil {
		log.Println("WS connection attempt with a revoked session")
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, claims.UserID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}
