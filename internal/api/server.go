package api

import (
	"katalog-miejsc/internal/auth"
	"katalog-miejsc/internal/config"
	"katalog-miejsc/internal/database"
	"katalog-miejsc/internal/websocket"
)

type Server struct {
	config *config.Config
	store  *database.Store
	tokens *auth.TokenManager
	google *auth.GoogleVerifier
	wsHub  *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.Store, tokens *auth.TokenManager, google *auth.GoogleVerifier, wsHub *websocket.Hub) *Server {
	return &Server{
		config: cfg,
		store:  store,
		tokens: tokens,
		google: google,
		wsHub:  wsHub,
	}
}
