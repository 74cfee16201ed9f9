// Package api exposes the file tree over HTTP.
package api

import (
	"fileflow/internal/auth"
	"fileflow/internal/config"
	"fileflow/internal/database"
	"fileflow/internal/filetree"
	"fileflow/internal/logging"
	"fileflow/internal/websocket"
)

const defaultMaxUploadBytes = 16 << 20

type Server struct {
	config      *config.Config
	store       database.Store
	credentials *auth.Credentials
	tree        *filetree.Manager
	wsHub       *websocket.Hub
	log         logging.Logger
	metrics     *Metrics
}

func NewServer(cfg *config.Config, store database.Store, tree *filetree.Manager, wsHub *websocket.Hub, log logging.Logger) *Server {
	return &Server{
		config:      cfg,
		store:       store,
		credentials: auth.NewCredentials(store),
		tree:        tree,
		wsHub:       wsHub,
		log:         log.With("component", "api"),
		metrics:     NewMetrics(),
	}
}

func (s *Server) maxUploadBytes() int64 {
	if s.config.Server.MaxUploadBytes > 0 {
		return s.config.Server.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}
