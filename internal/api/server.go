package api

import (
	"blog-serwer/internal/blog"
	"blog-serwer/internal/config"
	"blog-serwer/internal/database"
	"blog-serwer/internal/websocket"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("blog.api")

type Server struct {
	config *config.Config
	store  *database.Store
	blog   *blog.Service
	wsHub  *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.Store, blogService *blog.Service, wsHub *websocket.Hub) *Server {
	return &Server{
		config: cfg,
		store:  store,
		blog:   blogService,
		wsHub:  wsHub,
	}
}
