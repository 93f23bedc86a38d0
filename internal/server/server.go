package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/api"
	"eksfiller/internal/config"
	"eksfiller/internal/store"
)

// Server HTTP-Server
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer erstellt den Server
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// SQLite-Store initialisieren
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "eksfiller.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Datenbank konnte nicht initialisiert werden: %v", err)
	}

	handler := api.NewHandler(sqliteStore, cfg)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    handler,
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes richtet die Routen ein
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API-Routen
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	if devMode {
		// Entwicklungsmodus: an den Frontend-Dev-Server weiterleiten
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		s.router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "/api/status")
		})
		s.router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unbekannter Pfad"})
		})
	}
}

// Run startet den Server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close schließt die Datenbankverbindung
func (s *Server) Close() error {
	return s.store.Close()
}
