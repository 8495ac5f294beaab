package api

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

// NewServer wires every route onto a gin engine. The SSE endpoint disables
// the write timeout on the underlying http.Server, so Start sets none.
func NewServer(port int, handler *Handler, production, debugMode bool) *Server {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(RequestID())

	// Setup routes
	api := router.Group("/api")
	{
		news := api.Group("/news")
		{
			news.GET("", handler.GetNews)
			news.GET("/hours", handler.GetNewsByHours)
			news.POST("/status", handler.UpdateStatus)
			news.GET("/status/summary", handler.StatusSummary)
		}

		generate := api.Group("/generate")
		{
			generate.POST("/instagram", handler.GenerateInstagram)
			generate.POST("/hashtags", handler.GenerateHashtags)
		}

		api.GET("/events", handler.StreamEvents)

		if !production || debugMode {
			api.GET("/debug/structure", handler.DebugStructure)
		}
	}

	router.GET("/health", handler.Health)

	// Frontend build
	router.GET("/static/*filepath", handler.serveStaticAsset)
	router.GET("/manifest.json", handler.serveManifest)
	router.NoRoute(handler.serveApp)

	return &Server{
		router: router,
		port:   port,
	}
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /api/events connections stay open indefinitely.
		IdleTimeout: 60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Router exposes the configured engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// serveStaticAsset serves the hashed build assets under /static/ with long
// cache lifetimes. The React build nests its assets in a static/ directory,
// so the lookup key keeps that prefix.
func (h *Handler) serveStaticAsset(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")

	full, ok := h.resolver.Find(path.Join("static", rel))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "path": rel})
		return
	}

	if strings.HasSuffix(rel, ".js") || strings.HasSuffix(rel, ".css") {
		c.Header("Cache-Control", "public, max-age=31536000")
	} else {
		c.Header("Cache-Control", "public, max-age=3600")
	}

	c.File(full)
}

func (h *Handler) serveManifest(c *gin.Context) {
	full, ok := h.resolver.Find("manifest.json")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "manifest.json not found"})
		return
	}
	c.File(full)
}

// wellKnownFiles are served from the build root rather than falling through
// to index.html.
var wellKnownFiles = map[string]bool{
	"favicon.ico": true,
	"logo192.png": true,
	"logo512.png": true,
	"robots.txt":  true,
}

// serveApp is the SPA fallback: unknown non-API routes get index.html so
// client-side routing works, with caching disabled so deploys take effect
// immediately.
func (h *Handler) serveApp(c *gin.Context) {
	reqPath := strings.TrimPrefix(c.Request.URL.Path, "/")

	if strings.HasPrefix(reqPath, "api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
		return
	}

	if wellKnownFiles[reqPath] {
		if full, ok := h.resolver.Find(reqPath); ok {
			c.File(full)
			return
		}
		c.Status(http.StatusNotFound)
		return
	}

	index, ok := h.resolver.IndexPath()
	if !ok {
		h.logger.LogError("index.html not found in any static path")
		c.JSON(http.StatusNotFound, gin.H{
			"error":        "frontend build not found",
			"static_paths": h.resolver.Roots(),
		})
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.File(index)
}
