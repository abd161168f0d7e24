package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"inkflowcrm/internal/followup"
	"inkflowcrm/internal/models"
	"inkflowcrm/internal/storage/sqlite"
)

// Server provides HTTP handlers for the InkFlowCRM backend.
type Server struct {
	engine     *gin.Engine
	store      *sqlite.Store
	logger     *slog.Logger
	staticDir  string
	studioName string

	mu        sync.Mutex
	followups map[int64]*followup.Store
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, logger *slog.Logger, staticDir, studioName string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if studioName == "" {
		studioName = "our shop"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:     router,
		store:      store,
		logger:     logger,
		staticDir:  staticDir,
		studioName: studioName,
		followups:  make(map[int64]*followup.Store),
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.POST("/artists", s.handleRegisterArtist)

		authed := api.Group("", s.requireArtist())
		{
			authed.GET("/me", s.handleMe)
			authed.GET("/artists", s.handleListArtists)

			clients := authed.Group("/clients")
			{
				clients.GET("", s.handleListClients)
				clients.POST("", s.handleCreateClient)
				clients.PUT(":id", s.handleUpdateClient)
				clients.DELETE(":id", s.handleDeleteClient)
			}

			appointments := authed.Group("/appointments")
			{
				appointments.GET("", s.handleListAppointments)
				appointments.POST("", s.handleCreateAppointment)
				appointments.PUT(":id", s.handleUpdateAppointment)
				appointments.POST(":id/cancel", s.handleCancelAppointment)
			}

			tattoos := authed.Group("/tattoos")
			{
				tattoos.GET("", s.handleListTattoos)
				tattoos.POST("", s.handleCreateTattoo)
				tattoos.PUT(":id", s.handleUpdateTattoo)
				tattoos.POST(":id/complete", s.handleCompleteTattoo)
			}

			followups := authed.Group("/followups")
			{
				followups.GET("", s.handleListFollowUps)
				followups.POST(":id/status", s.handleFollowUpStatus)
				followups.PUT(":id/email", s.handleFollowUpEmail)
				followups.GET(":id/compose", s.handleFollowUpCompose)
			}

			authed.GET("/expenses", s.handleListExpenses)
			authed.POST("/expenses", s.handleCreateExpense)
			authed.GET("/analytics/summary", s.handleAnalyticsSummary)
		}
	}

	s.mountStatic()
}

// requireArtist resolves the bearer token to an artist account. Handlers read
// the artist from the request context and never from request input.
func (s *Server) requireArtist() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		artist, err := s.store.GetArtistByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, sqlite.ErrArtistNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			s.respondError(c, http.StatusInternalServerError, err)
			c.Abort()
			return
		}

		c.Set("artist", artist)
		c.Next()
	}
}

// currentArtist returns the authenticated artist set by the middleware.
func currentArtist(c *gin.Context) models.Artist {
	return c.MustGet("artist").(models.Artist)
}

// followupsFor lazily builds and loads the follow-up store for one artist.
func (s *Server) followupsFor(c *gin.Context, artist models.Artist) (*followup.Store, error) {
	s.mu.Lock()
	fs, ok := s.followups[artist.ID]
	if !ok {
		fs = followup.NewStore(s.store, artist.ID, s.logger)
		s.followups[artist.ID] = fs
	}
	s.mu.Unlock()

	if err := fs.Load(c.Request.Context()); err != nil {
		return nil, err
	}
	return fs, nil
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
