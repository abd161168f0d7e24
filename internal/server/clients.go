package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkflowcrm/internal/models"
	"inkflowcrm/internal/storage/sqlite"
)

type clientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

// handleListClients returns all clients for the authenticated artist.
func (s *Server) handleListClients(c *gin.Context) {
	artist := currentArtist(c)

	clients, err := s.store.ListClients(c.Request.Context(), artist.ID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"clients": clients})
}

// handleCreateClient creates a client record.
func (s *Server) handleCreateClient(c *gin.Context) {
	artist := currentArtist(c)

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil || *req.Name == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}

	client, err := s.store.CreateClient(c.Request.Context(), models.Client{
		ArtistID: artist.ID,
		Name:     *req.Name,
		Email:    getString(req.Email),
		Phone:    getString(req.Phone),
		Notes:    getString(req.Notes),
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"client": client})
}

// handleUpdateClient applies a partial update to a client record.
func (s *Server) handleUpdateClient(c *gin.Context) {
	artist := currentArtist(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	client, err := s.store.UpdateClient(c.Request.Context(), artist.ID, id, sqlite.ClientChanges{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"client": client})
}

// handleDeleteClient removes a client and everything attached to them.
func (s *Server) handleDeleteClient(c *gin.Context) {
	artist := currentArtist(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteClient(c.Request.Context(), artist.ID, id); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
