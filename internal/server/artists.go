package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type artistRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// handleRegisterArtist creates an artist account and returns its API token.
// The token is only ever shown in this response.
func (s *Server) handleRegisterArtist(c *gin.Context) {
	var req artistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" || req.Email == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("name and email are required"))
		return
	}

	artist, err := s.store.CreateArtist(c.Request.Context(), req.Name, req.Email, req.Role)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"artist": artist, "token": artist.APIToken})
}

// handleMe returns the authenticated artist.
func (s *Server) handleMe(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"artist": currentArtist(c)})
}

// handleListArtists returns the studio roster.
func (s *Server) handleListArtists(c *gin.Context) {
	artists, err := s.store.ListArtists(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"artists": artists})
}
