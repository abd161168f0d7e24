package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inkflowcrm/internal/calendar"
	"inkflowcrm/internal/followup"
	"inkflowcrm/internal/models"
	"inkflowcrm/internal/storage/sqlite"
)

type tattooRequest struct {
	ClientID    *int64  `json:"client_id"`
	Description *string `json:"description"`
	Placement   *string `json:"placement"`
	PriceCents  *int64  `json:"price_cents"`
	Status      *string `json:"status"`
}

type completeTattooRequest struct {
	CompletedOn string `json:"completed_on"`
}

// handleListTattoos returns the artist's work history.
func (s *Server) handleListTattoos(c *gin.Context) {
	artist := currentArtist(c)

	tattoos, err := s.store.ListTattoos(c.Request.Context(), artist.ID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tattoos": tattoos})
}

// handleCreateTattoo records a new piece.
func (s *Server) handleCreateTattoo(c *gin.Context) {
	artist := currentArtist(c)

	var req tattooRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.ClientID == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("client_id is required"))
		return
	}

	tattoo := models.Tattoo{
		ArtistID:    artist.ID,
		ClientID:    *req.ClientID,
		Description: getString(req.Description),
		Placement:   getString(req.Placement),
		Status:      getString(req.Status),
	}
	if req.PriceCents != nil {
		tattoo.PriceCents = *req.PriceCents
	}

	created, err := s.store.CreateTattoo(c.Request.Context(), tattoo)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"tattoo": created})
}

// handleUpdateTattoo applies a partial update to a tattoo record.
func (s *Server) handleUpdateTattoo(c *gin.Context) {
	artist := currentArtist(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req tattooRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	tattoo, err := s.store.UpdateTattoo(c.Request.Context(), artist.ID, id, sqlite.TattooChanges{
		Description: req.Description,
		Placement:   req.Placement,
		PriceCents:  req.PriceCents,
		Status:      req.Status,
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tattoo": tattoo})
}

// handleCompleteTattoo marks a tattoo completed and schedules the follow-up
// batch. Follow-up creation is best effort: a failure there is logged and
// reported in the payload but never fails the completion itself.
func (s *Server) handleCompleteTattoo(c *gin.Context) {
	artist := currentArtist(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req completeTattooRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	completedOn := calendar.FromTime(time.Now())
	if req.CompletedOn != "" {
		parsed, err := calendar.Parse(req.CompletedOn)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		completedOn = parsed
	}

	tattoo, err := s.store.CompleteTattoo(c.Request.Context(), artist.ID, id, completedOn)
	if err != nil {
		if errors.Is(err, sqlite.ErrTattooCompleted) {
			s.respondError(c, http.StatusConflict, err)
			return
		}
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	tasks, followupErr := s.scheduleFollowUps(c, artist, tattoo)
	payload := gin.H{"tattoo": tattoo}
	if followupErr != nil {
		payload["followup_error"] = followupErr.Error()
	} else {
		payload["followups"] = tasks
	}
	respondSuccess(c, http.StatusOK, payload)
}

// scheduleFollowUps looks up the client snapshot and asks the follow-up store
// for the batch. Errors are logged here; the caller decides how to surface
// them without blocking the completion flow.
func (s *Server) scheduleFollowUps(c *gin.Context, artist models.Artist, tattoo models.Tattoo) ([]models.FollowUpTask, error) {
	client, err := s.store.GetClient(c.Request.Context(), artist.ID, tattoo.ClientID)
	if err != nil {
		s.logger.Error("follow-up scheduling skipped",
			slog.Int64("tattoo_id", tattoo.ID), slog.String("error", err.Error()))
		return nil, err
	}

	fs, err := s.followupsFor(c, artist)
	if err != nil {
		s.logger.Error("follow-up store unavailable",
			slog.Int64("tattoo_id", tattoo.ID), slog.String("error", err.Error()))
		return nil, err
	}

	tasks, err := fs.CreateTasksForTattoo(c.Request.Context(), followup.CompletedTattoo{
		TattooID:    tattoo.ID,
		ClientName:  client.Name,
		ClientEmail: client.Email,
		CompletedOn: tattoo.CompletedOn,
	}, artist.Name, s.studioName)
	if err != nil {
		s.logger.Error("follow-up scheduling failed",
			slog.Int64("tattoo_id", tattoo.ID), slog.String("error", err.Error()))
		return nil, err
	}
	return tasks, nil
}
