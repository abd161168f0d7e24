package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inkflowcrm/internal/models"
	"inkflowcrm/internal/storage/sqlite"
)

type appointmentRequest struct {
	ClientID    *int64     `json:"client_id"`
	Service     *string    `json:"service"`
	StartsAt    *time.Time `json:"starts_at"`
	DurationMin *int64     `json:"duration_min"`
	Status      *string    `json:"status"`
	Notes       *string    `json:"notes"`
}

// handleListAppointments returns the artist's calendar.
func (s *Server) handleListAppointments(c *gin.Context) {
	artist := currentArtist(c)

	appts, err := s.store.ListAppointments(c.Request.Context(), artist.ID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"appointments": appts})
}

// handleCreateAppointment books a session.
func (s *Server) handleCreateAppointment(c *gin.Context) {
	artist := currentArtist(c)

	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.ClientID == nil || req.StartsAt == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("client_id and starts_at are required"))
		return
	}

	appt := models.Appointment{
		ArtistID: artist.ID,
		ClientID: *req.ClientID,
		Service:  getString(req.Service),
		StartsAt: *req.StartsAt,
		Status:   getString(req.Status),
		Notes:    getString(req.Notes),
	}
	if req.DurationMin != nil {
		appt.DurationMin = *req.DurationMin
	}

	created, err := s.store.CreateAppointment(c.Request.Context(), appt)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"appointment": created})
}

// handleUpdateAppointment applies a partial update to an appointment.
func (s *Server) handleUpdateAppointment(c *gin.Context) {
	artist := currentArtist(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	appt, err := s.store.UpdateAppointment(c.Request.Context(), artist.ID, id, sqlite.AppointmentChanges{
		Service:     req.Service,
		StartsAt:    req.StartsAt,
		DurationMin: req.DurationMin,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"appointment": appt})
}

// handleCancelAppointment marks an appointment cancelled.
func (s *Server) handleCancelAppointment(c *gin.Context) {
	artist := currentArtist(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	cancelled := "cancelled"
	appt, err := s.store.UpdateAppointment(c.Request.Context(), artist.ID, id, sqlite.AppointmentChanges{
		Status: &cancelled,
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"appointment": appt})
}
