package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"inkflowcrm/internal/calendar"
	"inkflowcrm/internal/followup"
	"inkflowcrm/internal/models"
)

type followUpStatusRequest struct {
	Status string `json:"status"`
}

type followUpEmailRequest struct {
	Subject     *string `json:"subject"`
	Body        *string `json:"body"`
	ClientEmail *string `json:"client_email"`
}

// handleListFollowUps returns the date-bucketed task views computed against
// today at request time.
func (s *Server) handleListFollowUps(c *gin.Context) {
	artist := currentArtist(c)

	fs, err := s.followupsFor(c, artist)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	today := calendar.FromTime(time.Now())
	respondSuccess(c, http.StatusOK, gin.H{
		"today":        today,
		"pending":      fs.Pending(),
		"overdue":      fs.Overdue(today),
		"due_today":    fs.DueToday(today),
		"upcoming":     fs.Upcoming(today),
		"completed":    fs.Completed(),
		"urgent_count": fs.UrgentCount(today),
	})
}

// handleFollowUpStatus marks a task sent or skipped.
func (s *Server) handleFollowUpStatus(c *gin.Context) {
	artist := currentArtist(c)
	id := c.Param("id")

	var req followUpStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	status := models.TaskStatus(req.Status)
	if !status.Terminal() {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("status must be sent or skipped"))
		return
	}

	fs, err := s.followupsFor(c, artist)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	task, err := fs.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		s.respondFollowUpError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleFollowUpEmail edits the draft subject, body, or recipient of a
// pending task.
func (s *Server) handleFollowUpEmail(c *gin.Context) {
	artist := currentArtist(c)
	id := c.Param("id")

	var req followUpEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	fs, err := s.followupsFor(c, artist)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	task, err := fs.UpdateEmail(c.Request.Context(), id, req.Subject, req.Body, req.ClientEmail)
	if err != nil {
		s.respondFollowUpError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleFollowUpCompose returns the current recipient, subject, and body
// plus a mailto URL for the platform mail handler. Nothing is delivered
// server-side; marking the task sent afterwards is the user's call.
func (s *Server) handleFollowUpCompose(c *gin.Context) {
	artist := currentArtist(c)
	id := c.Param("id")

	fs, err := s.followupsFor(c, artist)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	task, err := fs.Get(id)
	if err != nil {
		s.respondFollowUpError(c, err)
		return
	}

	mailto := fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		url.QueryEscape(task.ClientEmail),
		mailtoEscape(task.EmailSubject),
		mailtoEscape(task.EmailBody))

	respondSuccess(c, http.StatusOK, gin.H{
		"to":      task.ClientEmail,
		"subject": task.EmailSubject,
		"body":    task.EmailBody,
		"mailto":  mailto,
	})
}

// mailtoEscape percent-encodes a header value for a mailto URI. QueryEscape
// alone would emit '+' for spaces, which mail clients render literally.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// respondFollowUpError maps core errors onto HTTP statuses.
func (s *Server) respondFollowUpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, followup.ErrTaskNotFound):
		s.respondError(c, http.StatusNotFound, err)
	case errors.Is(err, followup.ErrTaskFinalized), errors.Is(err, followup.ErrInvalidTransition), errors.Is(err, followup.ErrAlreadyScheduled):
		s.respondError(c, http.StatusConflict, err)
	default:
		s.respondError(c, http.StatusInternalServerError, err)
	}
}
