package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"inkflowcrm/internal/calendar"
	"inkflowcrm/internal/models"
)

type expenseRequest struct {
	Category    *string `json:"category"`
	Description *string `json:"description"`
	AmountCents *int64  `json:"amount_cents"`
	IncurredOn  string  `json:"incurred_on"`
}

// handleListExpenses returns the artist's expense entries.
func (s *Server) handleListExpenses(c *gin.Context) {
	artist := currentArtist(c)

	expenses, err := s.store.ListExpenses(c.Request.Context(), artist.ID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"expenses": expenses})
}

// handleCreateExpense records a cost entry.
func (s *Server) handleCreateExpense(c *gin.Context) {
	artist := currentArtist(c)

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.AmountCents == nil || req.IncurredOn == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("amount_cents and incurred_on are required"))
		return
	}

	incurredOn, err := calendar.Parse(req.IncurredOn)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	expense, err := s.store.CreateExpense(c.Request.Context(), models.Expense{
		ArtistID:    artist.ID,
		Category:    getString(req.Category),
		Description: getString(req.Description),
		AmountCents: *req.AmountCents,
		IncurredOn:  incurredOn,
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"expense": expense})
}

// handleAnalyticsSummary aggregates revenue and expenses over a date range.
// Defaults to the last 30 days when no range is given.
func (s *Server) handleAnalyticsSummary(c *gin.Context) {
	artist := currentArtist(c)

	today := calendar.FromTime(time.Now())
	from := today.AddDays(-30)
	to := today

	if raw := c.Query("from"); raw != "" {
		parsed, err := calendar.Parse(raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := calendar.Parse(raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		to = parsed
	}
	if to.Before(from) {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("range end precedes start"))
		return
	}

	summary, err := s.store.SummarizeRevenue(c.Request.Context(), artist.ID, from, to)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	net := summary.RevenueCents - summary.ExpenseCents
	respondSuccess(c, http.StatusOK, gin.H{
		"from":              from,
		"to":                to,
		"revenue_cents":     summary.RevenueCents,
		"expense_cents":     summary.ExpenseCents,
		"net_cents":         net,
		"completed_tattoos": summary.CompletedCount,
		"expense_entries":   summary.ExpenseCount,
		"revenue_display":   formatMoney(summary.RevenueCents),
		"expense_display":   formatMoney(summary.ExpenseCents),
		"net_display":       formatMoney(net),
	})
}

// formatMoney renders cents as a human friendly dollar string.
func formatMoney(cents int64) string {
	return "$" + humanize.CommafWithDigits(float64(cents)/100, 2)
}
