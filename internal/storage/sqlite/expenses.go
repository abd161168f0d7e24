package sqlite

import (
	"context"
	"fmt"
	"strings"

	"inkflowcrm/internal/calendar"
	"inkflowcrm/internal/models"
)

// ListExpenses returns an artist's expenses, newest first.
func (s *Store) ListExpenses(ctx context.Context, artistID int64) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, artist_id, category, description, amount_cents, incurred_on, created_at
        FROM expenses WHERE artist_id = ? ORDER BY incurred_on DESC, id DESC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.ArtistID, &e.Category, &e.Description, &e.AmountCents, &e.IncurredOn, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CreateExpense records a business cost entry.
func (s *Store) CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	if e.AmountCents <= 0 {
		return models.Expense{}, fmt.Errorf("expense amount must be positive")
	}
	if e.IncurredOn.IsZero() {
		return models.Expense{}, fmt.Errorf("expense date is required")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses(artist_id, category, description, amount_cents, incurred_on)
        VALUES(?, ?, ?, ?, ?)`,
		e.ArtistID, strings.TrimSpace(e.Category), strings.TrimSpace(e.Description), e.AmountCents, e.IncurredOn.String())
	if err != nil {
		return models.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Expense{}, fmt.Errorf("expense id: %w", err)
	}

	var out models.Expense
	err = s.db.QueryRowContext(ctx,
		`SELECT id, artist_id, category, description, amount_cents, incurred_on, created_at
        FROM expenses WHERE id = ?`, id).
		Scan(&out.ID, &out.ArtistID, &out.Category, &out.Description, &out.AmountCents, &out.IncurredOn, &out.CreatedAt)
	if err != nil {
		return models.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return out, nil
}

// RevenueSummary aggregates earnings and costs for an artist over a date
// range (inclusive on both ends).
type RevenueSummary struct {
	RevenueCents   int64
	ExpenseCents   int64
	CompletedCount int64
	ExpenseCount   int64
}

// SummarizeRevenue totals completed-tattoo revenue and expenses between two
// dates.
func (s *Store) SummarizeRevenue(ctx context.Context, artistID int64, from, to calendar.Date) (RevenueSummary, error) {
	var summary RevenueSummary

	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price_cents), 0), COUNT(*)
        FROM tattoos WHERE artist_id = ? AND status = ? AND completed_on >= ? AND completed_on <= ?`,
		artistID, models.TattooCompleted, from.String(), to.String()).
		Scan(&summary.RevenueCents, &summary.CompletedCount)
	if err != nil {
		return RevenueSummary{}, fmt.Errorf("sum revenue: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0), COUNT(*)
        FROM expenses WHERE artist_id = ? AND incurred_on >= ? AND incurred_on <= ?`,
		artistID, from.String(), to.String()).
		Scan(&summary.ExpenseCents, &summary.ExpenseCount)
	if err != nil {
		return RevenueSummary{}, fmt.Errorf("sum expenses: %w", err)
	}

	return summary, nil
}
