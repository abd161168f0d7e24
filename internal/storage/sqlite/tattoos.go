package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inkflowcrm/internal/calendar"
	"inkflowcrm/internal/models"
)

// ErrTattooCompleted is returned when completing a tattoo twice.
var ErrTattooCompleted = errors.New("tattoo is already completed")

// TattooChanges carries a partial tattoo update.
type TattooChanges struct {
	Description *string
	Placement   *string
	PriceCents  *int64
	Status      *string
}

// ListTattoos returns an artist's tattoos, newest first.
func (s *Store) ListTattoos(ctx context.Context, artistID int64) ([]models.Tattoo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, artist_id, client_id, description, placement, price_cents, status, completed_on, created_at, updated_at
        FROM tattoos WHERE artist_id = ? ORDER BY created_at DESC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("list tattoos: %w", err)
	}
	defer rows.Close()

	var tattoos []models.Tattoo
	for rows.Next() {
		t, err := scanTattoo(rows)
		if err != nil {
			return nil, err
		}
		tattoos = append(tattoos, t)
	}
	return tattoos, rows.Err()
}

// CreateTattoo records a new piece of work for a client.
func (s *Store) CreateTattoo(ctx context.Context, t models.Tattoo) (models.Tattoo, error) {
	if t.ClientID == 0 {
		return models.Tattoo{}, fmt.Errorf("tattoo needs a client")
	}
	if _, ok := models.ValidTattooStatuses[t.Status]; !ok {
		t.Status = models.TattooScheduled
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tattoos(artist_id, client_id, description, placement, price_cents, status)
        VALUES(?, ?, ?, ?, ?, ?)`,
		t.ArtistID, t.ClientID, strings.TrimSpace(t.Description), strings.TrimSpace(t.Placement), t.PriceCents, t.Status)
	if err != nil {
		return models.Tattoo{}, fmt.Errorf("insert tattoo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Tattoo{}, fmt.Errorf("tattoo id: %w", err)
	}
	return s.GetTattoo(ctx, t.ArtistID, id)
}

// GetTattoo fetches one tattoo scoped to the owning artist.
func (s *Store) GetTattoo(ctx context.Context, artistID, id int64) (models.Tattoo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, artist_id, client_id, description, placement, price_cents, status, completed_on, created_at, updated_at
        FROM tattoos WHERE id = ? AND artist_id = ?`, id, artistID)
	t, err := scanTattoo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tattoo{}, fmt.Errorf("tattoo not found")
	}
	if err != nil {
		return models.Tattoo{}, err
	}
	return t, nil
}

// UpdateTattoo applies the supplied field changes. Status changes through
// this path cannot reach "completed"; use CompleteTattoo for that.
func (s *Store) UpdateTattoo(ctx context.Context, artistID, id int64, changes TattooChanges) (models.Tattoo, error) {
	current, err := s.GetTattoo(ctx, artistID, id)
	if err != nil {
		return models.Tattoo{}, err
	}

	description := current.Description
	placement := current.Placement
	price := current.PriceCents
	status := current.Status

	if changes.Description != nil {
		description = strings.TrimSpace(*changes.Description)
	}
	if changes.Placement != nil {
		placement = strings.TrimSpace(*changes.Placement)
	}
	if changes.PriceCents != nil && *changes.PriceCents >= 0 {
		price = *changes.PriceCents
	}
	if changes.Status != nil && *changes.Status != models.TattooCompleted {
		if _, ok := models.ValidTattooStatuses[*changes.Status]; ok {
			status = *changes.Status
		}
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE tattoos SET description = ?, placement = ?, price_cents = ?, status = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND artist_id = ?`, description, placement, price, status, id, artistID)
	if err != nil {
		return models.Tattoo{}, fmt.Errorf("update tattoo: %w", err)
	}
	return s.GetTattoo(ctx, artistID, id)
}

// CompleteTattoo marks a tattoo completed on the given date. Completing an
// already-completed tattoo fails so the follow-up batch is only ever
// triggered once.
func (s *Store) CompleteTattoo(ctx context.Context, artistID, id int64, completedOn calendar.Date) (models.Tattoo, error) {
	current, err := s.GetTattoo(ctx, artistID, id)
	if err != nil {
		return models.Tattoo{}, err
	}
	if current.Status == models.TattooCompleted {
		return models.Tattoo{}, ErrTattooCompleted
	}
	if completedOn.IsZero() {
		return models.Tattoo{}, fmt.Errorf("completion date is required")
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE tattoos SET status = ?, completed_on = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND artist_id = ?`, models.TattooCompleted, completedOn.String(), id, artistID)
	if err != nil {
		return models.Tattoo{}, fmt.Errorf("complete tattoo: %w", err)
	}
	return s.GetTattoo(ctx, artistID, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTattoo(row rowScanner) (models.Tattoo, error) {
	var t models.Tattoo
	var completedOn sql.NullString
	err := row.Scan(&t.ID, &t.ArtistID, &t.ClientID, &t.Description, &t.Placement, &t.PriceCents, &t.Status, &completedOn, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tattoo{}, err
		}
		return models.Tattoo{}, fmt.Errorf("scan tattoo: %w", err)
	}
	if completedOn.Valid && completedOn.String != "" {
		d, err := calendar.Parse(completedOn.String)
		if err != nil {
			return models.Tattoo{}, fmt.Errorf("scan tattoo completion date: %w", err)
		}
		t.CompletedOn = d
	}
	return t, nil
}
