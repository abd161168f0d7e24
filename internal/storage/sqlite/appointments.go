package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkflowcrm/internal/models"
)

// AppointmentChanges carries a partial appointment update.
type AppointmentChanges struct {
	Service     *string
	StartsAt    *time.Time
	DurationMin *int64
	Status      *string
	Notes       *string
}

// ListAppointments returns an artist's appointments ordered by start time.
func (s *Store) ListAppointments(ctx context.Context, artistID int64) ([]models.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, artist_id, client_id, service, starts_at, duration_min, status, notes, created_at, updated_at
        FROM appointments WHERE artist_id = ? ORDER BY starts_at ASC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.ArtistID, &a.ClientID, &a.Service, &a.StartsAt, &a.DurationMin, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

// CreateAppointment books a session on the artist's calendar.
func (s *Store) CreateAppointment(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	if a.ClientID == 0 {
		return models.Appointment{}, fmt.Errorf("appointment needs a client")
	}
	if a.StartsAt.IsZero() {
		return models.Appointment{}, fmt.Errorf("appointment needs a start time")
	}
	if _, ok := models.ValidAppointmentStatuses[a.Status]; !ok {
		a.Status = "scheduled"
	}
	if a.DurationMin <= 0 {
		a.DurationMin = 60
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments(artist_id, client_id, service, starts_at, duration_min, status, notes)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		a.ArtistID, a.ClientID, strings.TrimSpace(a.Service), a.StartsAt.UTC(), a.DurationMin, a.Status, a.Notes)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Appointment{}, fmt.Errorf("appointment id: %w", err)
	}
	return s.GetAppointment(ctx, a.ArtistID, id)
}

// GetAppointment fetches one appointment scoped to the owning artist.
func (s *Store) GetAppointment(ctx context.Context, artistID, id int64) (models.Appointment, error) {
	var a models.Appointment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, artist_id, client_id, service, starts_at, duration_min, status, notes, created_at, updated_at
        FROM appointments WHERE id = ? AND artist_id = ?`, id, artistID).
		Scan(&a.ID, &a.ArtistID, &a.ClientID, &a.Service, &a.StartsAt, &a.DurationMin, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Appointment{}, fmt.Errorf("appointment not found")
	}
	if err != nil {
		return models.Appointment{}, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// UpdateAppointment applies the supplied field changes.
func (s *Store) UpdateAppointment(ctx context.Context, artistID, id int64, changes AppointmentChanges) (models.Appointment, error) {
	current, err := s.GetAppointment(ctx, artistID, id)
	if err != nil {
		return models.Appointment{}, err
	}

	service := current.Service
	startsAt := current.StartsAt
	duration := current.DurationMin
	status := current.Status
	notes := current.Notes

	if changes.Service != nil {
		service = strings.TrimSpace(*changes.Service)
	}
	if changes.StartsAt != nil && !changes.StartsAt.IsZero() {
		startsAt = changes.StartsAt.UTC()
	}
	if changes.DurationMin != nil && *changes.DurationMin > 0 {
		duration = *changes.DurationMin
	}
	if changes.Status != nil {
		if _, ok := models.ValidAppointmentStatuses[*changes.Status]; ok {
			status = *changes.Status
		}
	}
	if changes.Notes != nil {
		notes = *changes.Notes
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE appointments SET service = ?, starts_at = ?, duration_min = ?, status = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND artist_id = ?`, service, startsAt, duration, status, notes, id, artistID)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	return s.GetAppointment(ctx, artistID, id)
}
