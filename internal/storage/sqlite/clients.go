package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inkflowcrm/internal/models"
)

// ClientChanges carries a partial client update; nil fields stay untouched.
type ClientChanges struct {
	Name  *string
	Email *string
	Phone *string
	Notes *string
}

// ListClients retrieves all clients belonging to an artist.
func (s *Store) ListClients(ctx context.Context, artistID int64) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, artist_id, name, email, phone, notes, created_at, updated_at
        FROM clients WHERE artist_id = ? ORDER BY name COLLATE NOCASE ASC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.ArtistID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// CreateClient persists a new client record for an artist.
func (s *Store) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	if strings.TrimSpace(c.Name) == "" {
		return models.Client{}, fmt.Errorf("client name must not be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clients(artist_id, name, email, phone, notes) VALUES(?, ?, ?, ?, ?)`,
		c.ArtistID, strings.TrimSpace(c.Name), strings.TrimSpace(c.Email), strings.TrimSpace(c.Phone), c.Notes)
	if err != nil {
		return models.Client{}, fmt.Errorf("insert client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Client{}, fmt.Errorf("client id: %w", err)
	}
	return s.GetClient(ctx, c.ArtistID, id)
}

// GetClient fetches a client by id, scoped to the owning artist.
func (s *Store) GetClient(ctx context.Context, artistID, id int64) (models.Client, error) {
	var c models.Client
	err := s.db.QueryRowContext(ctx,
		`SELECT id, artist_id, name, email, phone, notes, created_at, updated_at
        FROM clients WHERE id = ? AND artist_id = ?`, id, artistID).
		Scan(&c.ID, &c.ArtistID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, fmt.Errorf("client not found")
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// UpdateClient applies the supplied field changes to a client record.
func (s *Store) UpdateClient(ctx context.Context, artistID, id int64, changes ClientChanges) (models.Client, error) {
	current, err := s.GetClient(ctx, artistID, id)
	if err != nil {
		return models.Client{}, err
	}

	name := current.Name
	email := current.Email
	phone := current.Phone
	notes := current.Notes

	if changes.Name != nil && strings.TrimSpace(*changes.Name) != "" {
		name = strings.TrimSpace(*changes.Name)
	}
	if changes.Email != nil {
		email = strings.TrimSpace(*changes.Email)
	}
	if changes.Phone != nil {
		phone = strings.TrimSpace(*changes.Phone)
	}
	if changes.Notes != nil {
		notes = *changes.Notes
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, email = ?, phone = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND artist_id = ?`, name, email, phone, notes, id, artistID)
	if err != nil {
		return models.Client{}, fmt.Errorf("update client: %w", err)
	}
	return s.GetClient(ctx, artistID, id)
}

// DeleteClient removes a client along with their appointments and tattoos.
func (s *Store) DeleteClient(ctx context.Context, artistID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ? AND artist_id = ?`, id, artistID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}
